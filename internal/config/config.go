package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// InsecureDevSecret signs tokens when JWT_SECRET is unset. Accepted only
// outside production; Validate refuses to start with it in production mode.
const InsecureDevSecret = "insecure-dev-secret-do-not-use"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	JWTSecret     string `mapstructure:"JWT_SECRET"`
	TokenTTLHours int    `mapstructure:"TOKEN_TTL_HOURS"`
	BcryptCost    int    `mapstructure:"BCRYPT_COST"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	OpenRouterAPIKey string `mapstructure:"OPENROUTER_API_KEY"`
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	RapidAPIKey      string `mapstructure:"RAPIDAPI_KEY"`

	WhisperAPIURL string `mapstructure:"WHISPER_API_URL"`
	WhisperAPIKey string `mapstructure:"WHISPER_API_KEY"`
	WhisperModel  string `mapstructure:"WHISPER_MODEL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	CacheTTLSecs  int    `mapstructure:"CACHE_TTL_SECONDS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	AITimeoutSecs int `mapstructure:"AI_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("WHISPER_API_URL", "https://api.openai.com/v1")
	v.SetDefault("WHISPER_MODEL", "whisper-1")
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("AI_TIMEOUT_SECONDS", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"JWT_SECRET", "TOKEN_TTL_HOURS", "BCRYPT_COST", "CORS_ORIGINS",
		"OPENROUTER_API_KEY", "GEMINI_API_KEY", "RAPIDAPI_KEY",
		"WHISPER_API_URL", "WHISPER_API_KEY", "WHISPER_MODEL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL_SECONDS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "AI_TIMEOUT_SECONDS",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = InsecureDevSecret
		if !cfg.IsProduction() {
			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			logger.Warn().Msg("JWT_SECRET is not set; using an insecure development secret")
			logger.Warn().Msg("tokens signed with this secret are forgeable, set JWT_SECRET before deploying")
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSecs) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSecs) * time.Second
}

// Validate checks that the configuration is safe to run. In production the
// signing secret must be explicitly provided; the insecure fallback is only
// tolerated in development.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == InsecureDevSecret {
		return fmt.Errorf("JWT_SECRET must be set when ENV is \"production\". " +
			"Refusing to start with the insecure development secret")
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %d", c.TokenTTLHours)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
