package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		old, had := os.LookupEnv(k)
		os.Setenv(k, v)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_URL": ""})
	os.Unsetenv("DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_URL": "postgres://localhost/medilens"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Port)
	}
	if cfg.TokenTTLHours != 24 {
		t.Errorf("expected default TTL 24h, got %d", cfg.TokenTTLHours)
	}
	if cfg.JWTSecret != InsecureDevSecret {
		t.Error("expected insecure dev secret fallback when JWT_SECRET is unset")
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestValidate_ProductionRejectsInsecureSecret(t *testing.T) {
	cfg := &Config{Env: "production", JWTSecret: InsecureDevSecret, TokenTTLHours: 24, BcryptCost: 10}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for insecure secret in production")
	}

	cfg.JWTSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error with explicit secret: %v", err)
	}
}

func TestValidate_BcryptCostBounds(t *testing.T) {
	cfg := &Config{Env: "development", JWTSecret: "s", TokenTTLHours: 24, BcryptCost: 3}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for bcrypt cost below minimum")
	}
}

func TestTokenTTL(t *testing.T) {
	cfg := &Config{TokenTTLHours: 2}
	if got := cfg.TokenTTL().Hours(); got != 2 {
		t.Errorf("expected 2h TTL, got %vh", got)
	}
}
