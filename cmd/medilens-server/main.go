package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medilens/medilens/internal/config"
	"github.com/medilens/medilens/internal/domain/account"
	"github.com/medilens/medilens/internal/domain/healthcase"
	"github.com/medilens/medilens/internal/domain/hospital"
	"github.com/medilens/medilens/internal/domain/profile"
	"github.com/medilens/medilens/internal/domain/triage"
	"github.com/medilens/medilens/internal/platform/ai"
	"github.com/medilens/medilens/internal/platform/apperr"
	"github.com/medilens/medilens/internal/platform/auth"
	"github.com/medilens/medilens/internal/platform/cache"
	"github.com/medilens/medilens/internal/platform/db"
	"github.com/medilens/medilens/internal/platform/middleware"
	"github.com/medilens/medilens/internal/platform/transcribe"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medilens-server",
		Short: "MediLens symptom triage API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	newMigrator := func() (*db.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logger := newLogger(cfg)
		return db.NewMigrator(cfg.DatabaseURL, logger), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Up(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Status(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Down(cmd.Context())
		},
	})
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Optional response cache; a nil redis client disables it.
	redisClient := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	responseCache := cache.New(redisClient, cfg.CacheTTL(), logger)

	// Platform services
	hasher := auth.NewHasher(cfg.BcryptCost)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())
	openRouter := ai.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.AITimeout())
	gemini := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.AITimeout())
	transcriber := transcribe.NewClient(cfg.WhisperAPIURL, cfg.WhisperAPIKey, cfg.WhisperModel, cfg.AITimeout())
	mapStyles := hospital.NewMapStyleClient(cfg.RapidAPIKey, cfg.AITimeout())

	// Domain services
	profileSvc := profile.NewService(profile.NewRepo(pool), logger)
	accountSvc := account.NewService(account.NewRepo(pool), hasher, issuer, profileSvc, logger)
	caseSvc := healthcase.NewService(healthcase.NewRepo(pool))
	triageSvc := triage.NewService(openRouter, gemini, transcriber)
	directory, err := hospital.NewDirectory()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load hospital directory")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	e.Use(echomw.RequestID())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(1<<20, 25<<20))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"service": "medilens", "status": "ok"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	})
	api := e.Group("/api", rateLimit)
	if responseCache.Enabled() {
		api.Use(responseCache.Middleware())
		logger.Info().Msg("response cache enabled")
	}
	protected := e.Group("/api", rateLimit, auth.Middleware(issuer))

	account.NewHandler(accountSvc).RegisterRoutes(api, protected)
	profile.NewHandler(profileSvc).RegisterRoutes(protected)
	healthcase.NewHandler(caseSvc).RegisterRoutes(protected)
	triage.NewHandler(triageSvc).RegisterRoutes(api, protected)
	hospital.NewHandler(directory, mapStyles).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
