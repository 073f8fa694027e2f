package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/jamescw/unicef-assessment-tool/internal/api"
	"github.com/jamescw/unicef-assessment-tool/internal/auth"
	"github.com/jamescw/unicef-assessment-tool/internal/database"
	"github.com/jamescw/unicef-assessment-tool/internal/logger"
	"github.com/jamescw/unicef-assessment-tool/internal/middleware"
	"github.com/jamescw/unicef-assessment-tool/internal/reference"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
	"github.com/jamescw/unicef-assessment-tool/internal/services"
	"github.com/jamescw/unicef-assessment-tool/pkg/config"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.New()

	appLog, err := logger.NewZapLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}

	if err := cfg.Validate(); err != nil {
		appLog.Fatal("Invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ref, err := reference.Load(ctx, reference.OptionsFromConfig(cfg))
	if err != nil {
		appLog.Fatal("Failed to load reference data", err,
			"catalog", cfg.CatalogPath,
			"country_index", cfg.CountryIndexPath,
		)
	}
	appLog.Info("Reference data loaded",
		"questions", ref.Catalog.Len(),
		"issues", len(ref.Catalog.Issues()),
		"index_entries", ref.Index.Len(),
	)

	// Submissions and users live in Postgres when configured, in memory otherwise
	var (
		repos  *repository.Repositories
		health api.HealthChecker
	)
	if cfg.HasDatabase() {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			appLog.Fatal("Failed to connect to database", err)
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			appLog.Fatal("Failed to run migrations", err)
		}
		repos = repository.NewRepositories(db.DB)
		health = db
	} else {
		appLog.Warn("DATABASE_URL not set, submissions are kept in memory")
		repos = repository.NewMemoryRepositories()
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.NewString()
		appLog.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	svc, err := services.NewServices(repos, ref, cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to create services", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		appLog.Fatal("Invalid TRUSTED_PROXIES", err)
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(appLog))
	r.Use(middleware.RecoveryMiddleware(appLog))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware())
	}

	api.SetupRoutes(r, svc, auth.NewJWTService(cfg.JWTSecret), health)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			appLog.Error("Server failed", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Graceful shutdown failed", err)
		os.Exit(1)
	}
	appLog.Info("Server stopped")
}
