package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sfvdirectory/sitegen/internal/api"
	"github.com/sfvdirectory/sitegen/internal/config"
	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/generator"
	"github.com/sfvdirectory/sitegen/internal/repository"
	"github.com/sfvdirectory/sitegen/internal/service"
	"github.com/sfvdirectory/sitegen/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting site build server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	gen, err := generator.New(cfg, repos, generator.NewFSWriter(cfg.Site.OutputDir), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize generator")
	}

	// Initialize services
	services := service.NewServices(repos, gen, cfg.Build.PollInterval, log)

	// Start background build processor
	go services.Build.StartProcessor(context.Background())
	log.Info().Str("output_dir", cfg.Site.OutputDir).Msg("Background build processor started")

	// Initialize router
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(services, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop accepting requests before cancelling running builds
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	services.Build.StopProcessor()

	log.Info().Msg("Server exited gracefully")
}
