package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/jobs"
	"telehealth-app-server/internal/middleware"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/routes"
	"telehealth-app-server/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func runServer(cmd *cobra.Command) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.IsDev() && cfg.LogLevel == "debug",
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	store, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logger)
	events := realtime.Multi{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka := realtime.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafka.Close()
		events = append(events, kafka)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing changes to kafka")
	}

	purger := jobs.NewTokenPurger(repositories.NewRefreshTokenRepository(db), logger)
	scheduler, err := purger.Start(time.Duration(cfg.TokenPurgeIntervalMinutes) * time.Minute)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(),
		cors.New(corsConfig(cfg)),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/realtime"})),
	)

	routes.SetupRoutes(router, routes.Dependencies{
		DB:     db,
		Config: cfg,
		Store:  store,
		Events: events,
		Hub:    hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	// Shutdown does not track hijacked websocket connections.
	hub.Close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	return corsConfig
}

func newObjectStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.ObjectStore, error) {
	if cfg.Storage.Driver != "s3" {
		logger.Warn().Msg("using in-memory object storage; uploads are lost on restart")
		return storage.NewMemoryStore(cfg.Storage.PublicURL), nil
	}
	store, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		PublicURL:       cfg.Storage.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}
	logger.Info().Str("region", cfg.Storage.Region).Str("endpoint", cfg.Storage.Endpoint).Msg("using s3 object storage")
	return store, nil
}
