package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/jobs"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/repositories"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "telehealth",
		Short:         "Telehealth API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(purgeTokensCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if err := models.Migrate(db); err != nil {
				return err
			}
			logger.Info().Str("driver", cfg.Database.Driver).Msg("database schema is up to date")
			return nil
		},
	}
}

func purgeTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete expired and revoked refresh tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			purger := jobs.NewTokenPurger(repositories.NewRefreshTokenRepository(db), logger)
			n, err := purger.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info().Int64("removed", n).Msg("purged refresh tokens")
			return nil
		},
	}
}

// setup loads .env and the configuration and builds the root logger.
func setup() (*config.Config, zerolog.Logger, error) {
	// A missing .env is fine; the environment may already be set.
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	// Background work without a request logger still logs.
	zerolog.DefaultContextLogger = &logger
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file loaded")
	}
	return cfg, logger, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}
	return logger.Level(level)
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	return models.Open(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.IsDev() && cfg.LogLevel == "debug",
	})
}
