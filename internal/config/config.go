package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	LogLevel                  string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	TokenPurgeIntervalMinutes int
	MaxUploadMB               int
	Database                  DatabaseConfig
	Storage                   StorageConfig
	Kafka                     KafkaConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	DSN      string
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Driver          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// KafkaConfig holds the change-feed broker settings. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

const (
	defaultJWTSecret        = "default_jwt_secret"
	defaultJWTRefreshSecret = "default_refresh_secret"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3001")
	v.SetDefault("ORIGIN", "http://localhost:3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_REFRESH_SECRET", defaultJWTRefreshSecret)
	v.SetDefault("JWT_EXPIRATION_MINUTES", 15)
	v.SetDefault("JWT_REFRESH_EXPIRATION_HOURS", 168) // 7 days
	v.SetDefault("TOKEN_PURGE_INTERVAL_MINUTES", 60)
	v.SetDefault("MAX_UPLOAD_MB", 50)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USERNAME", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "telehealth")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("KAFKA_TOPIC", "telehealth.changes")

	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		Username: v.GetString("DB_USERNAME"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
	if dbConfig.Port == "" {
		dbConfig.Port = defaultDBPort(dbConfig.Driver)
	}
	dbConfig.DSN = v.GetString("DATABASE_URL")
	if dbConfig.DSN == "" {
		dbConfig.DSN = buildDSN(dbConfig)
	}

	storageConfig := StorageConfig{
		Driver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
		Region:          v.GetString("S3_REGION"),
		Endpoint:        v.GetString("S3_ENDPOINT"),
		AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
		SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		PublicURL:       strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
	}

	kafkaConfig := KafkaConfig{
		Brokers: splitList(v.GetString("KAFKA_BROKERS")),
		Topic:   v.GetString("KAFKA_TOPIC"),
	}

	cfg := &Config{
		Port:                      v.GetString("PORT"),
		Origin:                    v.GetString("ORIGIN"),
		Environment:               v.GetString("ENV"),
		LogLevel:                  v.GetString("LOG_LEVEL"),
		JWTSecret:                 v.GetString("JWT_SECRET"),
		JWTRefreshSecret:          v.GetString("JWT_REFRESH_SECRET"),
		JWTExpirationMinutes:      v.GetInt("JWT_EXPIRATION_MINUTES"),
		JWTRefreshExpirationHours: v.GetInt("JWT_REFRESH_EXPIRATION_HOURS"),
		TokenPurgeIntervalMinutes: v.GetInt("TOKEN_PURGE_INTERVAL_MINUTES"),
		MaxUploadMB:               v.GetInt("MAX_UPLOAD_MB"),
		Database:                  dbConfig,
		Storage:                   storageConfig,
		Kafka:                     kafkaConfig,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Environment == "development"
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be \"postgres\" or \"mysql\", got %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "s3", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be \"s3\" or \"memory\", got %q", c.Storage.Driver)
	}
	if c.JWTExpirationMinutes <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %d", c.JWTExpirationMinutes)
	}
	if c.JWTRefreshExpirationHours <= 0 {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %d", c.JWTRefreshExpirationHours)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_MB: %d", c.MaxUploadMB)
	}
	if c.Environment == "production" &&
		(c.JWTSecret == defaultJWTSecret || c.JWTRefreshSecret == defaultJWTRefreshSecret) {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must be set in production")
	}
	return nil
}

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

func defaultDBPort(driver string) string {
	if driver == "mysql" {
		return "3306"
	}
	return "5432"
}

func buildDSN(db DatabaseConfig) string {
	if db.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.Username, db.Password, db.Host, db.Port, db.Name)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		db.Host, db.Username, db.Password, db.Name, db.Port, db.SSLMode)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
