package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, loaded once at startup.
type Config struct {
	ServerPort  int
	FrontendURL string
	Database    DatabaseConfig
	Auth        AuthConfig
	Mail        MailConfig
	Storage     StorageConfig
	MQ          MQConfig
	RateLimit   RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// AuthConfig carries the signing secrets for the two token kinds.
// Both are required; startup fails without them.
type AuthConfig struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
}

// MailConfig configures the transactional email provider.
type MailConfig struct {
	APIKey string
	From   string
}

type StorageConfig struct {
	// Backend selects the object storage implementation: "minio" or "gcs".
	// Empty disables image uploads.
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	ProjectID       string
	Bucket          string
	CredentialsFile string
}

type MQConfig struct {
	// Backend selects the broker: "rabbitmq" or "pubsub".
	// Empty means email is sent synchronously from the request path.
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

type RateLimitConfig struct {
	// CredentialPerMinute bounds login/forgot-password style requests per client IP.
	CredentialPerMinute int
}

// LoadConfig reads configuration from the environment. Missing required
// secrets abort startup; missing optional integrations only warn.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	cfg := Config{
		ServerPort:  getEnvInt("SERVER_PORT", 8080),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "binkeyit"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "binkeyit_db"),
			UseSSL:   getEnvBool("DB_USE_SSL", false),
		},
		Auth: AuthConfig{
			AccessTokenSecret:  os.Getenv("SECRET_KEY_ACCESS_TOKEN"),
			RefreshTokenSecret: os.Getenv("SECRET_KEY_REFRESH_TOKEN"),
		},
		Mail: MailConfig{
			APIKey: os.Getenv("RESEND_API_KEY"),
			From:   getEnv("MAIL_FROM", "Binkeyit <onboarding@resend.dev>"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "")),
			Minio: MinioConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				Bucket:    getEnv("MINIO_BUCKET", "binkeyit-images"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				ProjectID:       os.Getenv("GCS_PROJECT_ID"),
				Bucket:          os.Getenv("GCS_BUCKET"),
				CredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
			},
		},
		MQ: MQConfig{
			Backend: strings.ToLower(getEnv("MQ_BACKEND", "")),
			RabbitMQ: RabbitMQConfig{
				URL:             os.Getenv("RABBITMQ_URL"),
				QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
				QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTODELETE", false),
				PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 8),
			},
			PubSub: PubSubConfig{
				ProjectID:          os.Getenv("PUBSUB_PROJECT_ID"),
				CredentialsFile:    os.Getenv("PUBSUB_CREDENTIALS_FILE"),
				SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
			},
		},
		RateLimit: RateLimitConfig{
			CredentialPerMinute: getEnvInt("RATE_LIMIT_CREDENTIAL", 30),
		},
	}

	var missing []string
	if strings.TrimSpace(cfg.Auth.AccessTokenSecret) == "" {
		missing = append(missing, "SECRET_KEY_ACCESS_TOKEN")
	}
	if strings.TrimSpace(cfg.Auth.RefreshTokenSecret) == "" {
		missing = append(missing, "SECRET_KEY_REFRESH_TOKEN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if cfg.Mail.APIKey == "" {
		slog.Warn("RESEND_API_KEY is not set, outbound email is disabled")
	}
	if cfg.Storage.Backend == "" {
		slog.Warn("STORAGE_BACKEND is not set, image uploads are disabled")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(strings.TrimSpace(valueStr)); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(strings.TrimSpace(valueStr)); err == nil {
			return value
		}
	}
	return defaultValue
}
