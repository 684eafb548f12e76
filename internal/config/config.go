package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	Port string

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBAutoMigrate     bool

	JWTSecret string

	// NotificationStore is "postgres" or "mongo".
	NotificationStore string
	MongoURI          string
	MongoDB           string

	// MailDriver is "", "smtp" or "function". Empty disables email.
	MailDriver      string
	SMTPHost        string
	SMTPPort        string
	SMTPUser        string
	SMTPPass        string
	SMTPFrom        string
	MailFunctionURL string
	MailFunctionKey string
	MailTimeout     time.Duration
	// SiteURL prefixes notification links in plain-text email.
	SiteURL string

	UserServiceURL string

	NATSURL   string
	RedisAddr string
	DedupeTTL time.Duration

	LogLevel string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment variables only")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8083"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		DBAutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		NotificationStore: strings.ToLower(getEnv("NOTIFICATION_STORE", "postgres")),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDB:           getEnv("MONGO_DB", "rental"),
		MailDriver:        strings.ToLower(getEnv("MAIL_DRIVER", "")),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPass:          getEnv("SMTP_PASS", ""),
		SMTPFrom:          getEnv("SMTP_FROM", ""),
		MailFunctionURL:   getEnv("MAIL_FUNCTION_URL", ""),
		MailFunctionKey:   getEnv("MAIL_FUNCTION_KEY", ""),
		MailTimeout:       getEnvAsDuration("MAIL_TIMEOUT", 10*time.Second),
		SiteURL:           getEnv("SITE_URL", ""),
		UserServiceURL:    getEnv("USER_SERVICE_URL", ""),
		NATSURL:           getEnv("NATS_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		DedupeTTL:         getEnvAsDuration("DEDUPE_TTL", 24*time.Hour),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings required by the selected drivers are present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.NotificationStore {
	case "postgres":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when NOTIFICATION_STORE=mongo")
		}
	default:
		return fmt.Errorf("unsupported NOTIFICATION_STORE %q", c.NotificationStore)
	}
	switch c.MailDriver {
	case "":
	case "smtp":
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_DRIVER=smtp")
		}
	case "function":
		if c.MailFunctionURL == "" {
			return fmt.Errorf("MAIL_FUNCTION_URL is required when MAIL_DRIVER=function")
		}
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q", c.MailDriver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logrus.Warnf("Invalid value for %s: %v, falling back to default %d", key, err, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		logrus.Warnf("Invalid value for %s: %v, falling back to default %t", key, err, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logrus.Warnf("Invalid duration for %s: %v, falling back to default %s", key, err, defaultValue)
		return defaultValue
	}
	return value
}
