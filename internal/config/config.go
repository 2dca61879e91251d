package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	Auth      AuthConfig
	MQTT      MQTTConfig
	Mongo     MongoConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds store configuration. Driver is "postgres" or
// "memory".
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Migrate  bool
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// AuthConfig holds token and password reset settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
}

// MQTTConfig holds the event broker connection. An empty BrokerURL
// disables MQTT.
type MQTTConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// MongoConfig holds the audit trail store. An empty URI keeps the trail
// in memory.
type MongoConfig struct {
	URI      string
	Database string
}

// SchedulerConfig holds background job intervals. Zero disables a job.
type SchedulerConfig struct {
	LicenseSyncInterval time.Duration
}

// Load loads configuration from environment variables, after merging an
// optional .env file. Variables already set win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fleetflow"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getBoolEnv("DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "fleetflow"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 30*time.Minute),
			OTPTTL:    getDurationEnv("OTP_TTL", 5*time.Minute),
		},
		MQTT: MQTTConfig{
			BrokerURL:   getEnv("MQTT_BROKER_URL", ""),
			ClientID:    getEnv("MQTT_CLIENT_ID", "fleetflow-server"),
			Username:    getEnv("MQTT_USERNAME", ""),
			Password:    getEnv("MQTT_PASSWORD", ""),
			TopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "fleetflow/events"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "fleetflow"),
		},
		Scheduler: SchedulerConfig{
			LicenseSyncInterval: getDurationEnv("LICENSE_SYNC_INTERVAL", time.Hour),
		},
	}
}

// devJWTSecret signs tokens in development when JWT_SECRET is unset.
const devJWTSecret = "fleetflow-dev-secret"

// Validate checks the settings that have no safe default and fills the
// development fallbacks.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or memory, got %q", c.Database.Driver))
	}

	if c.Auth.JWTSecret == "" {
		if c.Env == "development" {
			c.Auth.JWTSecret = devJWTSecret
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required outside development"))
		}
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Scheduler.LicenseSyncInterval < 0 {
		errs = append(errs, errors.New("LICENSE_SYNC_INTERVAL cannot be negative"))
	}

	return errors.Join(errs...)
}

// String renders the configuration with secrets masked.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "env=%s log_level=%s port=%s", c.Env, c.LogLevel, c.Server.Port)
	fmt.Fprintf(&b, " db=%s://%s:%s@%s:%s/%s", c.Database.Driver, c.Database.User, mask(c.Database.Password),
		c.Database.Host, c.Database.Port, c.Database.DBName)
	fmt.Fprintf(&b, " redis=%s redis_password=%s", c.Redis.Addr, mask(c.Redis.Password))
	fmt.Fprintf(&b, " newrelic=%t newrelic_license=%s", c.NewRelic.Enabled, mask(c.NewRelic.LicenseKey))
	fmt.Fprintf(&b, " jwt_secret=%s token_ttl=%s otp_ttl=%s", mask(c.Auth.JWTSecret), c.Auth.TokenTTL, c.Auth.OTPTTL)
	fmt.Fprintf(&b, " mqtt=%s mqtt_password=%s", c.MQTT.BrokerURL, mask(c.MQTT.Password))
	fmt.Fprintf(&b, " mongo=%s license_sync=%s", mask(c.Mongo.URI), c.Scheduler.LicenseSyncInterval)
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
