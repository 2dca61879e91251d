package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "JWT_SECRET", "OTP_TTL", "LICENSE_SYNC_INTERVAL", "MQTT_TOPIC_PREFIX"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, time.Hour, cfg.Scheduler.LicenseSyncInterval)
	assert.Equal(t, "fleetflow/events", cfg.MQTT.TopicPrefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NEW_RELIC_ENABLED", "true")
	t.Setenv("LICENSE_SYNC_INTERVAL", "15m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.NewRelic.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.LicenseSyncInterval)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("NEW_RELIC_ENABLED", "maybe")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.NewRelic.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
}

func TestValidate(t *testing.T) {
	t.Run("development falls back to dev secret", func(t *testing.T) {
		cfg := &Config{Env: "development", Database: DatabaseConfig{Driver: "memory"}, Auth: AuthConfig{TokenTTL: time.Minute}}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	})

	t.Run("production requires secret", func(t *testing.T) {
		cfg := &Config{Env: "production", Database: DatabaseConfig{Driver: "postgres"}, Auth: AuthConfig{TokenTTL: time.Minute}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &Config{Env: "development", Database: DatabaseConfig{Driver: "sqlite"}, Auth: AuthConfig{TokenTTL: time.Minute}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DRIVER")
	})
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Password: "db-pass"},
		Redis:    RedisConfig{Password: "redis-pass"},
		NewRelic: NewRelicConfig{LicenseKey: "nr-key"},
		Auth:     AuthConfig{JWTSecret: "jwt-secret"},
		MQTT:     MQTTConfig{Password: "mqtt-pass"},
		Mongo:    MongoConfig{URI: "mongodb://user:pw@host"},
	}

	s := cfg.String()

	for _, secret := range []string{"db-pass", "redis-pass", "nr-key", "jwt-secret", "mqtt-pass", "user:pw"} {
		assert.NotContains(t, s, secret)
	}
	assert.Contains(t, s, "****")
}
