package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "API_PREFIX", "API_VERSION", "DATABASE_URL", "DB_NAME",
		"KAFKA_ENABLED", "BOOKING_AUTO_COMPLETE_ENABLED", "BOOKING_COMPLETION_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Booking.AutoCompleteEnabled)
	assert.Equal(t, time.Hour, cfg.Booking.CompletionInterval)
	assert.Contains(t, cfg.Database.DSN, "dbname=tourdesk_db")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("JWT_EXPIRES_IN", "600")
	t.Setenv("BOOKING_COMPLETION_INTERVAL", "15m")
	t.Setenv("RATE_LIMIT_AUTH_REQUESTS", "not-a-number")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tours")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Minute, cfg.JWT.JWTExpiresIn)
	assert.Equal(t, 15*time.Minute, cfg.Booking.CompletionInterval)
	assert.Equal(t, 10, cfg.RateLimit.AuthRequests)
	assert.Equal(t, "postgres://u:p@db:5432/tours", cfg.Database.DSN)
}
