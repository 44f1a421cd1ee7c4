package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "social-graph", cfg.AppName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, "notifications", cfg.RabbitMQNotificationQueue)
	assert.Equal(t, 5, cfg.NotificationMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.NotificationRetryDelay)
	assert.False(t, cfg.MailSendEnabled)
	assert.Empty(t, cfg.AuthorizedParties())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("PROFILE_CACHE_TTL", "30s")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("IDP_AUTHORIZED_PARTIES", "https://app.example.com, ,exp://mobile")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 30*time.Second, cfg.ProfileCacheTTL)
	assert.True(t, cfg.MailSendEnabled)
	assert.Equal(t, []string{"https://app.example.com", "exp://mobile"}, cfg.AuthorizedParties())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("METRICS_ENABLED", "maybe")
	t.Setenv("IDP_REQUEST_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 5*time.Second, cfg.IDPRequestTimeout)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "social", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/social?sslmode=disable", cfg.PostgresDSN())
}
