package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("REPORT_TIMEZONE", "")
	t.Setenv("AMQP_URL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://desk.example.com, ,http://localhost:5173")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "Asia/Kolkata", cfg.ReportLocation.String())
	assert.False(t, cfg.BrokerEnabled())
	assert.Equal(t, []string{"https://desk.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsBadTimezone(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}
