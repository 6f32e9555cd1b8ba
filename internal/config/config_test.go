package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.NotEmpty(t, cfg.Database.PostgresDSN)
	assert.Equal(t, 120, cfg.Security.RateLimitRPM)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, "/uploads/", cfg.Uploads.PathPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("INK_ENV", "staging")
	t.Setenv("INK_HTTP_ADDR", ":9090")
	t.Setenv("INK_RATE_LIMIT_RPM", "600")
	t.Setenv("INK_CORS_ALLOWED_ORIGINS", "https://blog.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 600, cfg.Security.RateLimitRPM)
	assert.Equal(t, []string{"https://blog.example.com", "https://admin.example.com"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoadProdRequiresAdminToken(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("INK_ENV", "prod")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INK_ADMIN_TOKEN")

	t.Setenv("INK_ADMIN_TOKEN", "prod-token")
	viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod-token", cfg.Security.AdminToken)
}
