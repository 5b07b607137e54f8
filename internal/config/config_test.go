package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.App.PublicOrigin)
	assert.Equal(t, "0 3 * * *", cfg.Worker.ReconcileCron)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxUploadSize)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Mail.Enabled(), "welcome email off without SMTP_HOST")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PUBLIC_ORIGIN", "https://celebstyle.example/")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WEBSITE_API_KEY", "k")
	t.Setenv("SMTP_HOST", "mailpit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://celebstyle.example", cfg.App.PublicOrigin)
	assert.Equal(t, 3*time.Second, cfg.App.RequestTimeout)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, "k", cfg.ExternalAPI.WebsiteAPIKey)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, "1025", cfg.Mail.Port)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_InvalidDBDuration(t *testing.T) {
	t.Setenv("DB_RETRY_DELAY", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_RETRY_DELAY")
}

func TestValidate_RejectsRelativeOrigin(t *testing.T) {
	t.Setenv("PUBLIC_ORIGIN", "celebstyle.example")
	_, err := Load()
	assert.ErrorContains(t, err, "PUBLIC_ORIGIN")
}
