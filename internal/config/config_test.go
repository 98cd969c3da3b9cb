package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "app.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
apiPort: 8080
environment: prod
appDomain: https://notehub.example.com
jwtSecret: super-secret
database:
  type: postgres
  host: db.internal
  port: "5432"
  name: notehub
  user: svc
  password: pw
  sslMode: require
smtp:
  host: smtp.example.com
  port: 2525
  user: mailer@example.com
spaces:
  endpoint: https://nyc3.digitaloceanspaces.com
  region: nyc3
  bucket: notehub-uploads
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.APIPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://notehub.example.com", cfg.AppDomain)
	assert.Equal(t, "super-secret", cfg.JWTSecret)

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "require", cfg.Database.SSLMode)

	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "notehub-uploads", cfg.Spaces.Bucket)

	// CORS origin falls back to the app domain when unset.
	assert.Equal(t, cfg.AppDomain, cfg.CORSOrigin)
	// The from address falls back to the SMTP user.
	assert.Equal(t, "mailer@example.com", cfg.SMTP.From)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err, "a missing config file falls back to defaults")

	assert.Equal(t, 3000, cfg.APIPort)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "data/notehub.db", cfg.Database.Path)
	assert.True(t, cfg.Database.WALMode)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.Equal(t, 5, cfg.Database.RetryDelay)
	assert.Equal(t, "http://localhost:5173", cfg.AppDomain)
	assert.Equal(t, cfg.AppDomain, cfg.CORSOrigin)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadConfigWALModeCanBeDisabled(t *testing.T) {
	path := writeConfigFile(t, `
database:
  walMode: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Database.WALMode, "an explicit false must not be overwritten by the default")
}
