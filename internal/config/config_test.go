package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if envKey(name) != "" || name == ConfigFileEnv {
			// Setenv registers the restore; Unsetenv makes the key absent.
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Empty(t, cfg.Database.URL)
	assert.False(t, cfg.HasDatabaseURL())
	assert.False(t, cfg.HasDatabaseName())
	assert.False(t, cfg.NotificationsEnabled())
	assert.Equal(t, "project", cfg.Database.ProjectsCollection)
	assert.Equal(t, "inquiry", cfg.Database.InquiryCollection)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
}

func TestLoadDeploymentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("DATABASE_NAME", "aurelia")
	t.Setenv("AURELIA_PRIMARY__ENV", "production")
	t.Setenv("AURELIA_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("AURELIA_INTEGRATION__RESEND_API_KEY", "re_test")
	t.Setenv("AURELIA_INTEGRATION__NOTIFY_EMAIL", "studio@example.com")
	t.Setenv("AURELIA_OBSERVABILITY__LOGGING__SLOW_QUERY_THRESHOLD", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URL)
	assert.Equal(t, "aurelia", cfg.Database.Name)
	assert.True(t, cfg.HasDatabaseURL())
	assert.True(t, cfg.HasDatabaseName())
	assert.True(t, cfg.NotificationsEnabled())
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.Equal(t, 250*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
	assert.Equal(t, "json", cfg.Observability.Logging.Format, "untouched keys keep their defaults")
}

func TestLoadYAMLFileIsOverriddenByEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
  read_timeout: 5
database:
  url: memory://
observability:
  logging:
    level: warn
    format: console
`), 0o600))

	t.Setenv("PORT", "7100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7100", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.ReadTimeout)
	assert.Equal(t, "memory://", cfg.Database.URL)
	assert.Equal(t, "warn", cfg.Observability.GetLogLevel())
	assert.Equal(t, "console", cfg.Observability.Logging.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non numeric port", "PORT", "eighty"},
		{"unknown environment", "AURELIA_PRIMARY__ENV", "moon"},
		{"bad notify email", "AURELIA_INTEGRATION__NOTIFY_EMAIL", "not-an-email"},
		{"bad log level", "AURELIA_OBSERVABILITY__LOGGING__LEVEL", "loud"},
		{"bad redis address", "AURELIA_REDIS__ADDRESS", "no port here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PORT", "server.port"},
		{"DATABASE_URL", "database.url"},
		{"DATABASE_NAME", "database.name"},
		{"AURELIA_REDIS__ADDRESS", "redis.address"},
		{"AURELIA_SERVER__READ_TIMEOUT", "server.read_timeout"},
		{"AURELIA_CONFIG", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "local"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "error"
	assert.Equal(t, "error", cfg.GetLogLevel())
}

func TestHealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("database"))
	assert.True(t, cfg.HealthCheckEnabled("redis"))

	cfg.HealthChecks.Checks = []string{"database"}
	assert.False(t, cfg.HealthCheckEnabled("redis"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}
