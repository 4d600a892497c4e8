package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	c, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, NotifyModeInline, c.NotifyMode)
	assert.Equal(t, time.Hour, c.AdminTokenTTL)
	assert.Equal(t, ":8080", c.HttpListenAddr)
	assert.Equal(t, "http://pf.kakao.com/_lQxaxon/chat", c.SiteChatURL)
	assert.Equal(t, 30*time.Second, c.QueueVisibilityTimeout)
	assert.True(t, c.QueueEnableDLQ)
}

func TestParse_ReadsEnvironment(t *testing.T) {
	t.Setenv("NOTIFY_MODE", "queue")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://discord.example/hook")
	t.Setenv("ADMIN_TOKEN_TTL", "15m")
	t.Setenv("POSTGRES_WRITE_HOST", "db-primary")
	t.Setenv("POSTGRES_SSLMODE", "require")

	c, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, NotifyModeQueue, c.NotifyMode)
	assert.Equal(t, "https://discord.example/hook", c.NotifyWebhookURL)
	assert.Equal(t, 15*time.Minute, c.AdminTokenTTL)
	assert.Equal(t, "db-primary", c.PostgresWrite().Host)
	assert.Equal(t, "require", c.PostgresWrite().SSLMode)
	assert.Equal(t, "require", c.PostgresRead().SSLMode)
}

func TestParse_RejectsUnknownNotifyMode(t *testing.T) {
	t.Setenv("NOTIFY_MODE", "carrier-pigeon")

	_, err := Parse()
	assert.ErrorContains(t, err, "NOTIFY_MODE")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITE_NAME=테스트설비\nQUEUE_NAME=test:notify\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SITE_NAME")
		os.Unsetenv("QUEUE_NAME")
	})

	require.NoError(t, Load(path))
	assert.Equal(t, "테스트설비", Get().SiteName)
	assert.Equal(t, "test:notify", Get().Queue().Name)
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestEnvPathFromArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	assert.Equal(t, path, EnvPathFromArgs([]string{"api", "--env=" + path}))
	assert.Empty(t, EnvPathFromArgs([]string{"api"}))
	assert.Empty(t, EnvPathFromArgs([]string{"api", "--env=/does/not/exist"}))
}

func TestConfig_LogOptions(t *testing.T) {
	c := &Config{AppEnv: "production", LogLevel: "warn", LogFile: "/var/log/site.log"}
	opts := c.Log()
	assert.Equal(t, "production", opts.Env)
	assert.Equal(t, "warn", opts.Level)
	assert.Equal(t, "/var/log/site.log", opts.File)
}
