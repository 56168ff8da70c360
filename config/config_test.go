package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "terminal", cfg.Terminal.Name)
	assert.Equal(t, "sub", cfg.Terminal.Role)
	assert.False(t, cfg.Terminal.IsMain())

	assert.NotEmpty(t, cfg.Relay.URLs)
	assert.Equal(t, 10*time.Second, cfg.Relay.PublishTimeout)

	assert.Equal(t, 30*time.Second, cfg.Sync.DrainInterval)
	assert.Equal(t, 24*time.Hour, cfg.Forward.Expiry)

	assert.Equal(t, int64(10000), cfg.Queue.MaxSinglePayment)
	assert.Equal(t, 20, cfg.Queue.MaxPendingCount)
	assert.Equal(t, int64(50000), cfg.Queue.MaxPendingAmount)
	assert.Equal(t, 60*time.Second, cfg.Queue.ProcessInterval)

	assert.Equal(t, "cashu-pos.db", cfg.Storage.Path)
	assert.Equal(t, "127.0.0.1:8390", cfg.HTTP.Addr())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
terminal:
  name: "front-counter"
  role: "main"
  merchant_id: "merchant-1"
relay:
  urls:
    - "wss://relay.test"
  publish_timeout: "3s"
queue:
  max_single_payment: 2500
  max_pending_count: 5
  max_pending_amount: 8000
mints:
  trusted:
    - "https://mint.example"
storage:
  path: "/tmp/pos-test.db"
log:
  level: "debug"
  pretty: true
`)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "front-counter", cfg.Terminal.Name)
	assert.True(t, cfg.Terminal.IsMain())
	assert.Equal(t, "merchant-1", cfg.Terminal.MerchantID)
	assert.Equal(t, []string{"wss://relay.test"}, cfg.Relay.URLs)
	assert.Equal(t, 3*time.Second, cfg.Relay.PublishTimeout)
	assert.Equal(t, int64(2500), cfg.Queue.MaxSinglePayment)
	assert.Equal(t, 5, cfg.Queue.MaxPendingCount)
	assert.Equal(t, int64(8000), cfg.Queue.MaxPendingAmount)
	assert.Equal(t, []string{"https://mint.example"}, cfg.Mints.Trusted)
	assert.Equal(t, "/tmp/pos-test.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CPOS_TERMINAL_ROLE", "main")
	t.Setenv("CPOS_QUEUE_MAX_PENDING_COUNT", "3")
	t.Setenv("CPOS_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Terminal.Role)
	assert.Equal(t, 3, cfg.Queue.MaxPendingCount)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidRole(t *testing.T) {
	t.Setenv("CPOS_TERMINAL_ROLE", "kiosk")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal.role")
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relay: [not: valid"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
