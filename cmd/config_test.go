package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pos/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := cmd.LoadConfig[cmd.Config](filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, 50, cfg.BootstrapLimit)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, "0 */5 * * * *", cfg.LowStockSchedule)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=9100\nDB_NAME=kitchen\nSESSION_IDLE_TTL=5m\n"), 0o600))
	t.Setenv("DB_NAME", "from_env")
	t.Cleanup(func() {
		_ = os.Unsetenv("HTTP_PORT")
		_ = os.Unsetenv("SESSION_IDLE_TTL")
	})

	cfg, err := cmd.LoadConfig[cmd.Config](path)

	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.HTTPPort)
	assert.Equal(t, "from_env", cfg.DBName)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTTL)
	assert.Contains(t, cfg.DSN(), "dbname=from_env")
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Setenv("BOOTSTRAP_LIMIT", "many")

	_, err := cmd.LoadConfig[cmd.Config](filepath.Join(t.TempDir(), "missing.env"))

	require.Error(t, err)
}

func TestLoadConfig_Kitchen(t *testing.T) {
	t.Setenv("KITCHEN_BASE_URL", "http://kitchen.local:8000")

	cfg, err := cmd.LoadConfig[cmd.KitchenConfig](filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "http://kitchen.local:8000", cfg.BaseURL)
}
