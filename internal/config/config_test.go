package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "board.db", c.DatabasePath)
	assert.Equal(t, 10, c.DailyUnlockLimit)
	assert.Equal(t, 120, c.GridCols)
	assert.Equal(t, 84, c.GridRows)
	assert.Equal(t, 20, c.BonusUnlocks)
	assert.Equal(t, 0.8, c.DefaultOverlayOpacity)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 2*time.Second, c.StoreTimeout)
}

func TestLoadConfig_UsesDefaultsWithoutSources(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"board"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "board.db", cfg.DatabasePath)
	assert.Equal(t, 10, cfg.DailyUnlockLimit)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"database_path":      "from-json.db",
		"daily_unlock_limit": 3,
		"log_level":          "debug",
	})
	t.Setenv("BOARD_DB_PATH", "from-env.db")
	os.Args = []string{"board", "-c", path, "-l", "7"}

	cfg := LoadConfig()
	assert.Equal(t, "from-env.db", cfg.DatabasePath)
	assert.Equal(t, 7, cfg.DailyUnlockLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}
