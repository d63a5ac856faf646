package config

import "time"

// Config holds runtime settings for the board CLI.
type Config struct {
	DatabasePath          string        `env:"DB_PATH"`
	DailyUnlockLimit      int           `env:"DAILY_UNLOCK_LIMIT"`
	GridCols              int           `env:"GRID_COLS"`
	GridRows              int           `env:"GRID_ROWS"`
	BonusUnlocks          int           `env:"BONUS_UNLOCKS"`
	DefaultImageURL       string        `env:"DEFAULT_IMAGE_URL"`
	DefaultOverlayOpacity float64       `env:"DEFAULT_OVERLAY_OPACITY"`
	LogLevel              string        `env:"LOG_LEVEL"`
	StoreTimeout          time.Duration `env:"STORE_TIMEOUT"`
}

// LoadDefaults populates c with the stock board: 120x84 blocks, ten unlocks
// a day and a bonus pack of twenty.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "board.db"
	c.DailyUnlockLimit = 10
	c.GridCols = 120
	c.GridRows = 84
	c.BonusUnlocks = 20
	c.DefaultImageURL = "https://www.rollingstone.co.uk/wp-content/uploads/sites/2/2024/09/sh05_Group_RollingStoneUK_StrayKids-4272-e1726578700988.jpg"
	c.DefaultOverlayOpacity = 0.8
	c.LogLevel = "info"
	c.StoreTimeout = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
