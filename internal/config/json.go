package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/revealboard/internal/flagx"
	"github.com/dmitrijs2005/revealboard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	DatabasePath          *string         `json:"database_path"`
	DailyUnlockLimit      *int            `json:"daily_unlock_limit"`
	GridCols              *int            `json:"grid_cols"`
	GridRows              *int            `json:"grid_rows"`
	BonusUnlocks          *int            `json:"bonus_unlocks"`
	DefaultImageURL       *string         `json:"default_image_url"`
	DefaultOverlayOpacity *float64        `json:"default_overlay_opacity"`
	LogLevel              *string         `json:"log_level"`
	StoreTimeout          *timex.Duration `json:"store_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on
// read or decode errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.DatabasePath, jc.DatabasePath)
	set(&cfg.DailyUnlockLimit, jc.DailyUnlockLimit)
	set(&cfg.GridCols, jc.GridCols)
	set(&cfg.GridRows, jc.GridRows)
	set(&cfg.BonusUnlocks, jc.BonusUnlocks)
	set(&cfg.DefaultImageURL, jc.DefaultImageURL)
	set(&cfg.DefaultOverlayOpacity, jc.DefaultOverlayOpacity)
	set(&cfg.LogLevel, jc.LogLevel)
	if jc.StoreTimeout != nil {
		cfg.StoreTimeout = jc.StoreTimeout.Duration
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
