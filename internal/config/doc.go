// Package config loads runtime configuration for the board CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with BOARD_ (e.g. BOARD_DB_PATH).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string   path of the SQLite database file
//	-l int      daily unlock limit
//	-v string   log level (debug, info, warn, error)
//
// # JSON schema
//
//	{
//	  "database_path": "board.db",
//	  "daily_unlock_limit": 10,
//	  "grid_cols": 120,
//	  "grid_rows": 84,
//	  "bonus_unlocks": 20,
//	  "default_image_url": "https://example.com/image.jpg",
//	  "default_overlay_opacity": 0.8,
//	  "log_level": "info",
//	  "store_timeout": "2s"
//	}
//
// Fields missing from the JSON file keep their previous value.
package config
