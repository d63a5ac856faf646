package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/revealboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   database file
//	-l int      daily unlock limit
//	-v string   log level
//
// os.Args is filtered with flagx.FilterArgs so the JSON config flags do not
// trip this flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the SQLite database file")
	fs.IntVar(&cfg.DailyUnlockLimit, "l", cfg.DailyUnlockLimit, "daily unlock limit")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
