package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/revealboard/internal/board"
	"github.com/dmitrijs2005/revealboard/internal/cli"
	"github.com/dmitrijs2005/revealboard/internal/config"
	"github.com/dmitrijs2005/revealboard/internal/filex"
	"github.com/dmitrijs2005/revealboard/internal/logging"
	"github.com/dmitrijs2005/revealboard/internal/repositories"
	"github.com/dmitrijs2005/revealboard/internal/store"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewConsole(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		log.Fatalf("%v", err)
		return
	}

	db, err := repositories.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer db.Close()

	st := store.New(db, logger, store.WithTimeout(cfg.StoreTimeout))
	engine := board.New(st, logger, board.Settings{
		DailyUnlockLimit:      cfg.DailyUnlockLimit,
		GridCols:              cfg.GridCols,
		GridRows:              cfg.GridRows,
		DefaultImageURL:       cfg.DefaultImageURL,
		DefaultOverlayOpacity: cfg.DefaultOverlayOpacity,
	})
	engine.Initialize(ctx)

	app := cli.NewApp(engine, logger, cfg.BonusUnlocks, os.Stdin, os.Stdout)
	app.Run(ctx)

}
