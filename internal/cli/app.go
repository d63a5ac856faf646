package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/revealboard/internal/board"
	"github.com/dmitrijs2005/revealboard/internal/logging"
)

type App struct {
	engine *board.Engine
	log    logging.Logger
	bonus  int
	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires an initialized engine to the given input and output. bonus is
// the number of unlocks granted per purchased pack.
func NewApp(e *board.Engine, log logging.Logger, bonus int, in io.Reader, out io.Writer) *App {
	return &App{
		engine: e,
		log:    log,
		bonus:  bonus,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run blocks until the user quits or the input ends.
func (a *App) Run(ctx context.Context) {
	cancel := a.engine.Subscribe(func(s board.Snapshot) {
		a.log.Debug(ctx, "board changed",
			"revealed", s.Reveals.Len(),
			"progress", fmt.Sprintf("%.2f%%", s.Progress()),
			"image", s.ImageURL,
		)
	})
	defer cancel()

	fmt.Fprintln(a.out, "Reveal board (type 'help' for commands)")
	if u, ok := a.engine.CurrentUser(); ok {
		fmt.Fprintf(a.out, "Welcome back, %s\n", u.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.engine.CurrentUser()
	return ok
}

func (a *App) getStatus() string {
	u, ok := a.engine.CurrentUser()
	if !ok {
		return "(guest)"
	}
	return fmt.Sprintf("(%s, %d left)", u.Username, u.DailyUnlocks)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
