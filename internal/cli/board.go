package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/revealboard/internal/board"
	"github.com/dmitrijs2005/revealboard/internal/common"
	"golang.org/x/term"
)

// termWidth is a test seam for the output width.
var termWidth = func() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// parseBlock accepts a flat index ("1234") or a "row,col" pair.
func parseBlock(s string, cols int) (int, error) {
	if r, c, ok := strings.Cut(s, ","); ok {
		row, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			return 0, fmt.Errorf("invalid row %q", r)
		}
		col, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return 0, fmt.Errorf("invalid column %q", c)
		}
		if col < 0 || col >= cols || row < 0 {
			return -1, nil
		}
		return row*cols + col, nil
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid block %q", s)
	}
	return i, nil
}

// Unlock reveals the block named by args[0].
func (a *App) Unlock(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Usage: unlock <index|row,col>\n")
		return nil
	}

	i, err := parseBlock(args[0], a.engine.Settings().GridCols)
	if err != nil {
		return err
	}
	if err := a.engine.UnlockBlock(ctx, i); err != nil {
		return err
	}

	u, _ := a.engine.CurrentUser()
	a.printf("Block %d revealed, %d unlocks left today\n", i, u.DailyUnlocks)
	if u.DailyUnlocks == 0 {
		a.printf("%s\n", a.exhaustedNotice())
	}
	return nil
}

// Who tells who revealed a block.
func (a *App) Who(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Usage: who <index|row,col>\n")
		return nil
	}

	cols := a.engine.Settings().GridCols
	i, err := parseBlock(args[0], cols)
	if err != nil {
		return err
	}

	if i < 0 || i >= a.engine.Settings().TotalBlocks() {
		return common.ErrBlockOutOfRange
	}

	r, ok := a.engine.Reveals().Get(i)
	if !ok {
		a.printf("Block %d is still hidden\n", i)
		return nil
	}
	a.printf("Block %d (row %d, col %d) was revealed by %s", i, i/cols, i%cols, r.Username)
	if r.ProfileURL != "" {
		a.printf(" <%s>", r.ProfileURL)
	}
	a.printf("\n")
	return nil
}

// Show prints the board summary, the current user and the map.
func (a *App) Show(_ context.Context) error {
	s := a.engine.Snapshot()

	a.printf("Image:    %s\n", s.ImageURL)
	a.printf("Overlay:  %.2f\n", s.OverlayOpacity)
	a.printf("Revealed: %d/%d (%.2f%%)\n", s.Reveals.Len(), s.TotalBlocks, s.Progress())

	if u := s.CurrentUser; u != nil {
		a.printf("User:     %s <%s>\n", u.Username, u.Email)
		a.printf("Unlocks:  %d left today, %d blocks revealed\n", u.DailyUnlocks, u.RevealedBlocks.Len())
		if !s.CanUnlock() {
			a.printf("%s\n", a.exhaustedNotice())
		}
	}

	st := a.engine.Settings()
	for _, line := range renderMap(s, st.GridCols, st.GridRows, termWidth()-2) {
		a.printf("%s\n", line)
	}
	return nil
}

func (a *App) exhaustedNotice() string {
	return fmt.Sprintf("No unlocks left today. Come back tomorrow or type 'bonus' to buy %d more.", a.bonus)
}

// renderMap downsamples the grid to at most width columns. Terminal cells
// are about twice as tall as wide, so rows are halved again. A cell is '#'
// when fully revealed, '+' when partly revealed and '.' otherwise.
func renderMap(s board.Snapshot, cols, rows, width int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	w := min(max(width, 1), cols)
	h := max(rows*w/cols/2, 1)

	cell := func(i int) int {
		r, c := i/cols, i%cols
		return (r*h/rows)*w + c*w/cols
	}

	capacity := make([]int, w*h)
	for i := range cols * rows {
		capacity[cell(i)]++
	}
	revealed := make([]int, w*h)
	for i := range s.Reveals.All() {
		if i >= 0 && i < cols*rows {
			revealed[cell(i)]++
		}
	}

	lines := make([]string, h)
	var b strings.Builder
	for y := range h {
		b.Reset()
		for x := range w {
			k := y*w + x
			switch {
			case revealed[k] == 0:
				b.WriteByte('.')
			case revealed[k] == capacity[k]:
				b.WriteByte('#')
			default:
				b.WriteByte('+')
			}
		}
		lines[y] = b.String()
	}
	return lines
}
