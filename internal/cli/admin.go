package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
)

// Users prints every registered user.
func (a *App) Users(_ context.Context) error {
	users := a.engine.Admin().ListUsers()
	if len(users) == 0 {
		a.printf("No users yet\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tUSERNAME\tUNLOCKS\tLAST UNLOCK\tBLOCKS\tPROFILE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			u.Email, u.Username, u.DailyUnlocks, u.LastUnlockDate, u.RevealedBlocks.Len(), u.ProfileURL)
	}
	return tw.Flush()
}

// AdminImage replaces the image after an explicit confirmation. Every
// reveal and every user's revealed blocks are cleared.
func (a *App) AdminImage(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Usage: admin-image <url>\n")
		return nil
	}

	if !confirm(a.reader, "This replaces the image and hides every revealed block.", a.out) {
		a.printf("Cancelled\n")
		return nil
	}

	if err := a.engine.Admin().UpdateImageAndReset(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Image updated, board reset\n")
	return nil
}

// AdminOpacity sets the overlay opacity. Values outside [0, 1] are clamped.
func (a *App) AdminOpacity(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Usage: admin-opacity <0..1>\n")
		return nil
	}

	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid opacity %q", args[0])
	}
	if err := a.engine.Admin().UpdateOverlayOpacity(ctx, v); err != nil {
		return err
	}
	a.printf("Overlay opacity set to %.2f\n", a.engine.OverlayOpacity())
	return nil
}
