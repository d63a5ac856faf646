package cli

import (
	"context"
	"strings"
)

// getSimpleText and confirm are swapped in tests.
var (
	getSimpleText = GetSimpleText
	confirm       = Confirm
)

// Login asks for email, username and an optional profile url. Returning
// users keep their stored username and profile.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	profileURL, err := getSimpleText(a.reader, "Enter profile url (optional)", a.out)
	if err != nil {
		return err
	}

	if err := a.engine.Login(ctx, email, username, profileURL); err != nil {
		return err
	}

	u, _ := a.engine.CurrentUser()
	a.printf("Logged in as %s, %d unlocks left today\n", u.Username, u.DailyUnlocks)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.engine.Logout(ctx)
	a.printf("Logged out\n")
	return nil
}

// Bonus runs the payment stub and credits one bonus pack.
func (a *App) Bonus(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Log in to buy unlocks\n")
		return nil
	}

	a.printf("Processing payment for %d unlocks...\n", a.bonus)
	if err := a.engine.AddBonusUnlocks(ctx, a.bonus); err != nil {
		return err
	}

	u, _ := a.engine.CurrentUser()
	a.printf("Payment accepted, %d unlocks left today\n", u.DailyUnlocks)
	return nil
}

// Profile sets the profile url from args, or asks for it. An empty answer
// clears the link.
func (a *App) Profile(ctx context.Context, args []string) error {
	url := strings.Join(args, " ")
	if len(args) == 0 {
		var err error
		url, err = getSimpleText(a.reader, "Enter profile url (empty to clear)", a.out)
		if err != nil {
			return err
		}
	}

	if err := a.engine.UpdateProfileURL(ctx, url); err != nil {
		return err
	}
	a.printf("Profile updated\n")
	return nil
}
