package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Unlock(ctx context.Context, args []string) error
	Who(ctx context.Context, args []string) error
	Bonus(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Show(ctx context.Context) error
	Users(ctx context.Context) error
	AdminImage(ctx context.Context, args []string) error
	AdminOpacity(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
//	Always:
//	  help                 show available commands
//	  show                 board summary and map
//	  who <block>          who revealed a block
//	  users                registered users (admin)
//	  admin-image <url>    replace the image and clear the board (admin)
//	  admin-opacity <0-1>  set the overlay opacity (admin)
//	  exit | quit
//
//	Guest:
//	  login
//
//	Logged in:
//	  unlock <block>       reveal a block
//	  bonus                buy a bonus pack
//	  profile <url>        change the profile link
//	  logout
//
// Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("board %s> ", statusFn()))

		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: show, unlock, who, bonus, profile, users, admin-image, admin-opacity, logout, exit")
			} else {
				printlnFn("Available commands: login, show, who, users, admin-image, admin-opacity, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "u", "unlock":
			err = a.Unlock(ctx, args)

		case "who":
			err = a.Who(ctx, args)

		case "bonus":
			err = a.Bonus(ctx)

		case "profile":
			err = a.Profile(ctx, args)

		case "s", "show", "status":
			err = a.Show(ctx)

		case "users":
			err = a.Users(ctx)

		case "admin-image":
			err = a.AdminImage(ctx, args)

		case "admin-opacity":
			err = a.AdminOpacity(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
		if readErr != nil {
			return
		}
	}
}
