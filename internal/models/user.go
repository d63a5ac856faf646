// Package models defines the board's domain types: registered users, the
// attribution attached to a revealed block, the shared reveal ledger and the
// image configuration.
package models

import (
	"sort"
	"strings"
)

// DateLayout is the calendar-day format stored in User.LastUnlockDate.
const DateLayout = "2006-01-02"

// User is a registered player. Values handed out by the engine are copies;
// mutating them has no effect on the registry.
type User struct {
	// Email is the identity key, normalized with NormalizeEmail.
	Email string `json:"email"`

	// Username is the display name captured at registration.
	Username string `json:"username"`

	// ProfileURL is an optional link shown on the user's revealed blocks.
	ProfileURL string `json:"profileUrl,omitempty"`

	// DailyUnlocks is the remaining quota for the current calendar day.
	DailyUnlocks int `json:"dailyUnlocks"`

	// LastUnlockDate is the day (DateLayout) the quota was last refilled.
	LastUnlockDate string `json:"lastUnlockDate"`

	// RevealedBlocks holds the indices this user has claimed.
	RevealedBlocks BlockSet `json:"revealedBlocks"`
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	u.RevealedBlocks = u.RevealedBlocks.Clone()
	return u
}

// Reveal returns the attribution snapshot stored in the ledger for blocks
// claimed by u.
func (u User) Reveal() RevealData {
	return RevealData{Username: u.Username, ProfileURL: u.ProfileURL}
}

// NormalizeEmail trims and lower-cases an email so it can be used as a
// registry key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registry maps normalized emails to users.
type Registry map[string]User

// Clone returns a deep copy of r. A nil registry clones to an empty one.
func (r Registry) Clone() Registry {
	out := make(Registry, len(r))
	for k, u := range r {
		out[k] = u.Clone()
	}
	return out
}

// Users returns copies of every user ordered by email.
func (r Registry) Users() []User {
	out := make([]User, 0, len(r))
	for _, u := range r {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
