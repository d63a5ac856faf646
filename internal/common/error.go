// Package common defines the sentinel errors shared by the board packages.
// Callers should match them with errors.Is.
package common

import "errors"

var (
	// Session errors.
	ErrNoCurrentUser   = errors.New("no user is logged in")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidUsername = errors.New("username is required")

	// Unlock errors.
	ErrQuotaExhausted  = errors.New("no unlocks left today")
	ErrBlockClaimed    = errors.New("block already revealed")
	ErrBlockOutOfRange = errors.New("block index out of range")
	ErrInvalidAmount   = errors.New("amount must be positive")

	// Admin errors.
	ErrEmptyImageURL   = errors.New("image url is empty")
	ErrInvalidImageURL = errors.New("image url must be an absolute http(s) url")
	ErrInvalidOpacity  = errors.New("opacity must be a number")

	// Store errors.
	ErrUnsupportedSchema = errors.New("unsupported schema version")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
)
