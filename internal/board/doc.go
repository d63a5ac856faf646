// Package board owns the state of a reveal board: the registry of users,
// the current session, the shared reveal ledger and the image settings.
//
// # Overview
//
// An Engine is built once at startup from a store.Store and Settings, then
// Initialize loads the persisted state. Every operation reads the current
// state, builds the next state as a copy, persists all affected keys in one
// store transaction and then swaps the copy in. Values handed out (users,
// the ledger view, snapshots) are never mutated afterwards, so callers can
// keep them without locking.
//
// # Quota
//
// Each user gets Settings.DailyUnlockLimit unlocks per calendar day of the
// engine's clock. The refill happens lazily whenever a user becomes or is
// used as the current user on a new day; it never touches the user's
// revealed blocks.
//
// # Errors
//
// Rejected operations return a sentinel from package common and leave the
// state untouched. Storage failures are logged by the store and never
// surface here.
//
// # Observers
//
// Subscribe registers a callback that receives a Snapshot after every state
// change, including the admin reset, so views can re-render without
// reloading.
package board
