// Package store is the durable adapter between the board engine and the
// local key/value database.
//
// Values are JSON documents wrapped in a versioned envelope (see
// SchemaVersion). Reads never fail: a missing, unreadable or corrupted value
// yields the caller's default and a warning. Writes never fail either: an
// error is logged and swallowed so the in-memory state keeps serving the
// session. SaveAll writes several keys in one transaction, so a batch is
// either fully durable or not at all.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/revealboard/internal/dbx"
	"github.com/dmitrijs2005/revealboard/internal/logging"
	"github.com/dmitrijs2005/revealboard/internal/repositories/metadata"
	"github.com/google/uuid"
)

// Item is one key/value pair of a SaveAll batch.
type Item struct {
	Key   string
	Value any
}

type Store struct {
	db      *sql.DB
	log     logging.Logger
	writer  string
	timeout time.Duration
}

type Option func(*Store)

// WithTimeout bounds every database round trip. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithWriter overrides the writer id recorded in envelopes.
func WithWriter(id string) Option {
	return func(s *Store) { s.writer = id }
}

func New(db *sql.DB, log logging.Logger, opts ...Option) *Store {
	s := &Store{db: db, log: log, writer: uuid.NewString()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Writer is the id this store stamps on the envelopes it writes.
func (s *Store) Writer() string { return s.writer }

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Load reads key into a value of type T, returning def when the key is
// absent or cannot be decoded.
func Load[T any](ctx context.Context, s *Store, key string, def T) T {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "failed to load value, using default", "key", key, "error", err)
		return def
	}
	if raw == nil {
		return def
	}

	data, err := open(raw)
	if err != nil {
		s.log.Warn(ctx, "failed to open stored value, using default", "key", key, "error", err)
		return def
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn(ctx, "failed to decode stored value, using default", "key", key, "error", err)
		return def
	}
	return out
}

// Save persists value under key.
func (s *Store) Save(ctx context.Context, key string, value any) bool {
	return s.SaveAll(ctx, Item{Key: key, Value: value})
}

// SaveAll persists every item in a single transaction. It reports whether
// the batch was committed.
func (s *Store) SaveAll(ctx context.Context, items ...Item) bool {
	encoded := make([][]byte, len(items))
	for i, it := range items {
		b, err := seal(s.writer, it.Value)
		if err != nil {
			s.log.Error(ctx, "failed to encode value, batch skipped", "key", it.Key, "error", err)
			return false
		}
		encoded[i] = b
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for i, it := range items {
			if err := repo.Set(ctx, it.Key, encoded[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to save values", "keys", keys(items), "error", err)
		return false
	}
	return true
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) bool {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, key); err != nil {
		s.log.Error(ctx, "failed to delete value", "key", key, "error", err)
		return false
	}
	return true
}

func keys(items []Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return strings.Join(out, ",")
}
