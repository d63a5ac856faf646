package board

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/revealboard/internal/common"
	"github.com/dmitrijs2005/revealboard/internal/logging"
	"github.com/dmitrijs2005/revealboard/internal/models"
	"github.com/dmitrijs2005/revealboard/internal/store"
)

type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	log      logging.Logger
	settings Settings
	now      func() time.Time

	users   models.Registry
	reveals *models.Ledger
	image   models.ImageConfig
	current string
	loading bool

	observers    map[int]Observer
	nextObserver int
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of the current calendar day.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an engine in the loading state. Call Initialize before use.
func New(st *store.Store, log logging.Logger, settings Settings, opts ...Option) *Engine {
	settings = settings.withDefaults()
	e := &Engine{
		store:    st,
		log:      log.With("instance", st.Writer()),
		settings: settings,
		now:      time.Now,
		users:    models.Registry{},
		reveals:  models.NewLedger(),
		image: models.ImageConfig{
			ImageURL:       settings.DefaultImageURL,
			OverlayOpacity: settings.DefaultOverlayOpacity,
		},
		loading:   true,
		observers: make(map[int]Observer),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Initialize loads the image settings, the ledger, the registry and the
// last active identity. If that identity is registered it becomes the
// current user, with its quota refilled when the stored day is stale.
func (e *Engine) Initialize(ctx context.Context) {
	e.mutate(func() (bool, error) {
		imageURL := store.Load(ctx, e.store, store.KeyImageURL, e.settings.DefaultImageURL)
		opacity := store.Load(ctx, e.store, store.KeyOverlayOpacity, e.settings.DefaultOverlayOpacity)

		reveals := store.Load[*models.Ledger](ctx, e.store, store.KeyReveals, nil)
		if reveals == nil {
			reveals = models.NewLedger()
		}

		users := normalizeRegistry(store.Load(ctx, e.store, store.KeyUsers, models.Registry{}))
		if n := pruneOrphans(users, reveals); n > 0 {
			e.log.Warn(ctx, "dropped revealed blocks missing from the ledger", "blocks", n)
		}

		e.image = models.ImageConfig{ImageURL: imageURL, OverlayOpacity: models.ClampOpacity(opacity)}
		e.reveals = reveals
		e.users = users
		e.current = ""

		active := models.NormalizeEmail(store.Load(ctx, e.store, store.KeyActiveIdentity, ""))
		if u, ok := users[active]; ok && active != "" {
			u = u.Clone()
			if e.refreshQuota(&u) {
				next := withUser(users, u)
				e.store.Save(ctx, store.KeyUsers, next)
				e.users = next
				e.log.Info(ctx, "daily quota refilled", "email", u.Email)
			}
			e.current = active
		}

		e.loading = false
		e.log.Info(ctx, "board loaded",
			"users", len(e.users), "revealed", e.reveals.Len(), "logged_in", e.current != "")
		return true, nil
	})
}

// Login makes email the current user, registering it on first use. A
// returning user keeps the stored username and profile url; the form values
// only seed new accounts.
func (e *Engine) Login(ctx context.Context, email, username, profileURL string) error {
	key := models.NormalizeEmail(email)
	if key == "" || !strings.Contains(key, "@") {
		return common.ErrInvalidEmail
	}

	return e.mutate(func() (bool, error) {
		u, known := e.users[key]
		changed := !known
		if known {
			u = u.Clone()
			changed = e.refreshQuota(&u)
		} else {
			name := strings.TrimSpace(username)
			if name == "" {
				return false, common.ErrInvalidUsername
			}
			u = models.User{
				Email:          key,
				Username:       name,
				ProfileURL:     strings.TrimSpace(profileURL),
				DailyUnlocks:   e.settings.DailyUnlockLimit,
				LastUnlockDate: e.today(),
			}
		}

		items := []store.Item{{Key: store.KeyActiveIdentity, Value: key}}
		next := e.users
		if changed {
			next = withUser(e.users, u)
			items = append(items, store.Item{Key: store.KeyUsers, Value: next})
		}
		e.store.SaveAll(ctx, items...)

		e.users = next
		e.current = key
		e.log.Info(ctx, "user logged in", "email", key, "new", !known)
		return true, nil
	})
}

// Logout forgets the active identity. Registry and ledger are untouched.
func (e *Engine) Logout(ctx context.Context) {
	e.mutate(func() (bool, error) {
		if e.current == "" {
			return false, nil
		}
		e.store.Delete(ctx, store.KeyActiveIdentity)
		e.log.Info(ctx, "user logged out", "email", e.current)
		e.current = ""
		return true, nil
	})
}

// UnlockBlock spends one unlock of the current user on index. The quota
// decrement, the user's revealed set and the ledger entry are persisted in
// one batch.
func (e *Engine) UnlockBlock(ctx context.Context, index int) error {
	if index < 0 || index >= e.settings.TotalBlocks() {
		return common.ErrBlockOutOfRange
	}

	return e.withCurrentUser(ctx, func(u *models.User) error {
		if u.DailyUnlocks <= 0 {
			return common.ErrQuotaExhausted
		}
		if e.reveals.Has(index) {
			return common.ErrBlockClaimed
		}

		u.DailyUnlocks--
		u.RevealedBlocks.Add(index)

		reveals := e.reveals.Clone()
		reveals.Claim(index, u.Reveal())
		users := withUser(e.users, *u)

		e.store.SaveAll(ctx,
			store.Item{Key: store.KeyUsers, Value: users},
			store.Item{Key: store.KeyReveals, Value: reveals},
		)
		e.users, e.reveals = users, reveals
		e.log.Debug(ctx, "block unlocked", "email", u.Email, "index", index, "left", u.DailyUnlocks)
		return nil
	})
}

// AddBonusUnlocks grants amount extra unlocks to the current user.
func (e *Engine) AddBonusUnlocks(ctx context.Context, amount int) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}

	return e.withCurrentUser(ctx, func(u *models.User) error {
		u.DailyUnlocks += amount
		users := withUser(e.users, *u)
		e.store.Save(ctx, store.KeyUsers, users)
		e.users = users
		e.log.Info(ctx, "bonus unlocks granted", "email", u.Email, "amount", amount)
		return nil
	})
}

// UpdateProfileURL changes the current user's profile url and re-stamps the
// ledger entries of the blocks that user revealed.
func (e *Engine) UpdateProfileURL(ctx context.Context, url string) error {
	return e.withCurrentUser(ctx, func(u *models.User) error {
		u.ProfileURL = strings.TrimSpace(url)

		reveals := e.reveals.Clone()
		n := reveals.Restamp(u.RevealedBlocks.Elements(), u.Reveal())
		users := withUser(e.users, *u)

		e.store.SaveAll(ctx,
			store.Item{Key: store.KeyUsers, Value: users},
			store.Item{Key: store.KeyReveals, Value: reveals},
		)
		e.users, e.reveals = users, reveals
		e.log.Info(ctx, "profile url updated", "email", u.Email, "blocks", n)
		return nil
	})
}

// withCurrentUser runs fn on a copy of the current user after refilling its
// quota if the day changed. fn commits its own changes; a refill is
// persisted even when fn rejects the request.
func (e *Engine) withCurrentUser(ctx context.Context, fn func(u *models.User) error) error {
	return e.mutate(func() (bool, error) {
		cur, ok := e.users[e.current]
		if e.current == "" || !ok {
			return false, common.ErrNoCurrentUser
		}

		u := cur.Clone()
		refreshed := e.refreshQuota(&u)

		if err := fn(&u); err != nil {
			if refreshed {
				u = cur.Clone()
				e.refreshQuota(&u)
				next := withUser(e.users, u)
				e.store.Save(ctx, store.KeyUsers, next)
				e.users = next
			}
			return refreshed, err
		}
		return true, nil
	})
}

// refreshQuota refills u's quota when its last refill was not today.
func (e *Engine) refreshQuota(u *models.User) bool {
	today := e.today()
	if u.LastUnlockDate == today {
		return false
	}
	u.DailyUnlocks = e.settings.DailyUnlockLimit
	u.LastUnlockDate = today
	return true
}

func (e *Engine) today() string {
	return e.now().Format(models.DateLayout)
}

// withUser returns a shallow copy of r with u stored under its email. Users
// are never mutated in place, so sharing the untouched values is safe.
func withUser(r models.Registry, u models.User) models.Registry {
	out := make(models.Registry, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[u.Email] = u
	return out
}

// normalizeRegistry re-keys users by normalized email. On collisions the
// entry whose key was already normalized wins.
func normalizeRegistry(r models.Registry) models.Registry {
	out := make(models.Registry, len(r))
	for k, u := range r {
		key := models.NormalizeEmail(k)
		if key == "" {
			continue
		}
		if _, taken := out[key]; taken && k != key {
			continue
		}
		u.Email = key
		out[key] = u
	}
	return out
}

// pruneOrphans removes revealed blocks that the ledger does not hold, which
// can only come from an interrupted write by an older build. It returns the
// number of indices dropped.
func pruneOrphans(r models.Registry, l *models.Ledger) int {
	dropped := 0
	for k, u := range r {
		var kept models.BlockSet
		for _, i := range u.RevealedBlocks.Elements() {
			if l.Has(i) {
				kept.Add(i)
			} else {
				dropped++
			}
		}
		if kept.Len() != u.RevealedBlocks.Len() {
			u.RevealedBlocks = kept
			r[k] = u
		}
	}
	return dropped
}
