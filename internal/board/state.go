package board

import (
	"github.com/dmitrijs2005/revealboard/internal/models"
)

// Snapshot is an immutable view of the board published to observers.
type Snapshot struct {
	// CurrentUser is nil when nobody is logged in.
	CurrentUser    *models.User
	Reveals        models.LedgerView
	ImageURL       string
	OverlayOpacity float64
	Loading        bool
	TotalBlocks    int
}

// Progress is the revealed share of the grid in percent.
func (s Snapshot) Progress() float64 {
	if s.TotalBlocks == 0 || s.Reveals == nil {
		return 0
	}
	return float64(s.Reveals.Len()) / float64(s.TotalBlocks) * 100
}

// CanUnlock reports whether the current user has unlocks left.
func (s Snapshot) CanUnlock() bool {
	return s.CurrentUser != nil && s.CurrentUser.DailyUnlocks > 0
}

// Observer receives a snapshot after each state change.
type Observer func(Snapshot)

// Subscribe registers o and returns a function that removes it.
func (e *Engine) Subscribe(o Observer) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = o

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.observers, id)
	}
}

// mutate runs fn under the engine lock and, when fn reports a change,
// notifies observers after the lock is released.
func (e *Engine) mutate(fn func() (changed bool, err error)) error {
	e.mu.Lock()
	changed, err := fn()

	var (
		snap Snapshot
		obs  []Observer
	)
	if changed {
		snap = e.snapshotLocked()
		obs = make([]Observer, 0, len(e.observers))
		for _, o := range e.observers {
			obs = append(obs, o)
		}
	}
	e.mu.Unlock()

	for _, o := range obs {
		o(snap)
	}
	return err
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		Reveals:        e.reveals,
		ImageURL:       e.image.ImageURL,
		OverlayOpacity: e.image.OverlayOpacity,
		Loading:        e.loading,
		TotalBlocks:    e.settings.TotalBlocks(),
	}
	if u, ok := e.users[e.current]; ok && e.current != "" {
		c := u.Clone()
		s.CurrentUser = &c
	}
	return s
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// CurrentUser returns a copy of the logged-in user.
func (e *Engine) CurrentUser() (models.User, bool) {
	s := e.Snapshot()
	if s.CurrentUser == nil {
		return models.User{}, false
	}
	return *s.CurrentUser, true
}

// Reveals returns a read-only view of the ledger. The view is not affected
// by later changes.
func (e *Engine) Reveals() models.LedgerView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reveals
}

func (e *Engine) ImageURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.image.ImageURL
}

func (e *Engine) OverlayOpacity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.image.OverlayOpacity
}

func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

func (e *Engine) Settings() Settings { return e.settings }
