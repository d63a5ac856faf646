package board

import (
	"context"
	"math"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/revealboard/internal/common"
	"github.com/dmitrijs2005/revealboard/internal/models"
	"github.com/dmitrijs2005/revealboard/internal/store"
)

// Admin exposes the operator-only operations of an engine.
type Admin struct {
	e *Engine
}

func (e *Engine) Admin() *Admin {
	return &Admin{e: e}
}

// ListUsers returns copies of every registered user ordered by email.
func (a *Admin) ListUsers() []models.User {
	a.e.mu.Lock()
	defer a.e.mu.Unlock()
	return a.e.users.Users()
}

// UpdateOverlayOpacity stores v clamped to [0,1].
func (a *Admin) UpdateOverlayOpacity(ctx context.Context, v float64) error {
	if math.IsNaN(v) {
		return common.ErrInvalidOpacity
	}
	v = models.ClampOpacity(v)

	e := a.e
	return e.mutate(func() (bool, error) {
		e.store.Save(ctx, store.KeyOverlayOpacity, v)
		e.image.OverlayOpacity = v
		e.log.Info(ctx, "overlay opacity updated", "opacity", v)
		return true, nil
	})
}

// UpdateImageAndReset sets a new target image and wipes all progress: the
// ledger is emptied and every user's revealed set is cleared. Quotas are
// kept. The three keys are written in one batch.
func (a *Admin) UpdateImageAndReset(ctx context.Context, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return common.ErrEmptyImageURL
	}
	if err := validateImageURL(imageURL); err != nil {
		return err
	}

	e := a.e
	return e.mutate(func() (bool, error) {
		users := make(models.Registry, len(e.users))
		for k, u := range e.users {
			u.RevealedBlocks = models.BlockSet{}
			users[k] = u
		}
		reveals := models.NewLedger()

		e.store.SaveAll(ctx,
			store.Item{Key: store.KeyImageURL, Value: imageURL},
			store.Item{Key: store.KeyReveals, Value: reveals},
			store.Item{Key: store.KeyUsers, Value: users},
		)

		cleared := e.reveals.Len()
		e.image.ImageURL = imageURL
		e.reveals = reveals
		e.users = users
		e.log.Info(ctx, "board reset", "image_url", imageURL, "cleared_blocks", cleared, "users", len(users))
		return true, nil
	})
}

func validateImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return common.ErrInvalidImageURL
	}
	return nil
}
