package board

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/revealboard/internal/common"
	"github.com/dmitrijs2005/revealboard/internal/logging"
	"github.com/dmitrijs2005/revealboard/internal/models"
	"github.com/dmitrijs2005/revealboard/internal/repositories"
	"github.com/dmitrijs2005/revealboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func day(s string) time.Time {
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t.Add(12 * time.Hour)
}

type harness struct {
	db    *sql.DB
	store *store.Store
	clock *clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := repositories.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &harness{
		db:    db,
		store: store.New(db, logging.Discard()),
		clock: &clock{t: day("2026-10-16")},
	}
}

func (h *harness) engine(t *testing.T) *Engine {
	t.Helper()
	s := DefaultSettings()
	e := New(h.store, logging.Discard(), s, WithClock(h.clock.now))
	e.Initialize(context.Background())
	return e
}

func assertSubsetOfLedger(t *testing.T, e *Engine) {
	t.Helper()
	reveals := e.Reveals()
	for _, u := range e.Admin().ListUsers() {
		for _, i := range u.RevealedBlocks.Elements() {
			assert.True(t, reveals.Has(i), "user %s owns %d which is not in the ledger", u.Email, i)
		}
	}
}

func TestNew_IsLoadingUntilInitialized(t *testing.T) {
	h := newHarness(t)
	e := New(h.store, logging.Discard(), DefaultSettings())
	assert.True(t, e.IsLoading())

	e.Initialize(context.Background())
	assert.False(t, e.IsLoading())
	assert.Equal(t, defaultImageURL, e.ImageURL())
	assert.Equal(t, 0.8, e.OverlayOpacity())
	_, ok := e.CurrentUser()
	assert.False(t, ok)
}

func TestScenarioA_LoginUnlockAndDoubleUnlock(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	u, ok := e.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, 10, u.DailyUnlocks)
	assert.Equal(t, 0, u.RevealedBlocks.Len())
	assert.Equal(t, "2026-10-16", u.LastUnlockDate)

	require.NoError(t, e.UnlockBlock(ctx, 5))
	u, _ = e.CurrentUser()
	assert.Equal(t, 9, u.DailyUnlocks)
	r, ok := e.Reveals().Get(5)
	require.True(t, ok)
	assert.Equal(t, models.RevealData{Username: "Ann"}, r)

	require.ErrorIs(t, e.UnlockBlock(ctx, 5), common.ErrBlockClaimed)
	u, _ = e.CurrentUser()
	assert.Equal(t, 9, u.DailyUnlocks)
	assert.Equal(t, 1, e.Reveals().Len())
	assertSubsetOfLedger(t, e)
}

func TestScenarioB_QuotaExhausted(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()
	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))

	for i := 0; i < 10; i++ {
		require.NoError(t, e.UnlockBlock(ctx, i))
	}
	require.ErrorIs(t, e.UnlockBlock(ctx, 10), common.ErrQuotaExhausted)

	u, _ := e.CurrentUser()
	assert.Equal(t, 0, u.DailyUnlocks)
	assert.Equal(t, 10, u.RevealedBlocks.Len())
	assert.False(t, e.Reveals().Has(10))
	assert.False(t, e.Snapshot().CanUnlock())
}

func TestUnlock_ClaimsArePermanentAcrossUsers(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.NoError(t, e.UnlockBlock(ctx, 7))

	require.NoError(t, e.Login(ctx, "b@x.com", "Bob", ""))
	require.ErrorIs(t, e.UnlockBlock(ctx, 7), common.ErrBlockClaimed)

	bob, _ := e.CurrentUser()
	assert.Equal(t, 10, bob.DailyUnlocks)
	assert.Equal(t, 0, bob.RevealedBlocks.Len())

	r, _ := e.Reveals().Get(7)
	assert.Equal(t, "Ann", r.Username)
	assertSubsetOfLedger(t, e)
}

func TestUnlock_Rejections(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.ErrorIs(t, e.UnlockBlock(ctx, 1), common.ErrNoCurrentUser)

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.ErrorIs(t, e.UnlockBlock(ctx, -1), common.ErrBlockOutOfRange)
	require.ErrorIs(t, e.UnlockBlock(ctx, 120*84), common.ErrBlockOutOfRange)
	require.NoError(t, e.UnlockBlock(ctx, 120*84-1))

	u, _ := e.CurrentUser()
	assert.Equal(t, 9, u.DailyUnlocks)
}

func TestLogin_ValidatesInput(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.ErrorIs(t, e.Login(ctx, "", "Ann", ""), common.ErrInvalidEmail)
	require.ErrorIs(t, e.Login(ctx, "no-at-sign", "Ann", ""), common.ErrInvalidEmail)
	require.ErrorIs(t, e.Login(ctx, "a@x.com", "  ", ""), common.ErrInvalidUsername)
	assert.Empty(t, e.Admin().ListUsers())
}

func TestLogin_ReturningUserKeepsIdentityFields(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.NoError(t, e.Login(ctx, "A@X.com ", "Ann", "https://ann"))
	require.NoError(t, e.UnlockBlock(ctx, 1))
	e.Logout(ctx)

	require.NoError(t, e.Login(ctx, "a@x.com", "Impostor", "https://other"))
	u, ok := e.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "Ann", u.Username)
	assert.Equal(t, "https://ann", u.ProfileURL)
	assert.Equal(t, 9, u.DailyUnlocks)
	assert.True(t, u.RevealedBlocks.Has(1))
	assert.Len(t, e.Admin().ListUsers(), 1)
}

func TestLogin_IsIdempotentWithinADay(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.NoError(t, e.UnlockBlock(ctx, 3))
	before, _ := e.CurrentUser()

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	after, _ := e.CurrentUser()
	assert.Equal(t, before.DailyUnlocks, after.DailyUnlocks)
	assert.Equal(t, before.RevealedBlocks.Elements(), after.RevealedBlocks.Elements())
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.NoError(t, e.UnlockBlock(ctx, 2))
	e.Logout(ctx)

	_, ok := e.CurrentUser()
	assert.False(t, ok)
	assert.Len(t, e.Admin().ListUsers(), 1)
	assert.True(t, e.Reveals().Has(2))
	assert.Equal(t, "", store.Load(ctx, h.store, store.KeyActiveIdentity, ""))

	// a fresh process starts logged out
	assert.Nil(t, h.engine(t).Snapshot().CurrentUser)
}

func TestDailyReset_OnInitialize(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e := h.engine(t)
	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	for i := 0; i < 4; i++ {
		require.NoError(t, e.UnlockBlock(ctx, i))
	}

	h.clock.t = day("2026-10-17")
	e2 := h.engine(t)

	u, ok := e2.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, 10, u.DailyUnlocks)
	assert.Equal(t, "2026-10-17", u.LastUnlockDate)
	assert.Equal(t, []int{0, 1, 2, 3}, u.RevealedBlocks.Elements())

	stored := store.Load(ctx, h.store, store.KeyUsers, models.Registry{})
	assert.Equal(t, "2026-10-17", stored["a@x.com"].LastUnlockDate)
}

func TestInitialize_SameDayDoesNotRewriteRegistry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e := h.engine(t)
	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))

	raw := func() string {
		var v string
		require.NoError(t, h.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, store.KeyUsers).Scan(&v))
		return v
	}
	before := raw()

	// a store with a different writer id would stamp a different envelope
	other := store.New(h.db, logging.Discard())
	e2 := New(other, logging.Discard(), DefaultSettings(), WithClock(h.clock.now))
	e2.Initialize(ctx)

	assert.Equal(t, before, raw())
}

func TestDailyReset_WhenTouchedOnNewDay(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	for i := 0; i < 10; i++ {
		require.NoError(t, e.UnlockBlock(ctx, i))
	}
	require.ErrorIs(t, e.UnlockBlock(ctx, 50), common.ErrQuotaExhausted)

	h.clock.t = day("2026-10-17")
	require.NoError(t, e.UnlockBlock(ctx, 50))

	u, _ := e.CurrentUser()
	assert.Equal(t, 9, u.DailyUnlocks)
	assert.Equal(t, 11, u.RevealedBlocks.Len())
}

func TestDailyReset_PersistedEvenWhenUnlockRejected(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.NoError(t, e.UnlockBlock(ctx, 1))
	require.NoError(t, e.AddBonusUnlocks(ctx, 20))

	h.clock.t = day("2026-10-18")
	require.ErrorIs(t, e.UnlockBlock(ctx, 1), common.ErrBlockClaimed)

	u, _ := e.CurrentUser()
	assert.Equal(t, 10, u.DailyUnlocks)
	stored := store.Load(ctx, h.store, store.KeyUsers, models.Registry{})
	assert.Equal(t, "2026-10-18", stored["a@x.com"].LastUnlockDate)
	assert.Equal(t, 10, stored["a@x.com"].DailyUnlocks)
}

func TestAddBonusUnlocks(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	require.ErrorIs(t, e.AddBonusUnlocks(ctx, 20), common.ErrNoCurrentUser)

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.ErrorIs(t, e.AddBonusUnlocks(ctx, 0), common.ErrInvalidAmount)
	require.ErrorIs(t, e.AddBonusUnlocks(ctx, -5), common.ErrInvalidAmount)
	require.NoError(t, e.AddBonusUnlocks(ctx, 20))

	u, _ := e.CurrentUser()
	assert.Equal(t, 30, u.DailyUnlocks)

	stored := store.Load(ctx, h.store, store.KeyUsers, models.Registry{})
	assert.Equal(t, 30, stored["a@x.com"].DailyUnlocks)
}

func TestScenarioD_UpdateProfileURLRestampsOwnBlocksOnly(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	// two users sharing a display name
	require.NoError(t, e.Login(ctx, "b@x.com", "Ann", "https://b"))
	require.NoError(t, e.UnlockBlock(ctx, 4))

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.NoError(t, e.UnlockBlock(ctx, 3))
	require.NoError(t, e.UnlockBlock(ctx, 7))

	require.NoError(t, e.UpdateProfileURL(ctx, " https://ann.example "))

	for _, i := range []int{3, 7} {
		r, ok := e.Reveals().Get(i)
		require.True(t, ok)
		assert.Equal(t, "https://ann.example", r.ProfileURL)
	}
	r, _ := e.Reveals().Get(4)
	assert.Equal(t, "https://b", r.ProfileURL)

	u, _ := e.CurrentUser()
	assert.Equal(t, "https://ann.example", u.ProfileURL)

	persisted := store.Load[*models.Ledger](ctx, h.store, store.KeyReveals, nil)
	require.NotNil(t, persisted)
	r, _ = persisted.Get(7)
	assert.Equal(t, "https://ann.example", r.ProfileURL)
}

func TestUpdateProfileURL_RequiresUser(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	require.ErrorIs(t, e.UpdateProfileURL(context.Background(), "https://x"), common.ErrNoCurrentUser)
}

func TestState_SurvivesRestart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e := h.engine(t)
	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", "https://ann"))
	require.NoError(t, e.UnlockBlock(ctx, 11))
	require.NoError(t, e.UnlockBlock(ctx, 12))

	e2 := h.engine(t)
	u, ok := e2.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, 8, u.DailyUnlocks)
	assert.Equal(t, []int{11, 12}, u.RevealedBlocks.Elements())
	r, ok := e2.Reveals().Get(12)
	require.True(t, ok)
	assert.Equal(t, models.RevealData{Username: "Ann", ProfileURL: "https://ann"}, r)
}

func TestInitialize_UnknownActiveIdentityIsIgnored(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.True(t, h.store.Save(ctx, store.KeyActiveIdentity, "ghost@x.com"))

	e := h.engine(t)
	_, ok := e.CurrentUser()
	assert.False(t, ok)
}

func TestInitialize_NormalizesAndPrunesLegacyState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ledger := models.NewLedger()
	ledger.Claim(1, models.RevealData{Username: "Ann"})
	require.True(t, h.store.SaveAll(ctx,
		store.Item{Key: store.KeyReveals, Value: ledger},
		store.Item{Key: store.KeyUsers, Value: models.Registry{
			"Ann@X.com": {Email: "Ann@X.com", Username: "Ann", DailyUnlocks: 5,
				LastUnlockDate: "2026-10-16", RevealedBlocks: models.NewBlockSet(1, 2)},
		}},
		store.Item{Key: store.KeyActiveIdentity, Value: "Ann@X.com"},
	))

	e := h.engine(t)
	u, ok := e.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "ann@x.com", u.Email)
	assert.Equal(t, []int{1}, u.RevealedBlocks.Elements())
	assertSubsetOfLedger(t, e)
}

func TestCurrentUser_IsACopy(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()
	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))

	u, _ := e.CurrentUser()
	u.DailyUnlocks = 999
	u.RevealedBlocks.Add(42)

	again, _ := e.CurrentUser()
	assert.Equal(t, 10, again.DailyUnlocks)
	assert.False(t, again.RevealedBlocks.Has(42))
}

func TestRevealsView_IsStable(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()
	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))

	view := e.Reveals()
	require.NoError(t, e.UnlockBlock(ctx, 1))

	assert.Equal(t, 0, view.Len())
	assert.Equal(t, 1, e.Reveals().Len())
}

func TestWriteFailure_KeepsSessionServing(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()
	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))

	require.NoError(t, h.db.Close())

	require.NotPanics(t, func() {
		require.NoError(t, e.UnlockBlock(ctx, 9))
	})
	u, _ := e.CurrentUser()
	assert.Equal(t, 9, u.DailyUnlocks)
	assert.True(t, e.Reveals().Has(9))
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	h := newHarness(t)
	e := h.engine(t)
	ctx := context.Background()

	var got []Snapshot
	cancel := e.Subscribe(func(s Snapshot) { got = append(got, s) })

	require.NoError(t, e.Login(ctx, "a@x.com", "Ann", ""))
	require.NoError(t, e.UnlockBlock(ctx, 0))
	require.ErrorIs(t, e.UnlockBlock(ctx, 0), common.ErrBlockClaimed)

	require.Len(t, got, 2)
	assert.Equal(t, 9, got[1].CurrentUser.DailyUnlocks)
	assert.InDelta(t, 100.0/float64(120*84), got[1].Progress(), 1e-9)

	cancel()
	require.NoError(t, e.UnlockBlock(ctx, 1))
	assert.Len(t, got, 2)
}

func TestSettings_WithDefaults(t *testing.T) {
	s := Settings{}.withDefaults()
	assert.Equal(t, DefaultSettings().DailyUnlockLimit, s.DailyUnlockLimit)
	assert.Equal(t, 120*84, s.TotalBlocks())

	custom := Settings{DailyUnlockLimit: 3, GridCols: 4, GridRows: 2, DefaultImageURL: "https://x"}.withDefaults()
	assert.Equal(t, 3, custom.DailyUnlockLimit)
	assert.Equal(t, 8, custom.TotalBlocks())
}
