package appstate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

func TestLoadHydratesFromStores(t *testing.T) {
	carts := newStubCarts()
	carts.items[1] = []cart.Item{line("1", "5ml", 996, 2)}
	prefs := &stubPrefs{loaded: preferences.Defaults()}
	prefs.loaded.Style = "bold"
	svc := NewService(prefs, carts, nil, newTestLogger())

	state, err := svc.Load(context.Background(), 1, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "bold", state.Preferences.Style)
	require.Equal(t, cart.Totals{Items: 2, Price: 1992}, state.Totals)
	require.Equal(t, TabCatalog, state.ActiveTab)

	_, err = svc.Load(context.Background(), 1, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, carts.loads, "state is cached after the first load")
}

func TestDispatchPersistsCartChanges(t *testing.T) {
	carts := newStubCarts()
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, carts, nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, 1, "", AddToCart{Item: line("1", "5ml", 996, 1)})
	require.NoError(t, err)
	state, err := svc.Dispatch(ctx, 1, "", AddToCart{Item: line("1", "5ml", 996, 2)})
	require.NoError(t, err)
	require.Equal(t, 3, state.Cart[0].Quantity)
	require.Equal(t, 3, carts.saved[len(carts.saved)-1].Quantity)

	state, err = svc.Dispatch(ctx, 1, "", UpdateQuantity{ProductID: "1", Size: "5ml", Quantity: 0})
	require.NoError(t, err)
	require.Empty(t, state.Cart)
	require.Equal(t, []string{"1/5ml"}, carts.removed)

	_, err = svc.Dispatch(ctx, 1, "", ClearCart{})
	require.NoError(t, err)
	require.Equal(t, 1, carts.clears)
}

func TestDispatchKeepsStateWhenStoreFails(t *testing.T) {
	carts := newStubCarts()
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, carts, nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, 1, "", AddToCart{Item: line("1", "5ml", 996, 1)})
	require.NoError(t, err)

	carts.err = errors.New("redis down")
	_, err = svc.Dispatch(ctx, 1, "", AddToCart{Item: line("2", "30ml", 664, 1)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorage))

	carts.err = nil
	state, err := svc.Load(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, state.Cart, 1)
}

func TestDispatchUpdateQuantityUnknownLine(t *testing.T) {
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, newStubCarts(), nil, newTestLogger())

	_, err := svc.Dispatch(context.Background(), 1, "", UpdateQuantity{ProductID: "9", Size: "3.5g", Quantity: 2})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestDispatchApplySkinToneSavesAnalysisAndPreferences(t *testing.T) {
	prefs := &stubPrefs{loaded: preferences.Defaults()}
	svc := NewService(prefs, newStubCarts(), nil, newTestLogger())

	state, err := svc.Dispatch(context.Background(), 4, "d@example.com", ApplySkinTone{Result: skintone.Demo()})
	require.NoError(t, err)
	require.Equal(t, []string{"analysis", "save"}, prefs.calls)
	require.Equal(t, state.Preferences.Colors, prefs.saved.Colors)
	require.Equal(t, "d@example.com", prefs.email)
}

func TestDispatchSelectProductLogsActivity(t *testing.T) {
	logger := &stubActivity{err: errors.New("queue full")}
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, newStubCarts(), logger, newTestLogger())

	product := catalog.Product{ID: "17", Name: "Orgasm Blush", Brand: "NARS"}
	state, err := svc.Dispatch(context.Background(), 2, "", SelectProduct{Product: product})
	require.NoError(t, err, "activity failures are not fatal")
	require.Equal(t, TabViewer3D, state.ActiveTab)
	require.Equal(t, "product_selected", logger.action)
	require.Equal(t, "NARS", logger.data["product_brand"])
	require.Equal(t, "Orgasm Blush", logger.data["product_name"])
}

func TestDispatchValidation(t *testing.T) {
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, newStubCarts(), nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, 0, "", ClearCart{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	bad := Tab("settings")
	_, err = svc.Dispatch(ctx, 1, "", SetView{Tab: &bad})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Dispatch(ctx, 1, "", AddToCart{Item: cart.Item{ProductID: "1"}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestDispatchResetReloadsOnNextAccess(t *testing.T) {
	carts := newStubCarts()
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, carts, nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.Load(ctx, 1, "")
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, 1, "", Reset{})
	require.NoError(t, err)
	_, err = svc.Load(ctx, 1, "")
	require.NoError(t, err)
	require.Equal(t, 2, carts.loads)
}

func TestDispatchResetDropsSession(t *testing.T) {
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, newStubCarts(), nil, newTestLogger()).(*service)
	ctx := context.Background()

	_, err := svc.Load(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, svc.sessions, 1)

	_, err = svc.Dispatch(ctx, 1, "", Reset{})
	require.NoError(t, err)
	require.Empty(t, svc.sessions)
}

func TestIdleSessionsAreEvicted(t *testing.T) {
	carts := newStubCarts()
	svc := NewService(&stubPrefs{loaded: preferences.Defaults()}, carts, nil, newTestLogger()).(*service)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		_, err := svc.Load(ctx, id, "")
		require.NoError(t, err)
	}
	busy := svc.sessions[3]
	busy.mu.Lock()

	clock = clock.Add(sessionIdleTTL + time.Minute)
	_, err := svc.Load(ctx, 4, "")
	require.NoError(t, err)
	require.Len(t, svc.sessions, 2, "idle sessions go, the locked one stays")
	require.Contains(t, svc.sessions, int64(3))
	require.Contains(t, svc.sessions, int64(4))
	busy.mu.Unlock()

	_, err = svc.Load(ctx, 1, "")
	require.NoError(t, err)
	require.Equal(t, 5, carts.loads, "evicted sessions rehydrate from the stores")
}

func TestDispatchRejectsInvalidPreferencesBeforeWriting(t *testing.T) {
	stored := preferences.Defaults()
	stored.Style = "punk"
	prefs := &stubPrefs{loaded: stored}
	svc := NewService(prefs, newStubCarts(), nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, 4, "d@example.com", ApplySkinTone{Result: skintone.Demo()})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Empty(t, prefs.calls)

	bad := preferences.Defaults()
	bad.Budget = 0
	_, err = svc.Dispatch(ctx, 4, "d@example.com", SetPreferences{Preferences: bad})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Empty(t, prefs.calls)

	state, err := svc.Load(ctx, 4, "")
	require.NoError(t, err)
	require.Nil(t, state.Preferences.SkinTone)
}

type stubPrefs struct {
	loaded preferences.Preferences
	saved  preferences.Preferences
	email  string
	calls  []string
	err    error
}

func (s *stubPrefs) Load(ctx context.Context, userID int64) (preferences.Preferences, error) {
	return s.loaded.Clone(), s.err
}

func (s *stubPrefs) Save(ctx context.Context, userID int64, email string, prefs preferences.Preferences) (preferences.Preferences, error) {
	s.calls = append(s.calls, "save")
	s.saved = prefs
	s.email = email
	return prefs, s.err
}

func (s *stubPrefs) SaveAnalysis(ctx context.Context, userID int64, email string, result skintone.Result) error {
	s.calls = append(s.calls, "analysis")
	return s.err
}

func (s *stubPrefs) EnsureProfile(ctx context.Context, userID int64, email string) error {
	return s.err
}

type stubCarts struct {
	items   map[int64][]cart.Item
	saved   []cart.Item
	removed []string
	clears  int
	loads   int
	err     error
}

func newStubCarts() *stubCarts {
	return &stubCarts{items: map[int64][]cart.Item{}}
}

func (s *stubCarts) SaveItem(ctx context.Context, userID int64, item cart.Item) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, item)
	return nil
}

func (s *stubCarts) LoadCart(ctx context.Context, userID int64) ([]cart.Item, error) {
	s.loads++
	return s.items[userID], s.err
}

func (s *stubCarts) RemoveItem(ctx context.Context, userID int64, productID, size string) error {
	if s.err != nil {
		return s.err
	}
	s.removed = append(s.removed, productID+"/"+size)
	return nil
}

func (s *stubCarts) ClearCart(ctx context.Context, userID int64) error {
	if s.err != nil {
		return s.err
	}
	s.clears++
	return nil
}

type stubActivity struct {
	action string
	data   map[string]any
	err    error
}

func (s *stubActivity) Log(ctx context.Context, userID int64, productID, action string, data map[string]any) error {
	s.action = action
	s.data = data
	return s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
