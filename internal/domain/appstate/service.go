package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/ar-shop/internal/domain/activity"
	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

// ActivityLogger records product interactions.
type ActivityLogger interface {
	Log(ctx context.Context, userID int64, productID, action string, data map[string]any) error
}

// Service owns per-user storefront state and its persistence side effects.
type Service interface {
	Load(ctx context.Context, userID int64, email string) (State, error)
	Dispatch(ctx context.Context, userID int64, email string, action Action) (State, error)
}

// sessionIdleTTL bounds how long an untouched session stays cached. Evicted sessions are
// rehydrated from the stores on next access.
const sessionIdleTTL = 30 * time.Minute

type session struct {
	mu     sync.Mutex
	state  State
	loaded bool

	lastSeen time.Time
}

type service struct {
	prefs    preferences.Service
	carts    cart.Store
	activity ActivityLogger
	logger   *slog.Logger

	mu        sync.Mutex
	sessions  map[int64]*session
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewService constructs a Service instance. activity may be nil.
func NewService(prefs preferences.Service, carts cart.Store, activity ActivityLogger, logger *slog.Logger) Service {
	return &service{
		prefs:    prefs,
		carts:    carts,
		activity: activity,
		logger:   logger.With("component", "appstate.service"),
		sessions: make(map[int64]*session),
		idleTTL:  sessionIdleTTL,
		now:      time.Now,
	}
}

func (s *service) Load(ctx context.Context, userID int64, email string) (State, error) {
	if userID <= 0 {
		return State{}, apperrors.Wrap(apperrors.CodeUnauthorized, "state requires a signed-in user", nil)
	}
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.ensureLoaded(ctx, sess, userID, email); err != nil {
		return State{}, err
	}
	return sess.state.Clone(), nil
}

func (s *service) Dispatch(ctx context.Context, userID int64, email string, action Action) (State, error) {
	if userID <= 0 {
		return State{}, apperrors.Wrap(apperrors.CodeUnauthorized, "state requires a signed-in user", nil)
	}
	if action == nil {
		return State{}, apperrors.Wrap(apperrors.CodeInvalidInput, "action is required", nil)
	}
	if _, ok := action.(Reset); ok {
		s.dropSession(userID)
		return Initial(userID, email), nil
	}
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.ensureLoaded(ctx, sess, userID, email); err != nil {
		return State{}, err
	}
	current := sess.state
	if err := validate(current, action); err != nil {
		return State{}, err
	}
	next := Reduce(current, action)
	if err := checkPreferences(next, action); err != nil {
		return State{}, err
	}
	if err := s.persist(ctx, next, action); err != nil {
		return State{}, err
	}
	sess.state = next
	s.logger.Debug("action applied", "user_id", userID, "action", Name(action), "cart_items", next.Totals.Items)
	return next.Clone(), nil
}

func (s *service) session(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{}
		s.sessions[userID] = sess
	}
	sess.lastSeen = now
	return sess
}

func (s *service) dropSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// sweepLocked evicts idle sessions at most once per half TTL. A session whose lock is held
// is in use and stays.
func (s *service) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.idleTTL/2 {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) <= s.idleTTL || !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
	}
}

func (s *service) ensureLoaded(ctx context.Context, sess *session, userID int64, email string) error {
	if sess.loaded {
		if email != "" {
			sess.state.Email = email
		}
		return nil
	}
	prefs, err := s.prefs.Load(ctx, userID)
	if err != nil {
		return err
	}
	items, err := s.carts.LoadCart(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to load cart", err)
	}
	sess.state = Reduce(Initial(userID, email), Hydrate{Preferences: prefs, Cart: items})
	sess.loaded = true
	return nil
}

func validate(state State, action Action) error {
	switch a := action.(type) {
	case AddToCart:
		if a.Item.ProductID == "" || a.Item.Size == "" || a.Item.Quantity < 1 {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "cart item needs product, size and a positive quantity", nil)
		}
	case UpdateQuantity:
		if cart.Find(state.Cart, a.ProductID, a.Size) < 0 {
			return apperrors.Wrap(apperrors.CodeNotFound, "cart item not found", nil)
		}
	case SelectProduct:
		if a.Product.ID == "" {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "product is required", nil)
		}
	case SetView:
		if a.Tab != nil {
			if _, ok := ParseTab(string(*a.Tab)); !ok {
				return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown tab %q", *a.Tab), nil)
			}
		}
	}
	return nil
}

// checkPreferences validates merged preferences before any store is written, so a rejected
// update leaves the stored profile untouched.
func checkPreferences(next State, action Action) error {
	switch action.(type) {
	case SetPreferences, ApplySkinTone:
		if err := next.Preferences.Validate(); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
		}
	}
	return nil
}

func (s *service) persist(ctx context.Context, next State, action Action) error {
	userID := next.UserID
	switch a := action.(type) {
	case AddToCart:
		return s.saveLine(ctx, userID, next.Cart, a.Item.ProductID, a.Item.Size)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return s.wrapCart(s.carts.RemoveItem(ctx, userID, a.ProductID, a.Size))
		}
		return s.saveLine(ctx, userID, next.Cart, a.ProductID, a.Size)
	case RemoveFromCart:
		return s.wrapCart(s.carts.RemoveItem(ctx, userID, a.ProductID, a.Size))
	case ClearCart:
		return s.wrapCart(s.carts.ClearCart(ctx, userID))
	case SetPreferences:
		_, err := s.prefs.Save(ctx, userID, next.Email, next.Preferences)
		return err
	case ApplySkinTone:
		if err := s.prefs.SaveAnalysis(ctx, userID, next.Email, a.Result); err != nil {
			return err
		}
		_, err := s.prefs.Save(ctx, userID, next.Email, next.Preferences)
		return err
	case SelectProduct:
		s.logSelection(ctx, userID, a)
	}
	return nil
}

func (s *service) saveLine(ctx context.Context, userID int64, items []cart.Item, productID, size string) error {
	i := cart.Find(items, productID, size)
	if i < 0 {
		return nil
	}
	return s.wrapCart(s.carts.SaveItem(ctx, userID, items[i]))
}

func (s *service) wrapCart(err error) error {
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to update cart", err)
	}
	return nil
}

func (s *service) logSelection(ctx context.Context, userID int64, a SelectProduct) {
	if s.activity == nil {
		return
	}
	err := s.activity.Log(ctx, userID, a.Product.ID, activity.ActionProductSelected, map[string]any{
		"product_name":  a.Product.Name,
		"product_brand": a.Product.Brand,
	})
	if err != nil {
		s.logger.Warn("failed to log product selection", "user_id", userID, "product_id", a.Product.ID, "error", err)
	}
}
