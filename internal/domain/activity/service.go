package activity

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/ar-shop/pkg/errors"
	"github.com/yanqian/ar-shop/pkg/util"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Service records and lists session activity.
type Service interface {
	Log(ctx context.Context, userID int64, productID, action string, data map[string]any) error
	Recent(ctx context.Context, userID int64, limit int) ([]Event, error)
}

type service struct {
	publisher Publisher
	repo      Repository
	logger    *slog.Logger
}

// NewService constructs the activity service.
func NewService(publisher Publisher, repo Repository, logger *slog.Logger) Service {
	return &service{
		publisher: publisher,
		repo:      repo,
		logger:    logger.With("component", "activity.service"),
	}
}

func (s *service) Log(ctx context.Context, userID int64, productID, action string, data map[string]any) error {
	if userID <= 0 {
		return apperrors.Wrap(apperrors.CodeUnauthorized, "activity requires a signed-in user", nil)
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "action cannot be empty", nil)
	}
	event := Event{
		ID:        util.NewID(),
		UserID:    userID,
		ProductID: productID,
		Action:    action,
		Data:      data,
		CreatedAt: util.NowUTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to record activity", err)
	}
	s.logger.Debug("activity recorded", "user_id", userID, "action", action, "product_id", productID)
	return nil
}

func (s *service) Recent(ctx context.Context, userID int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	events, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load activity", err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}
