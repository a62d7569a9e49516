package activity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

func TestServiceLogPublishesEvent(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewService(pub, &stubRepo{}, newTestLogger())

	err := svc.Log(context.Background(), 7, "12", ActionProductSelected, map[string]any{"product_brand": "MAC Cosmetics"})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)

	event := pub.events[0]
	require.NotEmpty(t, event.ID)
	require.Equal(t, int64(7), event.UserID)
	require.Equal(t, "12", event.ProductID)
	require.Equal(t, ActionProductSelected, event.Action)
	require.Equal(t, "MAC Cosmetics", event.Data["product_brand"])
	require.False(t, event.CreatedAt.IsZero())
}

func TestServiceLogRejectsAnonymousUser(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewService(pub, &stubRepo{}, newTestLogger())

	err := svc.Log(context.Background(), 0, SkinToneAnalysisProductID, ActionSkinToneAnalyzed, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	require.Empty(t, pub.events)
}

func TestServiceLogWrapsPublisherFailure(t *testing.T) {
	pub := &stubPublisher{err: errors.New("queue down")}
	svc := NewService(pub, &stubRepo{}, newTestLogger())

	err := svc.Log(context.Background(), 1, "3", ActionProductSelected, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorage))
	require.Contains(t, err.Error(), "queue down")
}

func TestServiceRecentClampsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(&stubPublisher{}, repo, newTestLogger())

	events, err := svc.Recent(context.Background(), 1, 0)
	require.NoError(t, err)
	require.NotNil(t, events)
	require.Equal(t, defaultRecentLimit, repo.lastLimit)

	_, err = svc.Recent(context.Background(), 1, 1000)
	require.NoError(t, err)
	require.Equal(t, maxRecentLimit, repo.lastLimit)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubPublisher struct {
	events []Event
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, event Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type stubRepo struct {
	lastLimit int
}

func (r *stubRepo) Append(context.Context, Event) error { return nil }

func (r *stubRepo) ListByUser(_ context.Context, _ int64, limit int) ([]Event, error) {
	r.lastLimit = limit
	return nil, nil
}
