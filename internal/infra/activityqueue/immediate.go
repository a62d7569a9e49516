package activityqueue

import (
	"context"

	"github.com/yanqian/ar-shop/internal/domain/activity"
)

// ImmediatePublisher appends events inline.
type ImmediatePublisher struct {
	repo activity.Repository
}

// NewImmediatePublisher constructs the publisher.
func NewImmediatePublisher(repo activity.Repository) *ImmediatePublisher {
	return &ImmediatePublisher{repo: repo}
}

func (p *ImmediatePublisher) Publish(ctx context.Context, event activity.Event) error {
	return p.repo.Append(ctx, event)
}

// Run has nothing to drain and returns when ctx ends.
func (p *ImmediatePublisher) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

var _ activity.Publisher = (*ImmediatePublisher)(nil)
