package activity

import "context"

// Repository persists session events.
type Repository interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]Event, error)
}

// Publisher hands events to persistence, inline or through a queue.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
