package activityqueue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ar-shop/internal/domain/activity"
)

const defaultQueueKey = "arshop:activity"

// ValkeyQueue buffers events in a Valkey list. Run drains it into the repository.
type ValkeyQueue struct {
	client      valkey.Client
	queueKey    string
	repo        activity.Repository
	logger      *slog.Logger
	pollTimeout time.Duration
}

// NewValkeyQueue constructs a Valkey-backed queue.
func NewValkeyQueue(client valkey.Client, queueKey string, repo activity.Repository, logger *slog.Logger) *ValkeyQueue {
	if queueKey == "" {
		queueKey = defaultQueueKey
	}
	return &ValkeyQueue{
		client:      client,
		queueKey:    queueKey,
		repo:        repo,
		logger:      logger.With("component", "activity.queue"),
		pollTimeout: 5 * time.Second,
	}
}

// Publish pushes an event onto the queue.
func (q *ValkeyQueue) Publish(ctx context.Context, event activity.Event) error {
	encoded, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.Do(ctx, q.client.B().Lpush().Key(q.queueKey).Element(string(encoded)).Build()).Error()
}

// Run pops events until ctx is cancelled. Undecodable payloads are dropped with a warning.
func (q *ValkeyQueue) Run(ctx context.Context) error {
	q.logger.Info("activity consumer started", "queue", q.queueKey)
	for {
		if ctx.Err() != nil {
			return nil
		}
		resp := q.client.Do(ctx, q.client.B().Brpop().Key(q.queueKey).Timeout(q.pollTimeout.Seconds()).Build())
		values, err := resp.ToArray()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !valkey.IsValkeyNil(err) {
				q.logger.Warn("activity queue pop failed", "error", err)
				sleep(ctx, time.Second)
			}
			continue
		}
		if len(values) < 2 {
			continue
		}
		raw, err := values[1].ToString()
		if err != nil {
			q.logger.Warn("activity payload decode failed", "error", err)
			continue
		}
		q.handle(ctx, raw)
	}
}

func (q *ValkeyQueue) handle(ctx context.Context, raw string) {
	var event activity.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		q.logger.Warn("activity payload unmarshal failed", "error", err)
		return
	}
	if err := q.repo.Append(ctx, event); err != nil {
		q.logger.Error("activity append failed", "event_id", event.ID, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

var _ activity.Publisher = (*ValkeyQueue)(nil)
