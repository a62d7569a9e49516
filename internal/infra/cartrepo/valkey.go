package cartrepo

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ar-shop/internal/domain/cart"
)

// ValkeyStore keeps one hash per cart, one field per line.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "arshop"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// SaveItem upserts a line. The first AddedAt is kept.
func (s *ValkeyStore) SaveItem(ctx context.Context, userID int64, item cart.Item) error {
	key, field := s.key(userID), lineField(item.ProductID, item.Size)
	existing, err := s.client.Do(ctx, s.client.B().Hget().Key(key).Field(field).Build()).ToString()
	switch {
	case err == nil:
		var prev cart.Item
		if json.Unmarshal([]byte(existing), &prev) == nil && !prev.AddedAt.IsZero() {
			item.AddedAt = prev.AddedAt
		}
	case !valkey.IsValkeyNil(err):
		return err
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Hset().Key(key).FieldValue().FieldValue(field, string(payload)).Build()).Error()
}

// LoadCart returns lines newest first.
func (s *ValkeyStore) LoadCart(ctx context.Context, userID int64) ([]cart.Item, error) {
	fields, err := s.client.Do(ctx, s.client.B().Hgetall().Key(s.key(userID)).Build()).AsStrMap()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []cart.Item{}, nil
		}
		return nil, err
	}
	items := make([]cart.Item, 0, len(fields))
	for _, raw := range fields {
		var it cart.Item
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *ValkeyStore) RemoveItem(ctx context.Context, userID int64, productID, size string) error {
	return s.client.Do(ctx, s.client.B().Hdel().Key(s.key(userID)).Field(lineField(productID, size)).Build()).Error()
}

func (s *ValkeyStore) ClearCart(ctx context.Context, userID int64) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(userID)).Build()).Error()
}

func (s *ValkeyStore) key(userID int64) string {
	return s.prefix + ":cart:" + strconv.FormatInt(userID, 10)
}

func lineField(productID, size string) string {
	return productID + "|" + size
}

var _ cart.Store = (*ValkeyStore)(nil)
