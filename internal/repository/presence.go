package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PresenceStore tracks which users currently have at least one live socket.
// State lives in Redis so other instances (and plain HTTP callers) can read it.
type PresenceStore struct {
	client *redis.Client
	prefix string
}

func NewPresenceStore(client *redis.Client, prefix string) *PresenceStore {
	return &PresenceStore{client: client, prefix: prefix}
}

func (s *PresenceStore) key(userID string) string {
	return fmt.Sprintf("%s:presence:%s", s.prefix, userID)
}

func (s *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	return s.client.Set(ctx, s.key(userID), "1", 0).Err()
}

func (s *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	return s.client.Set(ctx, s.key(userID), "0", 0).Err()
}

func (s *PresenceStore) IsOnline(ctx context.Context, userID string) (bool, error) {
	v, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}
