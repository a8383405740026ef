package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps server-side session records in Redis so that logout and
// account deletion revoke tokens that have not expired yet.
type SessionStore struct{ rdb *redis.Client }

func NewSessionStore(rdb *redis.Client) *SessionStore { return &SessionStore{rdb} }

func sessionKey(userID int64, sid string) string {
	return fmt.Sprintf("session:%d:%s", userID, sid)
}

// Create opens a session for the user and returns its id.
func (s *SessionStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(userID, sid), time.Now().UTC().Unix(), ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

func (s *SessionStore) Exists(ctx context.Context, userID int64, sid string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(userID, sid)).Result()
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return n == 1, nil
}

func (s *SessionStore) Revoke(ctx context.Context, userID int64, sid string) error {
	return s.rdb.Del(ctx, sessionKey(userID, sid)).Err()
}

// PurgeUser revokes every session of a user.
func (s *SessionStore) PurgeUser(ctx context.Context, userID int64) error {
	iter := s.rdb.Scan(ctx, 0, fmt.Sprintf("session:%d:*", userID), 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
