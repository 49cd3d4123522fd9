package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skillprobe/skillprobe-backend/internal/config"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// ErrSessionNotFound is returned when no live session exists for an attempt.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps in-flight assessment sessions in Redis. Every key is
// written with a TTL so abandoned attempts evaporate on their own, and reads
// double-check the embedded expiry so a stale session is evicted eagerly
// instead of being served.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl, now: time.Now}
}

// Save serializes the session and writes it with the store TTL.
func (s *SessionStore) Save(ctx context.Context, attemptID int64, sess *model.AssessmentSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, config.CacheKey.AssessmentSessionKey(attemptID), payload, s.ttl).Err()
}

// Get loads the session for an attempt. A session whose embedded expiry has
// passed is deleted and reported as missing.
func (s *SessionStore) Get(ctx context.Context, attemptID int64) (*model.AssessmentSession, error) {
	key := config.CacheKey.AssessmentSessionKey(attemptID)
	payload, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	sess := &model.AssessmentSession{}
	if err := json.Unmarshal(payload, sess); err != nil {
		return nil, err
	}
	if sessionExpired(sess, s.now()) {
		s.rdb.Del(ctx, key)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session for an attempt.
func (s *SessionStore) Delete(ctx context.Context, attemptID int64) error {
	return s.rdb.Del(ctx, config.CacheKey.AssessmentSessionKey(attemptID)).Err()
}

// sessionExpired reports whether the session's embedded expiry has passed.
func sessionExpired(sess *model.AssessmentSession, now time.Time) bool {
	return sess.ExpiresAt > 0 && now.Unix() >= sess.ExpiresAt
}
