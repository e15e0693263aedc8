package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-storefront/internal/repository/contract"
	"ai-storefront/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:session:"

// SessionRepository stores sessions as JSON so several replicas can share
// them. Live dialogue handles are not stored; they are rebuilt from turns.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func Key(id string) string {
	return keyPrefix + id
}

func Encode(session *store.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	return data, nil
}

func Decode(data []byte) (*store.Session, error) {
	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, bool, error) {
	data, err := r.rdb.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", id, err)
	}

	session, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := Encode(session)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, Key(session.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
