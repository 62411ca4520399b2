package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

const (
	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
	fieldRole      = "role"
)

// SessionStore keeps sessions as Redis hashes that expire with the session.
// Key format: session:<id>; the role marker is the "role" field of that hash.
// user_sessions:<user id> indexes the sessions of one user.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("create session: already expired")
	}

	key := sessionKey(session.ID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldUserID, session.UserID,
		fieldCreatedAt, session.CreatedAt.Unix(),
		fieldExpiresAt, session.ExpiresAt.Unix(),
	)
	pipe.Expire(ctx, key, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	vals, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	userID, ok := vals[fieldUserID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return &domain.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: unixField(vals[fieldCreatedAt]),
		ExpiresAt: unixField(vals[fieldExpiresAt]),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	userID, err := s.client.HGet(ctx, sessionKey(id), fieldUserID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	if userID != "" {
		pipe.SRem(ctx, userSessionsKey(userID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}

	pipe := s.client.TxPipeline()
	deleted := pipe.Del(ctx, keys...)
	pipe.Del(ctx, userSessionsKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return int(deleted.Val()), nil
}

// RoleMarker returns the role recorded for the session. A missing session or
// an unreadable marker both report unmarked.
func (s *SessionStore) RoleMarker(ctx context.Context, id string) (domain.Role, bool, error) {
	val, err := s.client.HGet(ctx, sessionKey(id), fieldRole).Result()
	if errors.Is(err, redis.Nil) {
		return domain.RoleNone, false, nil
	}
	if err != nil {
		return domain.RoleNone, false, fmt.Errorf("get role marker: %w", err)
	}
	role, err := domain.ParseRole(val)
	if err != nil {
		return domain.RoleNone, false, nil
	}
	return role, true, nil
}

// SetRoleMarker records role on a live session. It does nothing when the
// session has already gone, so no marker outlives its session.
func (s *SessionStore) SetRoleMarker(ctx context.Context, id string, role domain.Role) error {
	key := sessionKey(id)
	exists, err := s.client.HExists(ctx, key, fieldUserID).Result()
	if err != nil {
		return fmt.Errorf("set role marker: %w", err)
	}
	if !exists {
		return nil
	}
	if err := s.client.HSet(ctx, key, fieldRole, role.String()).Err(); err != nil {
		return fmt.Errorf("set role marker: %w", err)
	}
	return nil
}

func sessionKey(id string) string { return "session:" + id }

func userSessionsKey(userID string) string { return "user_sessions:" + userID }

func unixField(v string) time.Time {
	ts, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
