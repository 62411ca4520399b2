package ports

import (
	"context"

	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// SessionStore is the key-value store of login sessions, keyed by session id.
type SessionStore interface {
	access.RoleMarkerStore

	Create(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
	// DeleteByUserID ends every session of a user and returns how many ended.
	DeleteByUserID(ctx context.Context, userID string) (int, error)
}
