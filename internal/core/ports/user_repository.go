package ports

import (
	"context"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// UserFilter narrows user listings. Zero values mean "no filter".
type UserFilter struct {
	Role      domain.Role
	Superuser *bool
	Search    string // partial match on email or name
	Limit     int
}

// UserRepository persists identity records together with their profile.
type UserRepository interface {
	// Create inserts the user and its embedded profile in one write. A taken
	// email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update stores profile attributes. Role, flags and password are not touched.
	Update(ctx context.Context, user *domain.User) error
	SetActive(ctx context.Context, id string, active bool) error
	TouchLastLogin(ctx context.Context, id string) error
	// List returns users newest first.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
}
