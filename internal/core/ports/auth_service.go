package ports

import (
	"context"
	"time"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// RegisterInput carries the fields of a registration or admin-creation form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      domain.Role
}

// SessionToken is handed to the client after a successful login.
type SessionToken struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// AuthService covers registration, credential checks and sessions.
type AuthService interface {
	// Register creates a customer or salon-owner account with its profile.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login verifies credentials of an active account.
	Login(ctx context.Context, email, password string) (*domain.User, error)
	StartSession(ctx context.Context, user *domain.User) (*SessionToken, error)
	// ResolveSession loads the session behind token and the current state of
	// its user. Unknown, expired or inactive sessions yield ErrSessionNotFound.
	ResolveSession(ctx context.Context, token string) (*domain.User, *domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// ProfileUpdate carries editable profile attributes. Nil pointer and slice
// fields leave the stored value unchanged.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	DateOfBirth *time.Time
	PictureURL  string

	PreferredServiceIDs []string
	BusinessLicense     *string
	YearsOfExperience   *int
}

// AccountService manages identities on behalf of their owner or an admin.
type AccountService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error)
	// CreateUser is the admin path and accepts any role.
	CreateUser(ctx context.Context, in RegisterInput) (*domain.User, error)
	// ToggleActive flips the active flag; deactivation ends the user's sessions.
	ToggleActive(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// ListAdmins returns accounts with the admin tag or the superuser flag.
	ListAdmins(ctx context.Context) ([]*domain.User, error)
	// BootstrapAdmin creates an admin unless the email is taken, in which case
	// it returns the existing account and created=false.
	BootstrapAdmin(ctx context.Context, in RegisterInput) (user *domain.User, created bool, err error)
}
