package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// AccountService manages profiles and admin-side user administration.
type AccountService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	audit    ports.SecurityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccountService(users ports.UserRepository, sessions ports.SessionStore, audit ports.SecurityRecorder, log zerolog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
		audit:    audit,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile edits attributes only; role and flags never change here.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(in.Email)
	if email != "" && !strings.EqualFold(email, user.Email) {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, domain.ErrDuplicateEmail
		}
		user.Email = email
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Phone = strings.TrimSpace(in.Phone)
	user.Address = strings.TrimSpace(in.Address)
	user.DateOfBirth = in.DateOfBirth
	if in.PictureURL != "" {
		user.PictureURL = in.PictureURL
	}

	if user.CustomerProfile != nil && in.PreferredServiceIDs != nil {
		user.CustomerProfile.PreferredServiceIDs = in.PreferredServiceIDs
	}
	if p := user.SalonOwnerProfile; p != nil {
		if in.BusinessLicense != nil {
			p.BusinessLicense = strings.TrimSpace(*in.BusinessLicense)
		}
		if in.YearsOfExperience != nil {
			p.YearsOfExperience = *in.YearsOfExperience
		}
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser is the admin creation path. An admin account also gets the
// staff and superuser flags.
func (s *AccountService) CreateUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	return createAccount(ctx, s.users, in, s.now(), func(u *domain.User) {
		if u.Role == domain.RoleAdmin {
			u.IsStaff = true
			u.IsSuperuser = true
		}
	})
}

func (s *AccountService) ToggleActive(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive
	if err := s.users.SetActive(ctx, user.ID, user.IsActive); err != nil {
		return nil, err
	}

	if !user.IsActive {
		n, err := s.sessions.DeleteByUserID(ctx, user.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to revoke sessions of deactivated user")
		} else if n > 0 {
			s.log.Info().Str("user_id", user.ID).Int("sessions", n).Msg("revoked sessions of deactivated user")
		}
	}

	if s.audit != nil {
		s.audit.Record(domain.SecurityEvent{
			Kind:      domain.EventUserStatusToggled,
			UserID:    user.ID,
			Role:      user.Role.String(),
			Detail:    activeLabel(user.IsActive),
			Timestamp: s.now(),
		})
	}
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return s.users.List(ctx, filter)
}

func (s *AccountService) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	superusers := true
	supers, err := s.users.List(ctx, ports.UserFilter{Superuser: &superusers})
	if err != nil {
		return nil, err
	}
	admins, err := s.users.List(ctx, ports.UserFilter{Role: domain.RoleAdmin})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(supers)+len(admins))
	out := make([]*domain.User, 0, len(supers)+len(admins))
	for _, u := range append(supers, admins...) {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}

// BootstrapAdmin is idempotent on email. The bootstrap account is staff but
// not superuser; its admin tag alone grants admin access.
func (s *AccountService) BootstrapAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	in.Role = domain.RoleAdmin
	user, err := createAccount(ctx, s.users, in, s.now(), func(u *domain.User) {
		u.IsStaff = true
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			existing, findErr := s.users.FindByEmail(ctx, domain.NormalizeEmail(in.Email))
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

func activeLabel(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
