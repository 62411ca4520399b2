package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

const defaultSessionTTL = 14 * 24 * time.Hour

// AuthService implements registration, login and session handling.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	audit      ports.SecurityRecorder
	jwtSecret  string
	sessionTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	audit ports.SecurityRecorder,
	jwtSecret string,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		audit:      audit,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a customer or salon-owner account with its profile.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Role != domain.RoleCustomer && in.Role != domain.RoleSalonOwner {
		return nil, domain.ErrInvalidRole
	}
	return createAccount(ctx, s.users, in, s.now(), nil)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(domain.SecurityEvent{Kind: domain.EventLoginFailed, Detail: email})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !checkPassword(user.PasswordHash, password) || !user.IsActive {
		s.record(domain.SecurityEvent{Kind: domain.EventLoginFailed, UserID: user.ID, Detail: email})
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}
	return user, nil
}

// StartSession opens a session for user and signs a token referencing it.
func (s *AuthService) StartSession(ctx context.Context, user *domain.User) (*ports.SessionToken, error) {
	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.generateToken(session)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, err
	}

	s.record(domain.SecurityEvent{Kind: domain.EventLogin, UserID: user.ID, SessionID: session.ID, Role: user.Role.String()})
	return &ports.SessionToken{Token: token, SessionID: session.ID, ExpiresAt: session.ExpiresAt}, nil
}

func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, nil, domain.ErrSessionNotFound
	}

	sessionID, _ := claims["sid"].(string)
	userID, _ := claims["sub"].(string)
	if sessionID == "" || userID == "" {
		return nil, nil, domain.ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != userID || session.IsExpired(s.now()) {
		return nil, nil, domain.ErrSessionNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrSessionNotFound
	}
	return user, session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.record(domain.SecurityEvent{Kind: domain.EventLogout, SessionID: sessionID})
	return nil
}

func (s *AuthService) generateToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.UserID,
		"sid": session.ID,
		"iat": session.CreatedAt.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) record(ev domain.SecurityEvent) {
	if s.audit == nil {
		return
	}
	ev.Timestamp = s.now()
	s.audit.Record(ev)
}
