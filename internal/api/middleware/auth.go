package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

const (
	ctxUserKey    = "user"
	ctxSessionKey = "session"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Authenticate attaches the identity behind the session cookie (or a Bearer
// token) to the context. It never rejects a request; the guards decide what an
// anonymous caller may reach.
func Authenticate(auth ports.AuthService, cookie CookieConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, fromCookie := tokenFrom(c, cookie.Name)
			if token == "" {
				return next(c)
			}

			user, session, err := auth.ResolveSession(c.Request().Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionNotFound) {
					log.Warn().Err(err).Str("path", c.Path()).Msg("session lookup failed, continuing anonymous")
				} else if fromCookie {
					ClearSessionCookie(c, cookie)
				}
				return next(c)
			}

			SetIdentity(c, user, session)
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context, cookieName string) (token string, fromCookie bool) {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value, true
	}
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}

// SetIdentity attaches an authenticated user and session to c. A nil user
// makes the request anonymous again.
func SetIdentity(c echo.Context, user *domain.User, session *domain.Session) {
	c.Set(ctxUserKey, user)
	c.Set(ctxSessionKey, session)
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(ctxUserKey).(*domain.User)
	return u
}

// CurrentSession returns the authenticated session or nil.
func CurrentSession(c echo.Context) *domain.Session {
	s, _ := c.Get(ctxSessionKey).(*domain.Session)
	return s
}

func SetSessionCookie(c echo.Context, cfg CookieConfig, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(c echo.Context, cfg CookieConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
