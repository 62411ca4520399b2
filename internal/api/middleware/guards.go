package middleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/metrics"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// GuardsConfig wires the access guards.
type GuardsConfig struct {
	Routes   *routes.Table
	Sessions ports.SessionStore
	Audit    ports.SecurityRecorder // optional
	Cookie   CookieConfig
	// FailClosed answers 404 when a request cannot be checked (unknown route
	// or session store failure) instead of letting it through.
	FailClosed bool
	Log        zerolog.Logger
}

// Guards enforces the role policy per route (RoleRequired and friends) and
// for every request (RoleBasedAccess, SessionSecurity, NoCache).
type Guards struct {
	routes     *routes.Table
	sessions   ports.SessionStore
	audit      ports.SecurityRecorder
	cookie     CookieConfig
	failClosed bool
	log        zerolog.Logger
}

func NewGuards(cfg GuardsConfig) *Guards {
	return &Guards{
		routes:     cfg.Routes,
		sessions:   cfg.Sessions,
		audit:      cfg.Audit,
		cookie:     cfg.Cookie,
		failClosed: cfg.FailClosed,
		log:        cfg.Log,
	}
}

// LoginRequired sends anonymous callers to the login page.
func (g *Guards) LoginRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return g.loginGate(c)
			}
			return next(c)
		}
	}
}

// RoleRequired runs the handler only for callers whose resolved role is one of
// roles. Anonymous callers go to login; others are redirected to their own
// dashboard with an error notification.
func (g *Guards) RoleRequired(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(roles...)
	msg := access.DeniedMessage(allowed)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return g.loginGate(c)
			}
			role := access.Resolve(user)
			if access.Check(role, allowed) == access.Allow {
				return next(c)
			}
			return g.deny(c, "guard", user, role, msg, access.FallbackRoute(role))
		}
	}
}

func (g *Guards) AdminRequired() echo.MiddlewareFunc {
	return g.RoleRequired(domain.RoleAdmin)
}

func (g *Guards) CustomerRequired() echo.MiddlewareFunc {
	return g.RoleRequired(domain.RoleCustomer)
}

func (g *Guards) SalonOwnerRequired() echo.MiddlewareFunc {
	return g.RoleRequired(domain.RoleSalonOwner)
}

// BusinessUserRequired admits admins and salon owners.
func (g *Guards) BusinessUserRequired() echo.MiddlewareFunc {
	return g.RoleRequired(domain.RoleAdmin, domain.RoleSalonOwner)
}

// RoleBasedAccess applies the namespace zones to every authenticated request.
// Unnamed routes are outside every zone. Unknown routes pass through unless
// the guards fail closed.
func (g *Guards) RoleBasedAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return next(c)
			}
			name, ok := g.routes.Resolve(c.Request().Method, c.Path())
			if !ok {
				if g.failClosed {
					metrics.AccessErrorsTotal.WithLabelValues("closed").Inc()
					return echo.ErrNotFound
				}
				return next(c)
			}

			role := access.Resolve(user)
			verdict := access.EvaluateRoute(role, name)
			if verdict.Decision == access.Allow {
				return next(c)
			}
			return g.deny(c, "zone", user, role, verdict.Message, verdict.Redirect)
		}
	}
}

// NoCache stamps cache-disabling headers on every response of a sensitive
// route, redirects included.
func (g *Guards) NoCache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if name, ok := g.routes.Resolve(c.Request().Method, c.Path()); ok && access.IsSensitive(name) {
				res := c.Response()
				res.Before(func() {
					h := res.Header()
					h.Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate, max-age=0")
					h.Set("Pragma", "no-cache")
					h.Set("Expires", "0")
				})
			}
			return next(c)
		}
	}
}

// SessionSecurity ends a session whose recorded role no longer matches the
// role of its user.
func (g *Guards) SessionSecurity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, session := CurrentUser(c), CurrentSession(c)
			if user == nil || session == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			role := access.Resolve(user)
			check, stored, err := access.VerifySessionRole(ctx, g.sessions, session.ID, role)
			if err != nil {
				return g.accessError(c, next, err)
			}
			if check != access.SessionMismatch {
				return next(c)
			}

			if err := g.sessions.Delete(ctx, session.ID); err != nil {
				g.log.Error().Err(err).Str("session_id", session.ID).Msg("failed to end session after role mismatch")
			}
			ClearSessionCookie(c, g.cookie)
			SetIdentity(c, nil, nil)

			metrics.SessionRoleMismatchTotal.Inc()
			g.log.Warn().
				Str("user_id", user.ID).
				Str("stored_role", stored.String()).
				Str("current_role", role.String()).
				Msg("session role mismatch, forcing logout")
			g.record(domain.SecurityEvent{
				Kind:      domain.EventSessionRoleMismatch,
				UserID:    user.ID,
				SessionID: session.ID,
				Role:      role.String(),
				Route:     g.routeName(c),
				Detail:    "stored=" + stored.String(),
			})

			flash.Add(c, flash.Warning, access.MsgSessionCheckFailed)
			return c.Redirect(http.StatusFound, g.routes.Reverse(access.RouteLogin))
		}
	}
}

func (g *Guards) loginGate(c echo.Context) error {
	metrics.AccessDeniedTotal.WithLabelValues("login", access.Namespace(g.routeName(c))).Inc()
	target := g.routes.Reverse(access.RouteLogin) + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
	return c.Redirect(http.StatusFound, target)
}

func (g *Guards) deny(c echo.Context, layer string, user *domain.User, role domain.Role, msg, redirect string) error {
	route := g.routeName(c)
	metrics.AccessDeniedTotal.WithLabelValues(layer, access.Namespace(route)).Inc()

	ev := domain.SecurityEvent{
		Kind:   domain.EventAccessDenied,
		UserID: user.ID,
		Role:   role.String(),
		Route:  route,
		Detail: layer,
	}
	if s := CurrentSession(c); s != nil {
		ev.SessionID = s.ID
	}
	g.record(ev)

	flash.Add(c, flash.Error, msg)
	return c.Redirect(http.StatusFound, g.routes.Reverse(redirect))
}

func (g *Guards) accessError(c echo.Context, next echo.HandlerFunc, err error) error {
	mode := "open"
	if g.failClosed {
		mode = "closed"
	}
	metrics.AccessErrorsTotal.WithLabelValues(mode).Inc()
	g.log.Error().Err(err).Str("path", c.Path()).Str("mode", mode).Msg("access check failed")
	if g.failClosed {
		return echo.ErrNotFound
	}
	return next(c)
}

func (g *Guards) routeName(c echo.Context) string {
	name, _ := g.routes.Resolve(c.Request().Method, c.Path())
	return name
}

func (g *Guards) record(ev domain.SecurityEvent) {
	if g.audit == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()
	g.audit.Record(ev)
}
