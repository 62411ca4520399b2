package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type recorder struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (r *recorder) Record(ev domain.SecurityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type failingStore struct {
	*memory.SessionStore
}

func (s failingStore) RoleMarker(context.Context, string) (domain.Role, bool, error) {
	return domain.RoleNone, false, errors.New("redis down")
}

type testServer struct {
	e        *echo.Echo
	store    ports.SessionStore
	audit    *recorder
	user     *domain.User
	session  *domain.Session
	guards   *Guards
	routeTbl *routes.Table
}

func newTestServer(t *testing.T, store ports.SessionStore, failClosed bool) *testServer {
	t.Helper()
	if store == nil {
		store = memory.NewSessionStore()
	}
	ts := &testServer{e: echo.New(), store: store, audit: &recorder{}, routeTbl: routes.NewTable()}
	ts.guards = NewGuards(GuardsConfig{
		Routes:     ts.routeTbl,
		Sessions:   store,
		Audit:      ts.audit,
		Cookie:     CookieConfig{Name: "sessionid"},
		FailClosed: failClosed,
		Log:        zerolog.Nop(),
	})

	e := ts.e
	e.Use(ts.guards.NoCache())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ts.user != nil {
				SetIdentity(c, ts.user, ts.session)
			}
			return next(c)
		}
	})
	e.Use(ts.guards.SessionSecurity())
	e.Use(ts.guards.RoleBasedAccess())

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/", ok).Name = access.RouteHome
	e.GET("/accounts/login/", ok).Name = access.RouteLogin
	e.GET("/accounts/messages/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, flash.Pop(c))
	}).Name = access.RouteMessages
	e.GET("/customer/dashboard/", ok).Name = access.RouteCustomerDashboard
	e.GET("/customer/bookings/", ok).Name = access.RouteCustomerBookings
	e.GET("/salon-owner/dashboard/", ok).Name = access.RouteSalonOwnerDashboard
	e.GET("/reports/", ok, ts.guards.BusinessUserRequired())
	e.GET("/user-admin/dashboard/", ok).Name = access.RouteAdminDashboard
	e.GET("/user-admin/users/", ok, ts.guards.AdminRequired()).Name = access.RouteAdminUsers
	e.GET("/health", ok)
	ts.routeTbl.Load(e.Routes())
	return ts
}

// login attaches user to every following request with a fresh session.
func (ts *testServer) login(t *testing.T, user *domain.User) {
	t.Helper()
	now := time.Now()
	ts.user = user
	ts.session = &domain.Session{ID: "sess-" + user.ID, UserID: user.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := ts.store.Create(context.Background(), ts.session); err != nil {
		t.Fatalf("create session: %v", err)
	}
}

func (ts *testServer) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

// flashes follows a response's cookies to the messages page.
func (ts *testServer) flashes(t *testing.T, rec *httptest.ResponseRecorder) []flash.Message {
	t.Helper()
	var flashCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flash.CookieName {
			flashCookie = ck
		}
	}
	if flashCookie == nil {
		return nil
	}
	user := ts.user
	ts.user = nil
	defer func() { ts.user = user }()

	out := ts.get("/accounts/messages/", flashCookie)
	var msgs []flash.Message
	if err := json.Unmarshal(out.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	return msgs
}

func customer() *domain.User   { return &domain.User{ID: "c1", Role: domain.RoleCustomer, IsActive: true} }
func salonOwner() *domain.User { return &domain.User{ID: "o1", Role: domain.RoleSalonOwner, IsActive: true} }
func admin() *domain.User      { return &domain.User{ID: "a1", Role: domain.RoleAdmin, IsActive: true} }

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

// ---------------------------------------------------------------------------
// Zones
// ---------------------------------------------------------------------------

func TestRoleBasedAccess_CustomerDeniedAdminZone(t *testing.T) {
	ts := newTestServer(t, nil, false)
	ts.login(t, customer())

	rec := ts.get("/user-admin/dashboard/")
	assertRedirect(t, rec, "/customer/dashboard/")

	msgs := ts.flashes(t, rec)
	if len(msgs) != 1 || msgs[0].Level != flash.Error || msgs[0].Text != access.MsgAdminRequired {
		t.Fatalf("unexpected notifications: %+v", msgs)
	}
	if got := rec.Header().Get(echo.HeaderCacheControl); got != "no-cache, no-store, must-revalidate, max-age=0" {
		t.Fatalf("expected no-cache headers on the redirect, got %q", got)
	}
	if len(ts.audit.events) != 1 || ts.audit.events[0].Kind != domain.EventAccessDenied || ts.audit.events[0].Route != access.RouteAdminDashboard {
		t.Fatalf("unexpected audit events: %+v", ts.audit.events)
	}
}

func TestRoleBasedAccess_SalonOwnerDeniedCustomerZone(t *testing.T) {
	ts := newTestServer(t, nil, false)
	ts.login(t, salonOwner())

	rec := ts.get("/customer/bookings/")
	assertRedirect(t, rec, "/salon-owner/dashboard/")

	msgs := ts.flashes(t, rec)
	if len(msgs) != 1 || msgs[0].Text != access.MsgCustomerRequired {
		t.Fatalf("unexpected notifications: %+v", msgs)
	}
}

func TestRoleBasedAccess_AllowsOwnZone(t *testing.T) {
	ts := newTestServer(t, nil, false)

	cases := []struct {
		user *domain.User
		path string
	}{
		{admin(), "/user-admin/dashboard/"},
		{customer(), "/customer/bookings/"},
		{salonOwner(), "/salon-owner/dashboard/"},
		{&domain.User{ID: "su", Role: domain.RoleCustomer, IsSuperuser: true}, "/user-admin/dashboard/"},
	}
	for _, tc := range cases {
		ts.login(t, tc.user)
		if rec := ts.get(tc.path); rec.Code != http.StatusOK {
			t.Fatalf("%s on %s: expected 200, got %d", tc.user.ID, tc.path, rec.Code)
		}
	}
}

func TestRoleBasedAccess_AnonymousSkipsZones(t *testing.T) {
	ts := newTestServer(t, nil, false)

	if rec := ts.get("/customer/dashboard/"); rec.Code != http.StatusOK {
		t.Fatalf("expected the pipeline to leave anonymous requests alone, got %d", rec.Code)
	}
}

func TestRoleBasedAccess_UnnamedRoutePassesUntouched(t *testing.T) {
	ts := newTestServer(t, nil, true)
	ts.login(t, customer())

	rec := ts.get("/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderCacheControl) != "" {
		t.Fatal("expected no cache headers on an unnamed route")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("expected no notification on an unnamed route")
	}
}

func TestRoleBasedAccess_UnresolvableRoute(t *testing.T) {
	cases := []struct {
		name       string
		method     string
		path       string
		failClosed bool
		wantCode   int
	}{
		{"unregistered path, fail-open", http.MethodGet, "/static/app.css", false, http.StatusNotFound},
		{"unregistered path, fail-closed", http.MethodGet, "/static/app.css", true, http.StatusNotFound},
		// The router answers 405 itself; failing closed turns that into 404.
		{"wrong method on a named route, fail-open", http.MethodPost, "/customer/dashboard/", false, http.StatusMethodNotAllowed},
		{"wrong method on a named route, fail-closed", http.MethodPost, "/customer/dashboard/", true, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil, tc.failClosed)
			ts.login(t, customer())

			rec := httptest.NewRecorder()
			ts.e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if loc := rec.Header().Get(echo.HeaderLocation); loc != "" {
				t.Fatalf("expected no redirect, got %q", loc)
			}
			if cc := rec.Header().Get(echo.HeaderCacheControl); cc != "" {
				t.Fatalf("expected no cache headers, got %q", cc)
			}
			for _, ck := range rec.Result().Cookies() {
				if ck.Name == flash.CookieName {
					t.Fatal("expected no notification")
				}
			}
			if len(ts.audit.events) != 0 {
				t.Fatalf("expected no audit events, got %+v", ts.audit.events)
			}
		})
	}
}

func TestRoleBasedAccess_Idempotent(t *testing.T) {
	ts := newTestServer(t, nil, false)
	mw := ts.guards.RoleBasedAccess()

	for _, user := range []*domain.User{customer(), admin()} {
		run := func(wrap int) (int, string) {
			req := httptest.NewRequest(http.MethodGet, "/user-admin/dashboard/", nil)
			rec := httptest.NewRecorder()
			c := ts.e.NewContext(req, rec)
			c.SetPath("/user-admin/dashboard/")
			SetIdentity(c, user, nil)

			h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			for i := 0; i < wrap; i++ {
				h = mw(h)
			}
			_ = h(c)
			return rec.Code, rec.Header().Get(echo.HeaderLocation)
		}

		code1, loc1 := run(1)
		code2, loc2 := run(2)
		if code1 != code2 || loc1 != loc2 {
			t.Fatalf("%s: single pass (%d %s) differs from double pass (%d %s)", user.ID, code1, loc1, code2, loc2)
		}
	}
}

// ---------------------------------------------------------------------------
// Route guards
// ---------------------------------------------------------------------------

func TestRoleRequired_AnonymousGoesToLogin(t *testing.T) {
	ts := newTestServer(t, nil, false)

	rec := ts.get("/user-admin/users/?page=2")
	assertRedirect(t, rec, "/accounts/login/?next=%2Fuser-admin%2Fusers%2F%3Fpage%3D2")
}

func TestRoleRequired_DeniedByGuardOutsideZone(t *testing.T) {
	ts := newTestServer(t, nil, false)
	ts.login(t, customer())

	rec := ts.get("/reports/")
	assertRedirect(t, rec, "/customer/dashboard/")

	msgs := ts.flashes(t, rec)
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "admin") || !strings.Contains(msgs[0].Text, "salon owner") {
		t.Fatalf("expected the business-user message, got %+v", msgs)
	}
}

func TestRoleRequired_AllowsMember(t *testing.T) {
	ts := newTestServer(t, nil, false)
	ts.login(t, admin())

	if rec := ts.get("/user-admin/users/"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoginRequired(t *testing.T) {
	ts := newTestServer(t, nil, false)
	h := ts.guards.LoginRequired()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/accounts/profile/", nil)
	rec := httptest.NewRecorder()
	_ = h(ts.e.NewContext(req, rec))
	assertRedirect(t, rec, "/accounts/login/?next=%2Faccounts%2Fprofile%2F")

	rec = httptest.NewRecorder()
	c := ts.e.NewContext(req, rec)
	SetIdentity(c, customer(), nil)
	_ = h(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an authenticated caller, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Session security
// ---------------------------------------------------------------------------

func TestSessionSecurity_RoleChangeForcesLogout(t *testing.T) {
	ts := newTestServer(t, nil, false)
	user := customer()
	ts.login(t, user)
	sessionID := ts.session.ID

	if rec := ts.get("/customer/dashboard/"); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	role, marked, _ := ts.store.RoleMarker(context.Background(), sessionID)
	if !marked || role != domain.RoleCustomer {
		t.Fatalf("expected customer marker, got %v %v", role, marked)
	}

	// Out-of-band role change.
	user.Role = domain.RoleSalonOwner

	rec := ts.get("/salon-owner/dashboard/")
	assertRedirect(t, rec, "/accounts/login/")

	if _, err := ts.store.Get(context.Background(), sessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session terminated, got %v", err)
	}
	msgs := ts.flashes(t, rec)
	if len(msgs) != 1 || msgs[0].Level != flash.Warning || msgs[0].Text != access.MsgSessionCheckFailed {
		t.Fatalf("unexpected notifications: %+v", msgs)
	}

	cleared := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "sessionid" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the session cookie to be cleared")
	}
}

func TestSessionSecurity_StoreFailure(t *testing.T) {
	store := failingStore{memory.NewSessionStore()}

	open := newTestServer(t, store, false)
	open.login(t, customer())
	if rec := open.get("/customer/dashboard/"); rec.Code != http.StatusOK {
		t.Fatalf("fail-open: expected 200, got %d", rec.Code)
	}

	closed := newTestServer(t, store, true)
	closed.login(t, customer())
	if rec := closed.get("/customer/dashboard/"); rec.Code != http.StatusNotFound {
		t.Fatalf("fail-closed: expected 404, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Cache headers
// ---------------------------------------------------------------------------

func TestNoCache_SensitiveNamespacesOnly(t *testing.T) {
	ts := newTestServer(t, nil, false)

	rec := ts.get("/accounts/login/")
	if rec.Header().Get("Pragma") != "no-cache" || rec.Header().Get("Expires") != "0" {
		t.Fatalf("expected no-cache headers on accounts pages, got %v", rec.Header())
	}

	rec = ts.get("/")
	if rec.Header().Get(echo.HeaderCacheControl) != "" {
		t.Fatal("expected the home page to stay cacheable")
	}
}
