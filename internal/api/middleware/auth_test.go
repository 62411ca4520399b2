package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

type stubAuthService struct {
	ports.AuthService
	tokens map[string]*domain.User
}

func (s *stubAuthService) ResolveSession(_ context.Context, token string) (*domain.User, *domain.Session, error) {
	u, ok := s.tokens[token]
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	return u, &domain.Session{ID: "s-" + token, UserID: u.ID}, nil
}

func runAuthenticate(t *testing.T, req *http.Request) (*domain.User, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	stub := &stubAuthService{tokens: map[string]*domain.User{"good": {ID: "u1", Role: domain.RoleCustomer}}}
	mw := Authenticate(stub, CookieConfig{Name: "sessionid"}, zerolog.Nop())

	var seen *domain.User
	rec := httptest.NewRecorder()
	err := mw(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})(e.NewContext(req, rec))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return seen, rec
}

func TestAuthenticate_Cookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: "good"})

	user, _ := runAuthenticate(t, req)
	if user == nil || user.ID != "u1" {
		t.Fatalf("expected u1 attached, got %+v", user)
	}
}

func TestAuthenticate_BearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")

	user, _ := runAuthenticate(t, req)
	if user == nil {
		t.Fatal("expected bearer token to authenticate")
	}
}

func TestAuthenticate_StaleCookieIsCleared(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: "expired"})

	user, rec := runAuthenticate(t, req)
	if user != nil {
		t.Fatalf("expected anonymous request, got %+v", user)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to continue, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected the stale cookie to be cleared, got %+v", cookies)
	}
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	user, rec := runAuthenticate(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if user != nil || len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected untouched anonymous request")
	}
}
