package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookmystyle/user-accounts/internal/api/middleware"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// viewer returns the authenticated user attached by the Authenticate
// middleware. Handlers behind a guard always have one; a missing identity
// means the route was registered without its guard, so fail fast with 401.
func viewer(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}
