package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/middleware"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// pageResponse is the JSON rendering of a page: which page, who is looking at
// it, the notifications queued for them and the page data.
type pageResponse struct {
	Page     string          `json:"page"`
	User     *domain.User    `json:"user,omitempty"`
	Messages []flash.Message `json:"messages"`
	Data     any             `json:"data,omitempty"`
}

func render(c echo.Context, status int, page string, data any) error {
	return c.JSON(status, pageResponse{
		Page:     page,
		User:     middleware.CurrentUser(c),
		Messages: flash.Pop(c),
		Data:     data,
	})
}

func redirect(c echo.Context, rt *routes.Table, name string, params ...string) error {
	return c.Redirect(http.StatusFound, rt.Reverse(name, params...))
}

// redirectHome sends user to the dashboard of their role.
func redirectHome(c echo.Context, rt *routes.Table, user *domain.User) error {
	return redirect(c, rt, access.FallbackRoute(access.Resolve(user)))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// bindForm binds and validates req, writing the 400 itself. ok is false when
// the response has been written.
func bindForm(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return false, badRequest(c, err.Error())
	}
	return true, nil
}

// localPath returns next when it is a path on this site, "" otherwise.
func localPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
