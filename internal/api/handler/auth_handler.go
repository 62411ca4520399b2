package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/metrics"
	"github.com/bookmystyle/user-accounts/internal/api/middleware"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

const (
	msgInvalidLogin      = "Invalid email or password."
	msgInvalidAdminLogin = "Invalid admin credentials. Please check your email and password."
	msgAdminPortalOnly   = "Access denied. Only administrators can access this portal."
	msgNotAdminPortal    = "Access denied. This is the admin login portal."
	msgLoggedOut         = "You have been logged out successfully."
)

// AuthHandler serves login, logout and self-registration.
type AuthHandler struct {
	authService ports.AuthService
	routes      *routes.Table
	cookie      middleware.CookieConfig
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, rt *routes.Table, cookie middleware.CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, routes: rt, cookie: cookie, log: log}
}

// LoginPage handles GET /accounts/login/.
//
// @Summary      Login page
// @Tags         accounts
// @Produce      json
// @Param        next  query     string  false  "Local path to continue to after login"
// @Success      200   {object}  pageResponse
// @Success      302
// @Router       /accounts/login/ [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		return redirectHome(c, h.routes, user)
	}
	return render(c, http.StatusOK, "accounts/login", map[string]string{"next": c.QueryParam("next")})
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  pageResponse
// @Router       /accounts/login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		return redirectHome(c, h.routes, user)
	}

	var req loginRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}
	if req.Next == "" {
		req.Next = c.QueryParam("next")
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			flash.Add(c, flash.Error, msgInvalidLogin)
			return render(c, http.StatusUnauthorized, "accounts/login", map[string]string{"next": req.Next})
		}
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	flash.Add(c, flash.Success, fmt.Sprintf("Welcome back, %s!", user.Greeting()))

	if next := localPath(req.Next); next != "" {
		return c.Redirect(http.StatusFound, next)
	}
	return redirectHome(c, h.routes, user)
}

// AdminLoginPage handles GET /accounts/admin_portal/.
//
// @Summary      Admin login page
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pageResponse
// @Success      302
// @Router       /accounts/admin_portal/ [get]
func (h *AuthHandler) AdminLoginPage(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		return h.adminPortalRedirect(c, user)
	}
	return render(c, http.StatusOK, "accounts/admin_login", nil)
}

// AdminLogin authenticates administrators only.
//
// @Summary      Admin login
// @Tags         accounts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  pageResponse
// @Failure      403   {object}  pageResponse
// @Router       /accounts/admin_portal/ [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		return h.adminPortalRedirect(c, user)
	}

	var req loginRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			flash.Add(c, flash.Error, msgInvalidAdminLogin)
			return render(c, http.StatusUnauthorized, "accounts/admin_login", nil)
		}
		return err
	}
	if access.Resolve(user) != domain.RoleAdmin {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		h.log.Warn().Str("user_id", user.ID).Msg("non-admin attempted admin portal login")
		flash.Add(c, flash.Error, msgAdminPortalOnly)
		return render(c, http.StatusForbidden, "accounts/admin_login", nil)
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	flash.Add(c, flash.Success, fmt.Sprintf("Welcome to Admin Panel, %s!", user.Greeting()))
	return redirect(c, h.routes, access.RouteAdminDashboard)
}

// Logout ends the current session.
//
// @Summary      Logout
// @Tags         accounts
// @Success      302
// @Router       /accounts/logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if s := middleware.CurrentSession(c); s != nil {
		if err := h.authService.Logout(c.Request().Context(), s.ID); err != nil {
			h.log.Error().Err(err).Str("session_id", s.ID).Msg("logout failed")
		}
	}
	middleware.ClearSessionCookie(c, h.cookie)
	middleware.SetIdentity(c, nil, nil)
	flash.Add(c, flash.Info, msgLoggedOut)
	return redirect(c, h.routes, access.RouteHome)
}

// RegisterChoice handles GET /accounts/register/.
//
// @Summary      Choose an account type
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /accounts/register/ [get]
func (h *AuthHandler) RegisterChoice(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		return redirectHome(c, h.routes, user)
	}
	return render(c, http.StatusOK, "accounts/register_choice", map[string]string{
		domain.RoleCustomer.String():   h.routes.Reverse(access.RouteCustomerRegister),
		domain.RoleSalonOwner.String(): h.routes.Reverse(access.RouteSalonOwnerRegister),
	})
}

// CustomerRegisterPage handles GET /accounts/register/customer/.
//
// @Summary      Customer registration form
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /accounts/register/customer/ [get]
func (h *AuthHandler) CustomerRegisterPage(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		return redirectHome(c, h.routes, user)
	}
	return render(c, http.StatusOK, "accounts/customer_register", nil)
}

// CustomerRegister creates a customer account and logs it in.
//
// @Summary      Register a customer
// @Tags         accounts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      registerRequest  true  "Customer registration details"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /accounts/register/customer/ [post]
func (h *AuthHandler) CustomerRegister(c echo.Context) error {
	return h.register(c, domain.RoleCustomer, "Customer account created successfully! Welcome to BookMyStyle!")
}

// SalonOwnerRegisterPage handles GET /accounts/register/salon-owner/.
//
// @Summary      Salon owner registration form
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /accounts/register/salon-owner/ [get]
func (h *AuthHandler) SalonOwnerRegisterPage(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		return redirectHome(c, h.routes, user)
	}
	return render(c, http.StatusOK, "accounts/salon_owner_register", nil)
}

// SalonOwnerRegister creates a salon owner account and logs it in.
//
// @Summary      Register a salon owner
// @Tags         accounts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      registerRequest  true  "Salon owner registration details"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /accounts/register/salon-owner/ [post]
func (h *AuthHandler) SalonOwnerRegister(c echo.Context) error {
	return h.register(c, domain.RoleSalonOwner, "Salon owner account created successfully! Welcome to BookMyStyle!")
}

func (h *AuthHandler) register(c echo.Context, role domain.Role, welcome string) error {
	if user := middleware.CurrentUser(c); user != nil {
		return redirectHome(c, h.routes, user)
	}

	var req registerRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, errorResponse{Error: "A user with this email already exists.", Field: "email"})
		}
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(role.String()).Inc()

	if err := h.startSession(c, user); err != nil {
		return err
	}
	flash.Add(c, flash.Success, welcome)
	return redirectHome(c, h.routes, user)
}

func (h *AuthHandler) startSession(c echo.Context, user *domain.User) error {
	tok, err := h.authService.StartSession(c.Request().Context(), user)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, h.cookie, tok.Token, tok.ExpiresAt)
	return nil
}

// adminPortalRedirect sends an already authenticated visitor of the admin
// portal on: admins to their dashboard, everyone else home.
func (h *AuthHandler) adminPortalRedirect(c echo.Context, user *domain.User) error {
	if access.Resolve(user) == domain.RoleAdmin {
		return redirect(c, h.routes, access.RouteAdminDashboard)
	}
	flash.Add(c, flash.Error, msgNotAdminPortal)
	return redirect(c, h.routes, access.RouteHome)
}
