package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// AdminHandler serves the user_admin namespace.
type AdminHandler struct {
	admin    ports.AdminService
	accounts ports.AccountService
	routes   *routes.Table
}

func NewAdminHandler(admin ports.AdminService, accounts ports.AccountService, rt *routes.Table) *AdminHandler {
	return &AdminHandler{admin: admin, accounts: accounts, routes: rt}
}

// Dashboard handles GET /user-admin/dashboard/.
//
// @Summary      Admin dashboard
// @Tags         user_admin
// @Produce      json
// @Success      200  {object}  pageResponse{data=adminDashboardResponse}
// @Router       /user-admin/dashboard/ [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.admin.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "user_admin/dashboard", adminDashboardResponse{
		TotalUsers:    d.TotalUsers,
		TotalSalons:   d.TotalSalons,
		PendingSalons: d.PendingSalons,
		TotalBookings: d.TotalBookings,
		RecentSalons:  d.RecentSalons,
		RecentUsers:   d.RecentUsers,
	})
}

// Users handles GET /user-admin/users/.
//
// @Summary      List users
// @Tags         user_admin
// @Produce      json
// @Param        role  query     string  false  "customer, salon_owner or admin"
// @Param        q     query     string  false  "Partial email or name"
// @Success      200   {object}  pageResponse
// @Failure      400   {object}  errorResponse
// @Router       /user-admin/users/ [get]
func (h *AdminHandler) Users(c echo.Context) error {
	filter := ports.UserFilter{Search: c.QueryParam("q")}
	if raw := c.QueryParam("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return badRequest(c, "role must be one of: customer, salon_owner, admin")
		}
		filter.Role = role
	}

	users, err := h.accounts.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "user_admin/users", users)
}

// CreateUser shows the form on GET and creates an account of any role on POST.
//
// @Summary      Create a user
// @Tags         user_admin
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user-admin/users/create/ [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return render(c, http.StatusOK, "user_admin/create_user", domain.AllRoles)
	}

	var req createUserRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.accounts.CreateUser(c.Request().Context(), ports.RegisterInput{
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
	flash.Add(c, flash.Success, fmt.Sprintf("User %s created successfully with role: %s", user.Email, user.Role.DisplayName()))
	return redirect(c, h.routes, access.RouteAdminUsers)
}

// ToggleUserStatus handles POST /user-admin/users/:user_id/toggle-status/.
//
// @Summary      Activate or deactivate a user
// @Tags         user_admin
// @Param        user_id  path  string  true  "User id"
// @Success      302
// @Failure      404      {object}  errorResponse
// @Router       /user-admin/users/{user_id}/toggle-status/ [post]
func (h *AdminHandler) ToggleUserStatus(c echo.Context) error {
	user, err := h.accounts.ToggleActive(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	flash.Add(c, flash.Success, fmt.Sprintf("User %s has been %s.", user.Email, activeLabel(user.IsActive)))
	return redirect(c, h.routes, access.RouteAdminUsers)
}

// Salons handles GET /user-admin/salons/.
//
// @Summary      List salons
// @Tags         user_admin
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /user-admin/salons/ [get]
func (h *AdminHandler) Salons(c echo.Context) error {
	salons, err := h.admin.Salons(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "user_admin/salons", salons)
}

// ApproveSalon handles POST /user-admin/salons/:salon_id/approve/.
//
// @Summary      Approve a salon
// @Tags         user_admin
// @Param        salon_id  path  string  true  "Salon id"
// @Success      302
// @Failure      404       {object}  errorResponse
// @Router       /user-admin/salons/{salon_id}/approve/ [post]
func (h *AdminHandler) ApproveSalon(c echo.Context) error {
	return h.moderate(c, domain.SalonApproved, "approved")
}

// RejectSalon handles POST /user-admin/salons/:salon_id/reject/.
//
// @Summary      Reject a salon
// @Tags         user_admin
// @Param        salon_id  path  string  true  "Salon id"
// @Success      302
// @Failure      404       {object}  errorResponse
// @Router       /user-admin/salons/{salon_id}/reject/ [post]
func (h *AdminHandler) RejectSalon(c echo.Context) error {
	return h.moderate(c, domain.SalonRejected, "rejected")
}

func (h *AdminHandler) moderate(c echo.Context, status domain.SalonStatus, verb string) error {
	salon, err := h.admin.SetSalonStatus(c.Request().Context(), c.Param("salon_id"), status)
	if err != nil {
		return err
	}
	flash.Add(c, flash.Success, fmt.Sprintf("Salon %s has been %s.", salon.Name, verb))
	return redirect(c, h.routes, access.RouteAdminSalons)
}

// Bookings handles GET /user-admin/bookings/.
//
// @Summary      List all bookings
// @Tags         user_admin
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /user-admin/bookings/ [get]
func (h *AdminHandler) Bookings(c echo.Context) error {
	bookings, err := h.admin.Bookings(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "user_admin/bookings", bookings)
}

func (h *AdminHandler) Analytics(c echo.Context) error {
	flash.Add(c, flash.Info, "Analytics dashboard will be implemented soon.")
	return redirect(c, h.routes, access.RouteAdminDashboard)
}

func (h *AdminHandler) Settings(c echo.Context) error {
	flash.Add(c, flash.Info, "Settings management will be implemented soon.")
	return redirect(c, h.routes, access.RouteAdminDashboard)
}

func activeLabel(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
