package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// AccountHandler serves the signed-in user's own profile.
type AccountHandler struct {
	accounts ports.AccountService
	routes   *routes.Table
}

func NewAccountHandler(accounts ports.AccountService, rt *routes.Table) *AccountHandler {
	return &AccountHandler{accounts: accounts, routes: rt}
}

// Profile handles GET /accounts/profile/.
//
// @Summary      Current user's profile
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pageResponse
// @Success      302
// @Router       /accounts/profile/ [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "accounts/profile", profile)
}

// EditProfilePage handles GET /accounts/profile/edit/.
//
// @Summary      Profile edit form
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /accounts/profile/edit/ [get]
func (h *AccountHandler) EditProfilePage(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "accounts/edit_profile", profile)
}

// EditProfile updates the identity attributes and the role's profile.
//
// @Summary      Update profile
// @Tags         accounts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /accounts/profile/edit/ [post]
func (h *AccountHandler) EditProfile(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	in := ports.ProfileUpdate{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Phone:               req.Phone,
		Address:             req.Address,
		PictureURL:          req.PictureURL,
		PreferredServiceIDs: req.PreferredServiceIDs,
		BusinessLicense:     req.BusinessLicense,
		YearsOfExperience:   req.YearsOfExperience,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
		if err != nil {
			return badRequest(c, "date_of_birth must be YYYY-MM-DD")
		}
		in.DateOfBirth = &dob
	}

	if _, err := h.accounts.UpdateProfile(c.Request().Context(), user.ID, in); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, errorResponse{Error: "A user with this email already exists.", Field: "email"})
		}
		return err
	}
	flash.Add(c, flash.Success, "Profile updated successfully!")
	return redirect(c, h.routes, access.RouteProfile)
}

// Messages handles GET /accounts/messages/ and drains the queued notifications.
//
// @Summary      Pending notifications
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /accounts/messages/ [get]
func (h *AccountHandler) Messages(c echo.Context) error {
	return render(c, http.StatusOK, "accounts/messages", nil)
}
