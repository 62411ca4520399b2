package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// SalonOwnerHandler serves the salon_owner namespace.
type SalonOwnerHandler struct {
	service ports.SalonOwnerService
	routes  *routes.Table
}

func NewSalonOwnerHandler(service ports.SalonOwnerService, rt *routes.Table) *SalonOwnerHandler {
	return &SalonOwnerHandler{service: service, routes: rt}
}

// Dashboard handles GET /salon-owner/dashboard/.
//
// @Summary      Salon owner dashboard
// @Tags         salon_owner
// @Produce      json
// @Success      200  {object}  pageResponse{data=salonOwnerDashboardResponse}
// @Router       /salon-owner/dashboard/ [get]
func (h *SalonOwnerHandler) Dashboard(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	d, err := h.service.Dashboard(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "salon_owner/dashboard", salonOwnerDashboardResponse{
		Salons: d.Salons,
		Recent: d.RecentBookings,
		Bookings: dashboardCounts{
			Total:   d.TotalBookings,
			Pending: d.PendingBookings,
			Today:   d.TodayBookings,
		},
	})
}

// Salons handles GET /salon-owner/salons/.
//
// @Summary      Owned salons
// @Tags         salon_owner
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /salon-owner/salons/ [get]
func (h *SalonOwnerHandler) Salons(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	salons, err := h.service.Salons(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "salon_owner/salons", salons)
}

// CreateSalon shows the form on GET and submits a listing for review on POST.
//
// @Summary      Create a salon
// @Tags         salon_owner
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      salonRequest  true  "Salon details"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Router       /salon-owner/salons/create/ [post]
func (h *SalonOwnerHandler) CreateSalon(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	if c.Request().Method != http.MethodPost {
		return render(c, http.StatusOK, "salon_owner/create_salon", nil)
	}

	var req salonRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}
	if _, err := h.service.CreateSalon(c.Request().Context(), user.ID, salonInput(req)); err != nil {
		return err
	}
	flash.Add(c, flash.Success, "Salon created successfully! It will be reviewed by our admin team.")
	return redirect(c, h.routes, access.RouteSalonOwnerSalons)
}

// EditSalon shows the form on GET and saves the listing on POST.
//
// @Summary      Edit a salon
// @Tags         salon_owner
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        salon_id  path      string        true  "Salon id"
// @Param        body      body      salonRequest  true  "Salon details"
// @Success      302
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /salon-owner/salons/{salon_id}/edit/ [post]
func (h *SalonOwnerHandler) EditSalon(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	salonID := c.Param("salon_id")

	if c.Request().Method != http.MethodPost {
		salon, err := h.service.Salon(ctx, user.ID, salonID)
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, "salon_owner/edit_salon", salon)
	}

	var req salonRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}
	if _, err := h.service.UpdateSalon(ctx, user.ID, salonID, salonInput(req)); err != nil {
		return err
	}
	flash.Add(c, flash.Success, "Salon updated successfully.")
	return redirect(c, h.routes, access.RouteSalonOwnerSalons)
}

// Bookings handles GET /salon-owner/bookings/.
//
// @Summary      Bookings at the owner's salons
// @Tags         salon_owner
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /salon-owner/bookings/ [get]
func (h *SalonOwnerHandler) Bookings(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.Bookings(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "salon_owner/bookings", bookings)
}

// ApproveBooking confirms a pending booking on POST.
//
// @Summary      Approve a booking
// @Tags         salon_owner
// @Produce      json
// @Param        booking_id  path  string  true  "Booking id"
// @Success      302
// @Failure      404         {object}  errorResponse
// @Router       /salon-owner/bookings/{booking_id}/approve/ [post]
func (h *SalonOwnerHandler) ApproveBooking(c echo.Context) error {
	return h.transition(c, "salon_owner/approve_booking", h.service.ApproveBooking,
		"Booking approved successfully.", "Only pending bookings can be approved.")
}

// CancelBooking cancels a booking at one of the owner's salons on POST.
//
// @Summary      Cancel a booking
// @Tags         salon_owner
// @Produce      json
// @Param        booking_id  path  string  true  "Booking id"
// @Success      302
// @Failure      404         {object}  errorResponse
// @Router       /salon-owner/bookings/{booking_id}/cancel/ [post]
func (h *SalonOwnerHandler) CancelBooking(c echo.Context) error {
	return h.transition(c, "salon_owner/cancel_booking", h.service.CancelBooking,
		"Booking cancelled successfully.", "This booking can no longer be cancelled.")
}

// Staff is not built yet.
func (h *SalonOwnerHandler) Staff(c echo.Context) error {
	flash.Add(c, flash.Info, "Staff management will be implemented soon.")
	return redirect(c, h.routes, access.RouteSalonOwnerDashboard)
}

// Analytics is not built yet.
func (h *SalonOwnerHandler) Analytics(c echo.Context) error {
	flash.Add(c, flash.Info, "Analytics dashboard will be implemented soon.")
	return redirect(c, h.routes, access.RouteSalonOwnerDashboard)
}

type bookingTransition func(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)

// transition renders the confirmation page on GET and applies change on POST.
func (h *SalonOwnerHandler) transition(c echo.Context, page string, change bookingTransition, done, invalid string) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	bookingID := c.Param("booking_id")

	if c.Request().Method != http.MethodPost {
		b, err := h.service.Booking(ctx, user.ID, bookingID)
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, page, b)
	}

	if _, err := change(ctx, user.ID, bookingID); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			flash.Add(c, flash.Error, invalid)
			return redirect(c, h.routes, access.RouteSalonOwnerBookings)
		}
		return err
	}
	flash.Add(c, flash.Success, done)
	return redirect(c, h.routes, access.RouteSalonOwnerBookings)
}

func salonInput(req salonRequest) ports.SalonInput {
	return ports.SalonInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Email:       req.Email,
	}
}
