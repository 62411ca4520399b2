package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookmystyle/user-accounts/internal/api/flash"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// CustomerHandler serves the customer namespace.
type CustomerHandler struct {
	service ports.CustomerService
	routes  *routes.Table
}

func NewCustomerHandler(service ports.CustomerService, rt *routes.Table) *CustomerHandler {
	return &CustomerHandler{service: service, routes: rt}
}

// Dashboard handles GET /customer/dashboard/.
//
// @Summary      Customer dashboard
// @Tags         customer
// @Produce      json
// @Success      200  {object}  pageResponse{data=customerDashboardResponse}
// @Router       /customer/dashboard/ [get]
func (h *CustomerHandler) Dashboard(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	d, err := h.service.Dashboard(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "customer/dashboard", customerDashboardResponse{
		Upcoming: d.UpcomingBookings,
		Recent:   d.RecentBookings,
		Bookings: dashboardCounts{Total: d.TotalBookings, Pending: d.PendingBookings},
	})
}

// Bookings handles GET /customer/bookings/.
//
// @Summary      Customer bookings
// @Tags         customer
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /customer/bookings/ [get]
func (h *CustomerHandler) Bookings(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.Bookings(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "customer/bookings", bookings)
}

// BookingDetail handles GET /customer/bookings/:booking_id/.
//
// @Summary      Customer booking detail
// @Tags         customer
// @Produce      json
// @Param        booking_id  path      string  true  "Booking id"
// @Success      200         {object}  pageResponse
// @Failure      404         {object}  errorResponse
// @Router       /customer/bookings/{booking_id}/ [get]
func (h *CustomerHandler) BookingDetail(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	b, err := h.service.Booking(c.Request().Context(), user.ID, c.Param("booking_id"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "customer/booking_detail", b)
}

// CancelBooking shows the confirmation page on GET and cancels on POST.
//
// @Summary      Cancel a booking
// @Tags         customer
// @Produce      json
// @Param        booking_id  path      string  true  "Booking id"
// @Success      302
// @Failure      404         {object}  errorResponse
// @Router       /customer/bookings/{booking_id}/cancel/ [post]
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
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
		return render(c, http.StatusOK, "customer/cancel_booking", b)
	}

	if _, err := h.service.CancelBooking(ctx, user.ID, bookingID); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			flash.Add(c, flash.Error, "This booking can no longer be cancelled.")
			return redirect(c, h.routes, access.RouteCustomerBookings)
		}
		return err
	}
	flash.Add(c, flash.Success, "Booking cancelled successfully.")
	return redirect(c, h.routes, access.RouteCustomerBookings)
}

// Reviews handles GET /customer/reviews/.
//
// @Summary      Customer reviews
// @Tags         customer
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /customer/reviews/ [get]
func (h *CustomerHandler) Reviews(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	reviews, err := h.service.Reviews(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "customer/reviews", reviews)
}

// Notifications handles GET /customer/notifications/. Listing marks them read.
//
// @Summary      Customer notifications
// @Tags         customer
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /customer/notifications/ [get]
func (h *CustomerHandler) Notifications(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return err
	}
	items, err := h.service.Notifications(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "customer/notifications", items)
}
