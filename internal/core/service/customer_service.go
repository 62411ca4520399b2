package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

const dashboardListSize = 5

// CustomerService serves the customer dashboard pages.
type CustomerService struct {
	bookings      ports.BookingRepository
	reviews       ports.ReviewRepository
	notifications ports.NotificationRepository
	log           zerolog.Logger
	now           func() time.Time
}

func NewCustomerService(
	bookings ports.BookingRepository,
	reviews ports.ReviewRepository,
	notifications ports.NotificationRepository,
	log zerolog.Logger,
) *CustomerService {
	return &CustomerService{
		bookings:      bookings,
		reviews:       reviews,
		notifications: notifications,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *CustomerService) Dashboard(ctx context.Context, customerID string) (*ports.CustomerDashboard, error) {
	upcoming, err := s.bookings.List(ctx, ports.BookingFilter{
		CustomerID: customerID,
		Statuses:   []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
		DateFrom:   startOfDay(s.now()),
		Sort:       ports.SortAppointmentAsc,
		Limit:      dashboardListSize,
	})
	if err != nil {
		return nil, fmt.Errorf("upcoming bookings: %w", err)
	}

	recent, err := s.bookings.List(ctx, ports.BookingFilter{
		CustomerID: customerID,
		Sort:       ports.SortNewest,
		Limit:      dashboardListSize,
	})
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}

	total, err := s.bookings.Count(ctx, ports.BookingFilter{CustomerID: customerID})
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	pending, err := s.bookings.Count(ctx, ports.BookingFilter{
		CustomerID: customerID,
		Statuses:   []domain.BookingStatus{domain.BookingPending},
	})
	if err != nil {
		return nil, fmt.Errorf("count pending bookings: %w", err)
	}

	return &ports.CustomerDashboard{
		UpcomingBookings: upcoming,
		RecentBookings:   recent,
		TotalBookings:    total,
		PendingBookings:  pending,
	}, nil
}

func (s *CustomerService) Bookings(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	return s.bookings.List(ctx, ports.BookingFilter{
		CustomerID: customerID,
		Sort:       ports.SortAppointmentDesc,
	})
}

func (s *CustomerService) Booking(ctx context.Context, customerID, bookingID string) (*domain.Booking, error) {
	return s.bookings.FindByID(ctx, bookingID, ports.BookingFilter{CustomerID: customerID})
}

func (s *CustomerService) CancelBooking(ctx context.Context, customerID, bookingID string) (*domain.Booking, error) {
	return changeBookingStatus(ctx, s.bookings, bookingID, ports.BookingFilter{CustomerID: customerID}, domain.BookingCancelled, s.now())
}

func (s *CustomerService) Reviews(ctx context.Context, customerID string) ([]*domain.Review, error) {
	return s.reviews.ListByCustomer(ctx, customerID)
}

func (s *CustomerService) Notifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	items, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to mark notifications read")
	}
	return items, nil
}

// changeBookingStatus applies a status transition to a booking visible
// within scope.
func changeBookingStatus(
	ctx context.Context,
	bookings ports.BookingRepository,
	bookingID string,
	scope ports.BookingFilter,
	next domain.BookingStatus,
	now time.Time,
) (*domain.Booking, error) {
	b, err := bookings.FindByID(ctx, bookingID, scope)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, b.Status, next)
	}
	if err := bookings.UpdateStatus(ctx, b.ID, next); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	b.Status = next
	b.UpdatedAt = now
	return b, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
