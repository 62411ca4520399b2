package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// SalonOwnerService serves the salon owner dashboard pages.
type SalonOwnerService struct {
	salons   ports.SalonRepository
	bookings ports.BookingRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewSalonOwnerService(salons ports.SalonRepository, bookings ports.BookingRepository, log zerolog.Logger) *SalonOwnerService {
	return &SalonOwnerService{
		salons:   salons,
		bookings: bookings,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *SalonOwnerService) Dashboard(ctx context.Context, ownerID string) (*ports.SalonOwnerDashboard, error) {
	salons, err := s.salons.List(ctx, ports.SalonFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("list salons: %w", err)
	}

	scope := ports.BookingFilter{SalonOwnerID: ownerID}
	total, err := s.bookings.Count(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	pendingScope := scope
	pendingScope.Statuses = []domain.BookingStatus{domain.BookingPending}
	pending, err := s.bookings.Count(ctx, pendingScope)
	if err != nil {
		return nil, fmt.Errorf("count pending bookings: %w", err)
	}

	today := startOfDay(s.now())
	todayScope := scope
	todayScope.DateFrom = today
	todayScope.DateTo = today.AddDate(0, 0, 1)
	todayCount, err := s.bookings.Count(ctx, todayScope)
	if err != nil {
		return nil, fmt.Errorf("count today's bookings: %w", err)
	}

	recentScope := scope
	recentScope.Sort = ports.SortNewest
	recentScope.Limit = dashboardListSize
	recent, err := s.bookings.List(ctx, recentScope)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}

	return &ports.SalonOwnerDashboard{
		Salons:          salons,
		TotalBookings:   total,
		PendingBookings: pending,
		TodayBookings:   todayCount,
		RecentBookings:  recent,
	}, nil
}

func (s *SalonOwnerService) Salons(ctx context.Context, ownerID string) ([]*domain.Salon, error) {
	return s.salons.List(ctx, ports.SalonFilter{OwnerID: ownerID})
}

// Salon returns a salon only to its owner.
func (s *SalonOwnerService) Salon(ctx context.Context, ownerID, salonID string) (*domain.Salon, error) {
	salon, err := s.salons.FindByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if salon.OwnerID != ownerID {
		return nil, domain.ErrSalonNotFound
	}
	return salon, nil
}

// CreateSalon lists a new salon awaiting admin review.
func (s *SalonOwnerService) CreateSalon(ctx context.Context, ownerID string, in ports.SalonInput) (*domain.Salon, error) {
	now := s.now()
	salon := &domain.Salon{OwnerID: ownerID, Status: domain.SalonPending, CreatedAt: now}
	applySalonInput(salon, in, now)

	created, err := s.salons.Create(ctx, salon)
	if err != nil {
		return nil, fmt.Errorf("create salon: %w", err)
	}
	s.log.Info().Str("owner_id", ownerID).Str("salon_id", created.ID).Msg("salon submitted for review")
	return created, nil
}

func (s *SalonOwnerService) UpdateSalon(ctx context.Context, ownerID, salonID string, in ports.SalonInput) (*domain.Salon, error) {
	salon, err := s.Salon(ctx, ownerID, salonID)
	if err != nil {
		return nil, err
	}
	applySalonInput(salon, in, s.now())
	if err := s.salons.Update(ctx, salon); err != nil {
		return nil, fmt.Errorf("update salon: %w", err)
	}
	return salon, nil
}

func (s *SalonOwnerService) Bookings(ctx context.Context, ownerID string) ([]*domain.Booking, error) {
	return s.bookings.List(ctx, ports.BookingFilter{
		SalonOwnerID: ownerID,
		Sort:         ports.SortAppointmentDesc,
	})
}

func (s *SalonOwnerService) Booking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return s.bookings.FindByID(ctx, bookingID, ports.BookingFilter{SalonOwnerID: ownerID})
}

func (s *SalonOwnerService) ApproveBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return changeBookingStatus(ctx, s.bookings, bookingID, ports.BookingFilter{SalonOwnerID: ownerID}, domain.BookingConfirmed, s.now())
}

func (s *SalonOwnerService) CancelBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return changeBookingStatus(ctx, s.bookings, bookingID, ports.BookingFilter{SalonOwnerID: ownerID}, domain.BookingCancelled, s.now())
}

func applySalonInput(salon *domain.Salon, in ports.SalonInput, now time.Time) {
	salon.Name = strings.TrimSpace(in.Name)
	salon.Description = strings.TrimSpace(in.Description)
	salon.Address = strings.TrimSpace(in.Address)
	salon.City = strings.TrimSpace(in.City)
	salon.Phone = strings.TrimSpace(in.Phone)
	salon.Email = strings.TrimSpace(in.Email)
	salon.UpdatedAt = now
}
