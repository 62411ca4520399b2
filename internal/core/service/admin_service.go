package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// AdminService serves the platform administration pages.
type AdminService struct {
	users    ports.UserRepository
	salons   ports.SalonRepository
	bookings ports.BookingRepository
	log      zerolog.Logger
}

func NewAdminService(users ports.UserRepository, salons ports.SalonRepository, bookings ports.BookingRepository, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, salons: salons, bookings: bookings, log: log}
}

func (s *AdminService) Dashboard(ctx context.Context) (*ports.AdminDashboard, error) {
	totalUsers, err := s.users.Count(ctx, ports.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalSalons, err := s.salons.Count(ctx, ports.SalonFilter{})
	if err != nil {
		return nil, fmt.Errorf("count salons: %w", err)
	}
	pendingSalons, err := s.salons.Count(ctx, ports.SalonFilter{Status: domain.SalonPending})
	if err != nil {
		return nil, fmt.Errorf("count pending salons: %w", err)
	}
	totalBookings, err := s.bookings.Count(ctx, ports.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	recentSalons, err := s.salons.List(ctx, ports.SalonFilter{Status: domain.SalonPending, Limit: dashboardListSize})
	if err != nil {
		return nil, fmt.Errorf("recent salons: %w", err)
	}
	recentUsers, err := s.users.List(ctx, ports.UserFilter{Limit: dashboardListSize})
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}

	return &ports.AdminDashboard{
		TotalUsers:    totalUsers,
		TotalSalons:   totalSalons,
		PendingSalons: pendingSalons,
		TotalBookings: totalBookings,
		RecentSalons:  recentSalons,
		RecentUsers:   recentUsers,
	}, nil
}

func (s *AdminService) Salons(ctx context.Context) ([]*domain.Salon, error) {
	return s.salons.List(ctx, ports.SalonFilter{})
}

// SetSalonStatus approves or rejects a salon listing.
func (s *AdminService) SetSalonStatus(ctx context.Context, salonID string, status domain.SalonStatus) (*domain.Salon, error) {
	salon, err := s.salons.FindByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if err := s.salons.UpdateStatus(ctx, salon.ID, status); err != nil {
		return nil, fmt.Errorf("update salon status: %w", err)
	}
	salon.Status = status
	s.log.Info().Str("salon_id", salon.ID).Str("status", string(status)).Msg("salon moderated")
	return salon, nil
}

func (s *AdminService) Bookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookings.List(ctx, ports.BookingFilter{Sort: ports.SortNewest})
}
