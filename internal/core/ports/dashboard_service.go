package ports

import (
	"context"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// CustomerDashboard is the customer landing page.
type CustomerDashboard struct {
	UpcomingBookings []*domain.Booking
	RecentBookings   []*domain.Booking
	TotalBookings    int64
	PendingBookings  int64
}

// CustomerService backs the customer namespace.
type CustomerService interface {
	Dashboard(ctx context.Context, customerID string) (*CustomerDashboard, error)
	Bookings(ctx context.Context, customerID string) ([]*domain.Booking, error)
	Booking(ctx context.Context, customerID, bookingID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, customerID, bookingID string) (*domain.Booking, error)
	Reviews(ctx context.Context, customerID string) ([]*domain.Review, error)
	// Notifications lists the user's notifications and marks them read.
	Notifications(ctx context.Context, userID string) ([]*domain.Notification, error)
}

// SalonOwnerDashboard is the salon owner landing page.
type SalonOwnerDashboard struct {
	Salons          []*domain.Salon
	TotalBookings   int64
	PendingBookings int64
	TodayBookings   int64
	RecentBookings  []*domain.Booking
}

// SalonInput carries the editable fields of a salon listing.
type SalonInput struct {
	Name        string
	Description string
	Address     string
	City        string
	Phone       string
	Email       string
}

// SalonOwnerService backs the salon_owner namespace.
type SalonOwnerService interface {
	Dashboard(ctx context.Context, ownerID string) (*SalonOwnerDashboard, error)
	Salons(ctx context.Context, ownerID string) ([]*domain.Salon, error)
	Salon(ctx context.Context, ownerID, salonID string) (*domain.Salon, error)
	CreateSalon(ctx context.Context, ownerID string, in SalonInput) (*domain.Salon, error)
	UpdateSalon(ctx context.Context, ownerID, salonID string, in SalonInput) (*domain.Salon, error)
	Bookings(ctx context.Context, ownerID string) ([]*domain.Booking, error)
	Booking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)
}

// AdminDashboard is the admin landing page.
type AdminDashboard struct {
	TotalUsers    int64
	TotalSalons   int64
	PendingSalons int64
	TotalBookings int64
	RecentSalons  []*domain.Salon
	RecentUsers   []*domain.User
}

// AdminService backs the user_admin namespace.
type AdminService interface {
	Dashboard(ctx context.Context) (*AdminDashboard, error)
	Salons(ctx context.Context) ([]*domain.Salon, error)
	SetSalonStatus(ctx context.Context, salonID string, status domain.SalonStatus) (*domain.Salon, error)
	Bookings(ctx context.Context) ([]*domain.Booking, error)
}
