package ports

import (
	"context"
	"time"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// BookingSort selects the ordering of a booking listing.
type BookingSort int

const (
	// SortNewest orders by created_at descending.
	SortNewest BookingSort = iota
	// SortAppointmentAsc orders by appointment date and time ascending.
	SortAppointmentAsc
	// SortAppointmentDesc orders by appointment date and time descending.
	SortAppointmentDesc
)

// BookingFilter carries the query parameters of the booking collaborator.
// CustomerID and SalonOwnerID scope the result to one account.
type BookingFilter struct {
	CustomerID   string
	SalonOwnerID string
	Statuses     []domain.BookingStatus
	DateFrom     time.Time // appointment_date >= DateFrom
	DateTo       time.Time // appointment_date < DateTo
	Sort         BookingSort
	Limit        int
}

// BookingRepository is the read/write contract of the booking subsystem.
type BookingRepository interface {
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	// FindByID returns the booking only when it also matches the scope in filter.
	FindByID(ctx context.Context, id string, scope BookingFilter) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// ReviewRepository reads reviews written by customers.
type ReviewRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Review, error)
}

// SalonFilter narrows salon listings.
type SalonFilter struct {
	OwnerID string
	Status  domain.SalonStatus
	Limit   int
}

// SalonRepository is the read/write contract of the salon catalog.
type SalonRepository interface {
	Create(ctx context.Context, salon *domain.Salon) (*domain.Salon, error)
	Update(ctx context.Context, salon *domain.Salon) error
	FindByID(ctx context.Context, id string) (*domain.Salon, error)
	// List returns salons newest first.
	List(ctx context.Context, filter SalonFilter) ([]*domain.Salon, error)
	Count(ctx context.Context, filter SalonFilter) (int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.SalonStatus) error
}

// NotificationRepository reads and acknowledges user notifications.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
