package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func booking(id, customer, owner string, status domain.BookingStatus, dayOffset int) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		CustomerID:      customer,
		SalonOwnerID:    owner,
		Status:          status,
		AppointmentDate: startOfDay(testNow).AddDate(0, 0, dayOffset),
		CreatedAt:       testNow.Add(-time.Duration(dayOffset+100) * time.Hour),
	}
}

func TestCustomerService_Dashboard(t *testing.T) {
	repo := newStubBookingRepo(
		booking("b1", "c1", "o1", domain.BookingPending, 0),
		booking("b2", "c1", "o1", domain.BookingConfirmed, 3),
		booking("b3", "c1", "o1", domain.BookingCancelled, 1),
		booking("b4", "c1", "o1", domain.BookingPending, -2),
		booking("b5", "c2", "o1", domain.BookingPending, 1),
	)
	svc := NewCustomerService(repo, &stubReviewRepo{}, &stubNotificationRepo{}, zerolog.Nop())
	svc.now = fixedClock(testNow)

	dash, err := svc.Dashboard(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if len(dash.UpcomingBookings) != 2 || dash.UpcomingBookings[0].ID != "b1" || dash.UpcomingBookings[1].ID != "b2" {
		t.Fatalf("unexpected upcoming bookings: %+v", dash.UpcomingBookings)
	}
	if dash.TotalBookings != 4 || dash.PendingBookings != 2 {
		t.Fatalf("unexpected totals: total=%d pending=%d", dash.TotalBookings, dash.PendingBookings)
	}
	if len(dash.RecentBookings) != 4 {
		t.Fatalf("expected 4 recent bookings, got %d", len(dash.RecentBookings))
	}
}

func TestCustomerService_CancelBooking(t *testing.T) {
	repo := newStubBookingRepo(
		booking("b1", "c1", "o1", domain.BookingConfirmed, 1),
		booking("b2", "c1", "o1", domain.BookingCancelled, 1),
		booking("b3", "c2", "o1", domain.BookingPending, 1),
	)
	svc := NewCustomerService(repo, &stubReviewRepo{}, &stubNotificationRepo{}, zerolog.Nop())
	ctx := context.Background()

	got, err := svc.CancelBooking(ctx, "c1", "b1")
	if err != nil || got.Status != domain.BookingCancelled {
		t.Fatalf("expected cancelled booking, got %+v err=%v", got, err)
	}
	if repo.bookings["b1"].Status != domain.BookingCancelled {
		t.Fatalf("expected stored status cancelled")
	}

	if _, err := svc.CancelBooking(ctx, "c1", "b2"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.CancelBooking(ctx, "c1", "b3"); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound for another customer's booking, got %v", err)
	}
}

func TestCustomerService_NotificationsMarkedRead(t *testing.T) {
	notes := &stubNotificationRepo{items: []*domain.Notification{{ID: "n1", UserID: "c1"}, {ID: "n2", UserID: "c2"}}}
	svc := NewCustomerService(newStubBookingRepo(), &stubReviewRepo{}, notes, zerolog.Nop())

	items, err := svc.Notifications(context.Background(), "c1")
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 notification, got %d err=%v", len(items), err)
	}
	if len(notes.marked) != 1 || notes.marked[0] != "c1" {
		t.Fatalf("expected notifications of c1 marked read, got %v", notes.marked)
	}
}

func TestSalonOwnerService_ApproveBooking(t *testing.T) {
	repo := newStubBookingRepo(
		booking("b1", "c1", "o1", domain.BookingPending, 1),
		booking("b2", "c1", "o1", domain.BookingConfirmed, 1),
		booking("b3", "c1", "o2", domain.BookingPending, 1),
	)
	svc := NewSalonOwnerService(newStubSalonRepo(), repo, zerolog.Nop())
	ctx := context.Background()

	got, err := svc.ApproveBooking(ctx, "o1", "b1")
	if err != nil || got.Status != domain.BookingConfirmed {
		t.Fatalf("expected confirmed booking, got %+v err=%v", got, err)
	}
	if _, err := svc.ApproveBooking(ctx, "o1", "b2"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.ApproveBooking(ctx, "o1", "b3"); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound for another owner's booking, got %v", err)
	}
	if _, err := svc.CancelBooking(ctx, "o1", "b2"); err != nil {
		t.Fatalf("expected owner cancel of confirmed booking to succeed, got %v", err)
	}
}

func TestSalonOwnerService_Dashboard_TodayCount(t *testing.T) {
	repo := newStubBookingRepo(
		booking("b1", "c1", "o1", domain.BookingPending, 0),
		booking("b2", "c1", "o1", domain.BookingConfirmed, 0),
		booking("b3", "c1", "o1", domain.BookingPending, 1),
	)
	salons := newStubSalonRepo(&domain.Salon{ID: "s1", OwnerID: "o1"}, &domain.Salon{ID: "s2", OwnerID: "o2"})
	svc := NewSalonOwnerService(salons, repo, zerolog.Nop())
	svc.now = fixedClock(testNow)

	dash, err := svc.Dashboard(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if dash.TodayBookings != 2 || dash.PendingBookings != 2 || dash.TotalBookings != 3 || len(dash.Salons) != 1 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
}

func TestSalonOwnerService_SalonOwnership(t *testing.T) {
	salons := newStubSalonRepo()
	svc := NewSalonOwnerService(salons, newStubBookingRepo(), zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateSalon(ctx, "o1", ports.SalonInput{Name: " Glow ", City: "Lagos"})
	if err != nil {
		t.Fatalf("CreateSalon failed: %v", err)
	}
	if created.Status != domain.SalonPending || created.Name != "Glow" || created.OwnerID != "o1" {
		t.Fatalf("unexpected salon: %+v", created)
	}

	if _, err := svc.UpdateSalon(ctx, "o2", created.ID, ports.SalonInput{Name: "Stolen"}); !errors.Is(err, domain.ErrSalonNotFound) {
		t.Fatalf("expected ErrSalonNotFound for a foreign salon, got %v", err)
	}
	updated, err := svc.UpdateSalon(ctx, "o1", created.ID, ports.SalonInput{Name: "Glow Up"})
	if err != nil || updated.Name != "Glow Up" {
		t.Fatalf("expected rename, got %+v err=%v", updated, err)
	}
}

func TestAdminService_SetSalonStatus(t *testing.T) {
	salons := newStubSalonRepo(&domain.Salon{ID: "s1", Status: domain.SalonPending})
	svc := NewAdminService(newStubUserRepo(), salons, newStubBookingRepo(), zerolog.Nop())

	got, err := svc.SetSalonStatus(context.Background(), "s1", domain.SalonApproved)
	if err != nil || got.Status != domain.SalonApproved {
		t.Fatalf("expected approved salon, got %+v err=%v", got, err)
	}
	if _, err := svc.SetSalonStatus(context.Background(), "missing", domain.SalonRejected); !errors.Is(err, domain.ErrSalonNotFound) {
		t.Fatalf("expected ErrSalonNotFound, got %v", err)
	}

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if dash.TotalSalons != 1 || dash.PendingSalons != 0 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
}
