package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User
	nextID  int
	touched []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.CustomerProfile != nil {
		p := *u.CustomerProfile
		clone.CustomerProfile = &p
	}
	if u.SalonOwnerProfile != nil {
		p := *u.SalonOwnerProfile
		clone.SalonOwnerProfile = &p
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	updated := cloneUser(user)
	updated.Role = stored.Role
	updated.IsActive = stored.IsActive
	updated.IsStaff = stored.IsStaff
	updated.IsSuperuser = stored.IsSuperuser
	updated.PasswordHash = stored.PasswordHash
	r.users[user.ID] = updated
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string) error {
	r.touched = append(r.touched, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if f.Role != domain.RoleNone && u.Role != f.Role {
			continue
		}
		if f.Superuser != nil && u.IsSuperuser != *f.Superuser {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubUserRepo) Count(ctx context.Context, f ports.UserFilter) (int64, error) {
	f.Limit = 0
	out, _ := r.List(ctx, f)
	return int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Sessions and audit
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions map[string]*domain.Session
	markers  map[string]domain.Role
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{
		sessions: make(map[string]*domain.Session),
		markers:  make(map[string]domain.Role),
	}
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	delete(s.markers, id)
	return nil
}

func (s *stubSessionStore) DeleteByUserID(_ context.Context, userID string) (int, error) {
	n := 0
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
			delete(s.markers, id)
			n++
		}
	}
	return n, nil
}

func (s *stubSessionStore) RoleMarker(_ context.Context, id string) (domain.Role, bool, error) {
	r, ok := s.markers[id]
	return r, ok, nil
}

func (s *stubSessionStore) SetRoleMarker(_ context.Context, id string, role domain.Role) error {
	s.markers[id] = role
	return nil
}

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (r *stubRecorder) Record(ev domain.SecurityEvent) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *stubRecorder) kinds() []domain.SecurityEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SecurityEventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

// ---------------------------------------------------------------------------
// Bookings and salons
// ---------------------------------------------------------------------------

type stubBookingRepo struct {
	bookings  map[string]*domain.Booking
	updateErr error
}

func newStubBookingRepo(bs ...*domain.Booking) *stubBookingRepo {
	r := &stubBookingRepo{bookings: make(map[string]*domain.Booking)}
	for _, b := range bs {
		clone := *b
		r.bookings[b.ID] = &clone
	}
	return r
}

func matchBooking(b *domain.Booking, f ports.BookingFilter) bool {
	if f.CustomerID != "" && b.CustomerID != f.CustomerID {
		return false
	}
	if f.SalonOwnerID != "" && b.SalonOwnerID != f.SalonOwnerID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if b.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.DateFrom.IsZero() && b.AppointmentDate.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && !b.AppointmentDate.Before(f.DateTo) {
		return false
	}
	return true
}

func (r *stubBookingRepo) List(_ context.Context, f ports.BookingFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if matchBooking(b, f) {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		switch f.Sort {
		case ports.SortAppointmentAsc:
			return out[i].AppointmentDate.Before(out[j].AppointmentDate)
		case ports.SortAppointmentDesc:
			return out[i].AppointmentDate.After(out[j].AppointmentDate)
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubBookingRepo) Count(ctx context.Context, f ports.BookingFilter) (int64, error) {
	f.Limit = 0
	out, _ := r.List(ctx, f)
	return int64(len(out)), nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string, scope ports.BookingFilter) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok || !matchBooking(b, ports.BookingFilter{CustomerID: scope.CustomerID, SalonOwnerID: scope.SalonOwnerID}) {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type stubSalonRepo struct {
	salons map[string]*domain.Salon
	nextID int
}

func newStubSalonRepo(ss ...*domain.Salon) *stubSalonRepo {
	r := &stubSalonRepo{salons: make(map[string]*domain.Salon)}
	for _, s := range ss {
		clone := *s
		r.salons[s.ID] = &clone
	}
	return r
}

func (r *stubSalonRepo) Create(_ context.Context, salon *domain.Salon) (*domain.Salon, error) {
	r.nextID++
	clone := *salon
	clone.ID = fmt.Sprintf("s%d", r.nextID)
	r.salons[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubSalonRepo) Update(_ context.Context, salon *domain.Salon) error {
	if _, ok := r.salons[salon.ID]; !ok {
		return domain.ErrSalonNotFound
	}
	clone := *salon
	r.salons[salon.ID] = &clone
	return nil
}

func (r *stubSalonRepo) FindByID(_ context.Context, id string) (*domain.Salon, error) {
	s, ok := r.salons[id]
	if !ok {
		return nil, domain.ErrSalonNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSalonRepo) List(_ context.Context, f ports.SalonFilter) ([]*domain.Salon, error) {
	var out []*domain.Salon
	for _, s := range r.salons {
		if f.OwnerID != "" && s.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubSalonRepo) Count(ctx context.Context, f ports.SalonFilter) (int64, error) {
	f.Limit = 0
	out, _ := r.List(ctx, f)
	return int64(len(out)), nil
}

func (r *stubSalonRepo) UpdateStatus(_ context.Context, id string, status domain.SalonStatus) error {
	s, ok := r.salons[id]
	if !ok {
		return domain.ErrSalonNotFound
	}
	s.Status = status
	return nil
}

type stubReviewRepo struct{ reviews []*domain.Review }

func (r *stubReviewRepo) ListByCustomer(_ context.Context, customerID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.CustomerID == customerID {
			out = append(out, rv)
		}
	}
	return out, nil
}

type stubNotificationRepo struct {
	items  []*domain.Notification
	marked []string
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.marked = append(r.marked, userID)
	return 0, nil
}

// fixedClock pins a service clock for date-sensitive tests.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
