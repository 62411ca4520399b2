package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

const collectionBookings = "bookings"

// BookingRepository reads and updates bookings owned by the booking subsystem.
type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

func (r *BookingRepository) List(ctx context.Context, filter ports.BookingFilter) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bookingSort(filter.Sort))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, bookingQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return out, nil
}

func (r *BookingRepository) Count(ctx context.Context, filter ports.BookingFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bookingQuery(filter))
}

// FindByID retrieves a booking. The owner fields of scope are applied as
// additional filters so one account never sees another's booking.
func (r *BookingRepository) FindByID(ctx context.Context, id string, scope ports.BookingFilter) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if scope.CustomerID != "" {
		filter["customer_id"] = scope.CustomerID
	}
	if scope.SalonOwnerID != "" {
		filter["salon_owner_id"] = scope.SalonOwnerID
	}

	var b domain.Booking
	if err := r.col.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the dashboard queries rely on.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "appointment_date", Value: 1}}},
		{Keys: bson.D{{Key: "salon_owner_id", Value: 1}, {Key: "appointment_date", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func bookingQuery(f ports.BookingFilter) bson.M {
	q := bson.M{}
	if f.CustomerID != "" {
		q["customer_id"] = f.CustomerID
	}
	if f.SalonOwnerID != "" {
		q["salon_owner_id"] = f.SalonOwnerID
	}
	if len(f.Statuses) > 0 {
		statuses := make(bson.A, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q["status"] = bson.M{"$in": statuses}
	}
	date := bson.M{}
	if !f.DateFrom.IsZero() {
		date["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		date["$lt"] = f.DateTo.UTC()
	}
	if len(date) > 0 {
		q["appointment_date"] = date
	}
	return q
}

func bookingSort(s ports.BookingSort) bson.D {
	switch s {
	case ports.SortAppointmentAsc:
		return bson.D{{Key: "appointment_date", Value: 1}, {Key: "appointment_time", Value: 1}}
	case ports.SortAppointmentDesc:
		return bson.D{{Key: "appointment_date", Value: -1}, {Key: "appointment_time", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
