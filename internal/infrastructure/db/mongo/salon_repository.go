package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

const (
	collectionSalons        = "salons"
	collectionReviews       = "reviews"
	collectionNotifications = "notifications"
)

type SalonRepository struct {
	col *mongo.Collection
}

func NewSalonRepository(db *mongo.Database) *SalonRepository {
	return &SalonRepository{col: db.Collection(collectionSalons)}
}

func (r *SalonRepository) Create(ctx context.Context, salon *domain.Salon) (*domain.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *salon
	doc.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *SalonRepository) Update(ctx context.Context, salon *domain.Salon) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": salon.ID}, bson.M{"$set": bson.M{
		"name":        salon.Name,
		"description": salon.Description,
		"address":     salon.Address,
		"city":        salon.City,
		"phone":       salon.Phone,
		"email":       salon.Email,
		"updated_at":  salon.UpdatedAt.UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrSalonNotFound
	}
	return nil
}

func (r *SalonRepository) FindByID(ctx context.Context, id string) (*domain.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Salon
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSalonNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SalonRepository) List(ctx context.Context, filter ports.SalonFilter) ([]*domain.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.col.Find(ctx, salonQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find salons: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Salon
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode salons: %w", err)
	}
	return out, nil
}

func (r *SalonRepository) Count(ctx context.Context, filter ports.SalonFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, salonQuery(filter))
}

func (r *SalonRepository) UpdateStatus(ctx context.Context, id string, status domain.SalonStatus) error {
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
		return domain.ErrSalonNotFound
	}
	return nil
}

func (r *SalonRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func salonQuery(f ports.SalonFilter) bson.M {
	q := bson.M{}
	if f.OwnerID != "" {
		q["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q
}

// ReviewRepository reads customer reviews.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

func (r *ReviewRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"customer_id": customerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Review
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return out, nil
}

// NotificationRepository reads and acknowledges user notifications.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return out, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
