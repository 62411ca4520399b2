package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository. Profiles are embedded in
// the user document so an identity and its profile are written together.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID                primitive.ObjectID        `bson:"_id,omitempty"`
	Email             string                    `bson:"email"`
	PasswordHash      string                    `bson:"password_hash"`
	Role              string                    `bson:"role"`
	FirstName         string                    `bson:"first_name"`
	LastName          string                    `bson:"last_name"`
	Phone             string                    `bson:"phone_number,omitempty"`
	Address           string                    `bson:"address,omitempty"`
	DateOfBirth       *time.Time                `bson:"date_of_birth,omitempty"`
	PictureURL        string                    `bson:"profile_picture,omitempty"`
	IsActive          bool                      `bson:"is_active"`
	IsStaff           bool                      `bson:"is_staff"`
	IsSuperuser       bool                      `bson:"is_superuser"`
	IsVerified        bool                      `bson:"is_verified"`
	DateJoined        time.Time                 `bson:"date_joined"`
	UpdatedAt         time.Time                 `bson:"updated_at"`
	LastLogin         *time.Time                `bson:"last_login,omitempty"`
	CustomerProfile   *domain.CustomerProfile   `bson:"customer_profile,omitempty"`
	SalonOwnerProfile *domain.SalonOwnerProfile `bson:"salon_owner_profile,omitempty"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role.String(),
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Phone:             u.Phone,
		Address:           u.Address,
		DateOfBirth:       u.DateOfBirth,
		PictureURL:        u.PictureURL,
		IsActive:          u.IsActive,
		IsStaff:           u.IsStaff,
		IsSuperuser:       u.IsSuperuser,
		IsVerified:        u.IsVerified,
		DateJoined:        u.DateJoined.UTC(),
		UpdatedAt:         u.UpdatedAt.UTC(),
		LastLogin:         u.LastLogin,
		CustomerProfile:   u.CustomerProfile,
		SalonOwnerProfile: u.SalonOwnerProfile,
	}
}

// toDomain maps a stored document back. An unrecognised role tag decodes to
// RoleNone so the holder is treated as having no role.
func (mu *mongoUser) toDomain() *domain.User {
	role, err := domain.ParseRole(mu.Role)
	if err != nil {
		role = domain.RoleNone
	}
	return &domain.User{
		ID:                mu.ID.Hex(),
		Email:             mu.Email,
		PasswordHash:      mu.PasswordHash,
		Role:              role,
		FirstName:         mu.FirstName,
		LastName:          mu.LastName,
		Phone:             mu.Phone,
		Address:           mu.Address,
		DateOfBirth:       mu.DateOfBirth,
		PictureURL:        mu.PictureURL,
		IsActive:          mu.IsActive,
		IsStaff:           mu.IsStaff,
		IsSuperuser:       mu.IsSuperuser,
		IsVerified:        mu.IsVerified,
		DateJoined:        mu.DateJoined,
		UpdatedAt:         mu.UpdatedAt,
		LastLogin:         mu.LastLogin,
		CustomerProfile:   mu.CustomerProfile,
		SalonOwnerProfile: mu.SalonOwnerProfile,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"email":               user.Email,
		"first_name":          user.FirstName,
		"last_name":           user.LastName,
		"phone_number":        user.Phone,
		"address":             user.Address,
		"date_of_birth":       user.DateOfBirth,
		"profile_picture":     user.PictureURL,
		"updated_at":          user.UpdatedAt.UTC(),
		"customer_profile":    user.CustomerProfile,
		"salon_owner_profile": user.SalonOwnerProfile,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.setFields(ctx, id, bson.M{"is_active": active, "updated_at": time.Now().UTC()})
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	return r.setFields(ctx, id, bson.M{"last_login": time.Now().UTC()})
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date_joined", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, userQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context, filter ports.UserFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, userQuery(filter))
}

// EnsureIndexes creates the unique email index and the listing indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "date_joined", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) setFields(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func userQuery(f ports.UserFilter) bson.M {
	q := bson.M{}
	if f.Role != domain.RoleNone {
		q["role"] = f.Role.String()
	}
	if f.Superuser != nil {
		q["is_superuser"] = *f.Superuser
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"email": pattern},
			bson.M{"first_name": pattern},
			bson.M{"last_name": pattern},
		}
	}
	return q
}
