package domain

import (
	"errors"
	"time"
)

// SalonStatus is the moderation state of a salon listing.
type SalonStatus string

const (
	SalonPending  SalonStatus = "pending"
	SalonApproved SalonStatus = "approved"
	SalonRejected SalonStatus = "rejected"
)

var ErrSalonNotFound = errors.New("salon not found")

// Salon is a listing owned by the salon catalog subsystem.
type Salon struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	OwnerID     string      `json:"owner_id" bson:"owner_id"`
	Name        string      `json:"name" bson:"name"`
	Description string      `json:"description" bson:"description"`
	Address     string      `json:"address" bson:"address"`
	City        string      `json:"city" bson:"city"`
	Phone       string      `json:"phone" bson:"phone"`
	Email       string      `json:"email" bson:"email"`
	Status      SalonStatus `json:"status" bson:"status"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

// Notification is a message addressed to a single user.
type Notification struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	IsRead    bool      `json:"is_read" bson:"is_read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
