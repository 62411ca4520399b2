package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// validBookingTransitions defines the status changes this subsystem may apply.
var validBookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled},
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrBookingNotFound   = errors.New("booking not found")
)

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validBookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is an appointment owned by the booking subsystem.
type Booking struct {
	ID              string        `json:"id" bson:"_id,omitempty"`
	CustomerID      string        `json:"customer_id" bson:"customer_id"`
	SalonID         string        `json:"salon_id" bson:"salon_id"`
	SalonOwnerID    string        `json:"salon_owner_id" bson:"salon_owner_id"`
	SalonName       string        `json:"salon_name" bson:"salon_name"`
	ServiceName     string        `json:"service_name" bson:"service_name"`
	AppointmentDate time.Time     `json:"appointment_date" bson:"appointment_date"`
	AppointmentTime string        `json:"appointment_time" bson:"appointment_time"`
	Status          BookingStatus `json:"status" bson:"status"`
	Price           float64       `json:"price" bson:"price"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// Review is a customer's rating of a salon.
type Review struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	CustomerID string    `json:"customer_id" bson:"customer_id"`
	SalonID    string    `json:"salon_id" bson:"salon_id"`
	SalonName  string    `json:"salon_name" bson:"salon_name"`
	Rating     int       `json:"rating" bson:"rating"`
	Comment    string    `json:"comment" bson:"comment"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
