package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("access forbidden")
)

// User is the identity record: credentials, role tag and profile attributes.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone_number,omitempty"`
	Address      string     `json:"address,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	PictureURL   string     `json:"profile_picture,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsVerified   bool       `json:"is_verified"`
	DateJoined   time.Time  `json:"date_joined"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	CustomerProfile   *CustomerProfile   `json:"customer_profile,omitempty"`
	SalonOwnerProfile *SalonOwnerProfile `json:"salon_owner_profile,omitempty"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Greeting is the name used in welcome messages.
func (u *User) Greeting() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// CustomerProfile is owned 1:1 by a customer identity.
type CustomerProfile struct {
	PreferredServiceIDs []string `json:"preferred_services" bson:"preferred_services"`
	LoyaltyPoints       int      `json:"loyalty_points" bson:"loyalty_points"`
	TotalBookings       int      `json:"total_bookings" bson:"total_bookings"`
}

// SalonOwnerProfile is owned 1:1 by a salon-owner identity.
type SalonOwnerProfile struct {
	BusinessLicense   string `json:"business_license,omitempty" bson:"business_license,omitempty"`
	YearsOfExperience int    `json:"years_of_experience" bson:"years_of_experience"`
	TotalSalons       int    `json:"total_salons" bson:"total_salons"`
}

// AttachProfile gives u the empty profile matching its role tag.
func (u *User) AttachProfile() {
	switch u.Role {
	case RoleCustomer:
		if u.CustomerProfile == nil {
			u.CustomerProfile = &CustomerProfile{PreferredServiceIDs: []string{}}
		}
	case RoleSalonOwner:
		if u.SalonOwnerProfile == nil {
			u.SalonOwnerProfile = &SalonOwnerProfile{}
		}
	case RoleAdmin, RoleNone:
	}
}

// NormalizeEmail lower-cases the domain part the way account lookups expect.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}
