package handler

import "github.com/bookmystyle/user-accounts/internal/core/domain"

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next"     form:"next"`
}

type registerRequest struct {
	FirstName       string `json:"first_name"       form:"first_name"       validate:"required,max=30"`
	LastName        string `json:"last_name"        form:"last_name"        validate:"required,max=30"`
	Email           string `json:"email"            form:"email"            validate:"required,email"`
	Phone           string `json:"phone_number"     form:"phone_number"     validate:"omitempty,phone"`
	Password        string `json:"password"         form:"password"         validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

// createUserRequest repeats the registration fields: echo's form binder does
// not fill fields promoted from an unexported embedded struct.
type createUserRequest struct {
	FirstName       string `json:"first_name"       form:"first_name"       validate:"required,max=30"`
	LastName        string `json:"last_name"        form:"last_name"        validate:"required,max=30"`
	Email           string `json:"email"            form:"email"            validate:"required,email"`
	Phone           string `json:"phone_number"     form:"phone_number"     validate:"omitempty,phone"`
	Password        string `json:"password"         form:"password"         validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role"             form:"role"             validate:"required,oneof=customer salon_owner admin"`
}

type profileRequest struct {
	FirstName   string `json:"first_name"      form:"first_name"      validate:"required,max=30"`
	LastName    string `json:"last_name"       form:"last_name"       validate:"required,max=30"`
	Email       string `json:"email"           form:"email"           validate:"required,email"`
	Phone       string `json:"phone_number"    form:"phone_number"    validate:"omitempty,phone"`
	Address     string `json:"address"         form:"address"`
	DateOfBirth string `json:"date_of_birth"   form:"date_of_birth"   validate:"omitempty,datetime=2006-01-02"`
	PictureURL  string `json:"profile_picture" form:"profile_picture" validate:"omitempty,url"`

	PreferredServiceIDs []string `json:"preferred_services"  form:"preferred_services"`
	BusinessLicense     *string  `json:"business_license"    form:"business_license"    validate:"omitempty,max=100"`
	YearsOfExperience   *int     `json:"years_of_experience" form:"years_of_experience" validate:"omitempty,gte=0"`
}

type salonRequest struct {
	Name        string `json:"name"        form:"name"        validate:"required,max=200"`
	Description string `json:"description" form:"description"`
	Address     string `json:"address"     form:"address"     validate:"required"`
	City        string `json:"city"        form:"city"        validate:"required,max=100"`
	Phone       string `json:"phone"       form:"phone"       validate:"omitempty,phone"`
	Email       string `json:"email"       form:"email"       validate:"omitempty,email"`
}

// --- Response types ---

type dashboardCounts struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Today   int64 `json:"today,omitempty"`
}

type customerDashboardResponse struct {
	Upcoming []*domain.Booking `json:"upcoming_bookings"`
	Recent   []*domain.Booking `json:"recent_bookings"`
	Bookings dashboardCounts   `json:"bookings"`
}

type salonOwnerDashboardResponse struct {
	Salons   []*domain.Salon   `json:"salons"`
	Recent   []*domain.Booking `json:"recent_bookings"`
	Bookings dashboardCounts   `json:"bookings"`
}

type adminDashboardResponse struct {
	TotalUsers    int64           `json:"total_users"`
	TotalSalons   int64           `json:"total_salons"`
	PendingSalons int64           `json:"pending_salons"`
	TotalBookings int64           `json:"total_bookings"`
	RecentSalons  []*domain.Salon `json:"recent_salons"`
	RecentUsers   []*domain.User  `json:"recent_users"`
}
