package access

import (
	"strings"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// Route namespaces. A route name is "<namespace>:<name>".
const (
	NamespaceCore       = "core"
	NamespaceAccounts   = "accounts"
	NamespaceCustomer   = "customer"
	NamespaceSalonOwner = "salon_owner"
	NamespaceAdmin      = "user_admin"
)

const (
	RouteHome = "core:home"

	RouteLogin              = "accounts:login"
	RouteAdminLogin         = "accounts:admin_login"
	RouteLogout             = "accounts:logout"
	RouteRegister           = "accounts:register"
	RouteCustomerRegister   = "accounts:customer_register"
	RouteSalonOwnerRegister = "accounts:salon_owner_register"
	RouteProfile            = "accounts:profile"
	RouteEditProfile        = "accounts:edit_profile"
	RouteMessages           = "accounts:messages"

	RouteCustomerDashboard     = "customer:dashboard"
	RouteCustomerBookings      = "customer:bookings"
	RouteCustomerBookingDetail = "customer:booking_detail"
	RouteCustomerCancelBooking = "customer:cancel_booking"
	RouteCustomerReviews       = "customer:reviews"
	RouteCustomerNotifications = "customer:notifications"

	RouteSalonOwnerDashboard      = "salon_owner:dashboard"
	RouteSalonOwnerSalons         = "salon_owner:salons"
	RouteSalonOwnerCreateSalon    = "salon_owner:create_salon"
	RouteSalonOwnerEditSalon      = "salon_owner:edit_salon"
	RouteSalonOwnerBookings       = "salon_owner:bookings"
	RouteSalonOwnerApproveBooking = "salon_owner:approve_booking"
	RouteSalonOwnerCancelBooking  = "salon_owner:cancel_booking"
	RouteSalonOwnerStaff          = "salon_owner:staff"
	RouteSalonOwnerAnalytics      = "salon_owner:analytics"

	RouteAdminDashboard    = "user_admin:dashboard"
	RouteAdminUsers        = "user_admin:users"
	RouteAdminCreateUser   = "user_admin:create_user"
	RouteAdminToggleUser   = "user_admin:toggle_user_status"
	RouteAdminSalons       = "user_admin:salons"
	RouteAdminApproveSalon = "user_admin:approve_salon"
	RouteAdminRejectSalon  = "user_admin:reject_salon"
	RouteAdminBookings     = "user_admin:bookings"
	RouteAdminAnalytics    = "user_admin:analytics"
	RouteAdminSettings     = "user_admin:settings"
)

// Zone is a role-restricted namespace.
type Zone struct {
	Prefix   string
	Required domain.Role
}

// Zones are the disjoint role-restricted namespaces checked by the pipeline.
var Zones = []Zone{
	{Prefix: NamespaceAdmin + ":", Required: domain.RoleAdmin},
	{Prefix: NamespaceCustomer + ":", Required: domain.RoleCustomer},
	{Prefix: NamespaceSalonOwner + ":", Required: domain.RoleSalonOwner},
}

// SensitiveNamespaces never have their responses cached.
var SensitiveNamespaces = []string{
	NamespaceAccounts + ":",
	NamespaceAdmin + ":",
	NamespaceCustomer + ":",
	NamespaceSalonOwner + ":",
}

// Namespace returns the namespace part of a route name.
func Namespace(routeName string) string {
	if i := strings.IndexByte(routeName, ':'); i >= 0 {
		return routeName[:i]
	}
	return ""
}

// RouteVerdict is the pipeline's decision for one request.
type RouteVerdict struct {
	Decision Decision
	Zone     *Zone
	Message  string
	Redirect string
}

// EvaluateRoute applies the namespace zones to routeName for role. A route
// outside every zone is allowed.
func EvaluateRoute(role domain.Role, routeName string) RouteVerdict {
	for i := range Zones {
		z := &Zones[i]
		if routeName == "" || !strings.HasPrefix(routeName, z.Prefix) {
			continue
		}
		if Check(role, domain.NewRoleSet(z.Required)) == Allow {
			continue
		}
		return RouteVerdict{
			Decision: Deny,
			Zone:     z,
			Message:  RequiredMessage(z.Required),
			Redirect: FallbackRoute(role),
		}
	}
	return RouteVerdict{Decision: Allow}
}

// IsSensitive reports whether responses for routeName must not be cached.
func IsSensitive(routeName string) bool {
	if routeName == "" {
		return false
	}
	for _, p := range SensitiveNamespaces {
		if strings.HasPrefix(routeName, p) {
			return true
		}
	}
	return false
}
