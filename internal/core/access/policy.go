package access

import (
	"strings"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// Decision is the outcome of a policy check.
type Decision uint8

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Check allows role iff it is a member of allowed.
func Check(role domain.Role, allowed domain.RoleSet) Decision {
	if allowed.Has(role) {
		return Allow
	}
	return Deny
}

// FallbackRoute is the route name a denied caller lands on.
func FallbackRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return RouteAdminDashboard
	case domain.RoleSalonOwner:
		return RouteSalonOwnerDashboard
	case domain.RoleCustomer:
		return RouteCustomerDashboard
	case domain.RoleNone:
		return RouteHome
	}
	return RouteHome
}

const (
	MsgAdminRequired      = "Access denied. Admin privileges required."
	MsgCustomerRequired   = "Access denied. Customer account required."
	MsgSalonOwnerRequired = "Access denied. Salon owner account required."

	MsgSessionCheckFailed = "Session security check failed. Please log in again."
)

// RequiredMessage is the notification naming the privilege a role zone needs.
func RequiredMessage(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return MsgAdminRequired
	case domain.RoleCustomer:
		return MsgCustomerRequired
	case domain.RoleSalonOwner:
		return MsgSalonOwnerRequired
	case domain.RoleNone:
	}
	return "Access denied. You do not have permission to access this page."
}

// DeniedMessage describes which privilege allowed requires.
func DeniedMessage(allowed domain.RoleSet) string {
	roles := allowed.Roles()
	if len(roles) == 1 {
		return RequiredMessage(roles[0])
	}
	if len(roles) == 0 {
		return RequiredMessage(domain.RoleNone)
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = strings.ToLower(r.DisplayName())
	}
	return "Access denied. One of the following account types is required: " + strings.Join(names, ", ") + "."
}
