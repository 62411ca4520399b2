package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. RoleNone stands for an anonymous or
// unrecognised caller and is never stored on a user.
type Role uint8

const (
	RoleNone Role = iota
	RoleCustomer
	RoleSalonOwner
	RoleAdmin
)

// AllRoles lists every assignable role.
var AllRoles = []Role{RoleCustomer, RoleSalonOwner, RoleAdmin}

// PublicRoles are the roles a visitor may pick when self-registering.
var PublicRoles = []Role{RoleCustomer, RoleSalonOwner}

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleSalonOwner:
		return "salon_owner"
	case RoleAdmin:
		return "admin"
	case RoleNone:
		return ""
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// DisplayName is the human label used in messages.
func (r Role) DisplayName() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleSalonOwner:
		return "Salon Owner"
	case RoleAdmin:
		return "Admin"
	case RoleNone:
		return "Anonymous"
	}
	return r.String()
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSalonOwner, RoleAdmin:
		return true
	case RoleNone:
		return false
	}
	return false
}

// ParseRole converts a stored role tag into a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, nil
	case "salon_owner":
		return RoleSalonOwner, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleNone, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RoleNone
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is a small bitset of roles.
type RoleSet uint8

// NewRoleSet builds a set containing roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= 1 << r
	}
	return s
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	return s&(1<<r) != 0
}

// Roles returns the members of s in declaration order.
func (s RoleSet) Roles() []Role {
	var out []Role
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, ",")
}
