// Package access holds the role-based access policy shared by every
// enforcement point: role resolution, the allow/deny check, fallback
// destinations, namespace zones and session role verification.
package access

import "github.com/bookmystyle/user-accounts/internal/core/domain"

// Resolve maps an identity to its effective role. A superuser is always an
// admin whatever its stored tag; a nil identity resolves to RoleNone.
func Resolve(u *domain.User) domain.Role {
	if u == nil {
		return domain.RoleNone
	}
	if u.IsSuperuser {
		return domain.RoleAdmin
	}
	if !u.Role.Valid() {
		return domain.RoleNone
	}
	return u.Role
}
