package access

import (
	"context"
	"fmt"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// RoleMarkerStore holds the role recorded for each session.
type RoleMarkerStore interface {
	// RoleMarker returns the stored role and whether one was present.
	RoleMarker(ctx context.Context, sessionID string) (domain.Role, bool, error)
	SetRoleMarker(ctx context.Context, sessionID string, role domain.Role) error
}

// SessionCheck is the outcome of VerifySessionRole.
type SessionCheck uint8

const (
	// SessionMarked means the marker was absent and has now been set.
	SessionMarked SessionCheck = iota
	// SessionConsistent means the marker matched the resolved role.
	SessionConsistent
	// SessionMismatch means the role changed since the marker was written;
	// the session must be terminated.
	SessionMismatch
)

func (s SessionCheck) String() string {
	switch s {
	case SessionMarked:
		return "marked"
	case SessionConsistent:
		return "consistent"
	case SessionMismatch:
		return "mismatch"
	}
	return "unknown"
}

// VerifySessionRole compares the stored marker for sessionID with the freshly
// resolved role. A matching or absent marker is (re)written; a mismatch leaves
// the store untouched.
func VerifySessionRole(ctx context.Context, markers RoleMarkerStore, sessionID string, current domain.Role) (SessionCheck, domain.Role, error) {
	stored, ok, err := markers.RoleMarker(ctx, sessionID)
	if err != nil {
		return SessionConsistent, domain.RoleNone, fmt.Errorf("read role marker: %w", err)
	}
	if ok && stored != current {
		return SessionMismatch, stored, nil
	}

	if err := markers.SetRoleMarker(ctx, sessionID, current); err != nil {
		return SessionConsistent, stored, fmt.Errorf("write role marker: %w", err)
	}
	if !ok {
		return SessionMarked, domain.RoleNone, nil
	}
	return SessionConsistent, stored, nil
}
