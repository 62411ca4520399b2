package domain

import "time"

// SecurityEventKind classifies an entry of the security audit trail.
type SecurityEventKind string

const (
	EventLogin               SecurityEventKind = "login"
	EventLoginFailed         SecurityEventKind = "login_failed"
	EventLogout              SecurityEventKind = "logout"
	EventAccessDenied        SecurityEventKind = "access_denied"
	EventSessionRoleMismatch SecurityEventKind = "session_role_mismatch"
	EventUserStatusToggled   SecurityEventKind = "user_status_toggled"
)

// SecurityEvent records an authentication or authorization decision.
type SecurityEvent struct {
	Kind      SecurityEventKind `bson:"kind"`
	UserID    string            `bson:"user_id,omitempty"`
	SessionID string            `bson:"session_id,omitempty"`
	Role      string            `bson:"role,omitempty"`
	Route     string            `bson:"route,omitempty"`
	Detail    string            `bson:"detail,omitempty"`
	Timestamp time.Time         `bson:"timestamp"`
}
