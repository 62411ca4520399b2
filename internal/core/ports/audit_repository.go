package ports

import (
	"context"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// AuditRepository persists the security audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.SecurityEvent) error
}
