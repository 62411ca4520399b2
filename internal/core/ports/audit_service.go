package ports

import (
	"context"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

// AuditService processes security events taken off the dispatch queue.
type AuditService interface {
	Process(ctx context.Context, event domain.SecurityEvent) error
}

// SecurityRecorder accepts security events without blocking the caller.
type SecurityRecorder interface {
	Record(event domain.SecurityEvent)
}
