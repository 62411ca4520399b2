package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

// DedupChecker abstracts the short-lived suppression store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string, ttl time.Duration) error
}

// denialWindow collapses repeated denials of the same user on the same route.
const denialWindow = time.Minute

type auditService struct {
	repo  ports.AuditRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewAuditService returns an AuditService implementation. dedup may be nil.
func NewAuditService(repo ports.AuditRepository, dedup DedupChecker, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, dedup: dedup, log: log}
}

// Process persists a single security event.
func (s *auditService) Process(ctx context.Context, ev domain.SecurityEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	key, collapsible := dedupKey(ev)
	if collapsible && s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("dedup check failed, recording anyway")
		} else if isDup {
			s.log.Debug().Str("kind", string(ev.Kind)).Str("user_id", ev.UserID).Str("route", ev.Route).Msg("repeated security event collapsed")
			return nil
		}
		if err := s.dedup.Mark(ctx, key, denialWindow); err != nil {
			s.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("failed to set dedup key")
		}
	}

	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("record security event: %w", err)
	}

	s.log.Info().
		Str("kind", string(ev.Kind)).
		Str("user_id", ev.UserID).
		Str("role", ev.Role).
		Str("route", ev.Route).
		Msg("security event recorded")
	return nil
}

// dedupKey returns the suppression key of denial-type events.
func dedupKey(ev domain.SecurityEvent) (string, bool) {
	switch ev.Kind {
	case domain.EventAccessDenied, domain.EventSessionRoleMismatch:
		return fmt.Sprintf("audit:%s:%s:%s", ev.Kind, ev.UserID, ev.Route), true
	default:
		return "", false
	}
}
