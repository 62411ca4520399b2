// Package metrics defines and registers the custom Prometheus metrics of the
// user accounts service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors are registered with the default registry through promauto when
// the package is loaded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Access control ────────────────────────────────────────────────────────────

// AccessDeniedTotal counts requests turned away by the access layers.
// Labels:
//   - layer: "zone", "guard" or "login"
//   - namespace: route namespace of the denied request (e.g. "user_admin")
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the access control layers.",
	},
	[]string{"layer", "namespace"},
)

// AccessErrorsTotal counts access checks that failed with an internal error.
// Label:
//   - mode: "open" (request let through) or "closed" (404 returned)
var AccessErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_errors_total",
		Help:      "Total number of access checks that failed internally.",
	},
	[]string{"mode"},
)

// SessionRoleMismatchTotal counts sessions ended because the holder's role
// changed under them.
var SessionRoleMismatchTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_role_mismatch_total",
		Help:      "Total number of sessions ended on a role marker mismatch.",
	},
)

// ── Accounts ──────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts accounts created, by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditEventsProcessedTotal counts security events by outcome.
// Labels:
//   - kind: security event kind (e.g. "access_denied")
//   - result: "ok" or "error"
var AuditEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_processed_total",
		Help:      "Total number of security events taken off the audit queue.",
	},
	[]string{"kind", "result"},
)

// AuditEventsDroppedTotal counts events dropped because a worker queue was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of security events dropped on a full queue.",
	},
)

// AuditQueueDepth tracks pending events in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of security events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditProcessingDuration measures how long persisting one event takes.
var AuditProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_processing_duration_seconds",
		Help:      "Duration of security event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
