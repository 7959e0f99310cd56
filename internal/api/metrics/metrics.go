// Package metrics defines and registers all custom Prometheus metrics for
// the member portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default registry via promauto at
// package load; no explicit Register call is needed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionVerificationsTotal counts initial session verifications.
// Label:
//   - result: "verified", "rejected", "invalid_token" (failed the local
//     structural check) or "no_token" (nothing in the durable slot)
var SessionVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_verifications_total",
		Help:      "Total number of initial session verifications, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts processed by the session service.
// Label:
//   - result: "verified", "rejected", "degraded" (profile fetch failed
//     transiently, basic identity kept) or "invalid_token"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of logins processed, by verification result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logouts. Logout cannot fail, so no label.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts.",
	},
)

// RefreshesTotal counts background profile refreshes.
// Label:
//   - result: "refreshed", "rejected" or "degraded" (transient failure,
//     session kept)
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of profile refreshes, by result.",
	},
	[]string{"result"},
)

// VerificationDuration measures the round-trip of a profile verification.
// Label:
//   - result: "verified" or "rejected"
var VerificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "verification_duration_seconds",
		Help:      "Duration of gym API profile verification calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// ActiveSessions tracks the number of in-memory session records.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of in-memory session records.",
	},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - outcome: "render", "loading", "redirect_login" or "redirect_home"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events dropped under backpressure.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped because a worker queue was full.",
	},
)
