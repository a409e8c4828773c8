// Package metrics defines and registers all custom Prometheus metrics for the
// engineer roster API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto), so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roster"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the auth guard.
// Label:
//   - reason: "missing_token", "invalid_token", "unknown_user" or "revoked_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the auth guard, by reason.",
	},
	[]string{"reason"},
)

// TokensIssuedTotal counts bearer tokens issued on registration and login.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// ── Engineer metrics ──────────────────────────────────────────────────────────

// EngineersCreatedTotal counts engineer create requests that succeeded.
// Label:
//   - result: "created" or "replayed" (idempotency key matched an earlier create)
var EngineersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engineers_created_total",
		Help:      "Total number of engineers created, by result.",
	},
	[]string{"result"},
)

// EngineersDeletedTotal counts deleted engineers.
var EngineersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engineers_deleted_total",
		Help:      "Total number of engineers deleted.",
	},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityRecordedTotal counts activity entries persisted.
// Label:
//   - action: "created", "updated" or "deleted"
var ActivityRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_recorded_total",
		Help:      "Total number of engineer activity entries persisted.",
	},
	[]string{"action"},
)

// ActivityErrorsTotal counts activity entries that were lost.
// Label:
//   - reason: "queue_full" or "insert_failed"
var ActivityErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of engineer activity entries that failed to persist.",
	},
	[]string{"reason"},
)

// ActivityQueueDepth tracks the number of entries waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityWriteDuration measures how long persisting a single activity entry takes.
// Label:
//   - result: "ok" or "error"
var ActivityWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_write_duration_seconds",
		Help:      "Duration of activity persistence from dequeue to insert.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
