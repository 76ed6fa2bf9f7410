// Package metrics defines and registers all custom Prometheus metrics for the
// Epic Events CRM API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is first imported.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/epicevents/crm/internal/core/domain"
)

const namespace = "crm"

// ── Operation metrics ─────────────────────────────────────────────────────────

// OperationsTotal counts core operations by outcome.
// Labels:
//   - entity: "account", "client", "contract", "event" or "session"
//   - operation: "create", "list", "update", "delete", "login", "logout"
//   - result: "ok", "forbidden", "unauthenticated", "not_found", "conflict",
//     "invalid_state", "invalid", "error"
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of core operations, by entity, operation and result.",
	},
	[]string{"entity", "operation", "result"},
)

// Result converts an operation error into the result label of OperationsTotal.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	default:
		return "error"
	}
}

// ── Notice metrics ────────────────────────────────────────────────────────────

// NoticesTotal counts notice deliveries.
// Labels:
//   - kind: the notice kind (e.g. "contract_signed")
//   - result: "delivered", "failed" or "dropped" (queue full)
var NoticesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notices_total",
		Help:      "Total number of notices handled by the dispatcher, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NoticesQueueDepth tracks the number of notices waiting in each worker channel.
var NoticesQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notices_queue_depth",
		Help:      "Current number of notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
