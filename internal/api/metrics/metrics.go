// Package metrics defines all custom Prometheus metrics for the task system.
// It is the single source of truth for metric names, labels, and help
// strings; the default registry is used, so importing the package is enough
// to register everything.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasksystem"

// TasksCreatedTotal counts successfully created tasks.
// Label:
//   - role: the creator's role ("admin", "manager", "user")
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by creator role.",
	},
	[]string{"role"},
)

// PermissionDeniedTotal counts requests rejected by the role-hierarchy policy.
// Label:
//   - path: the route that was denied
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of requests rejected by an authorization check.",
	},
	[]string{"path"},
)

// UsersDeletedTotal counts completed user deletions (cascade included).
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user accounts deleted.",
	},
)

// NotificationsTotal counts notification delivery outcomes.
// Label:
//   - result: "sent", "error" or "duplicate"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of task notification deliveries, by result.",
	},
	[]string{"result"},
)

// NotifyQueueDepth tracks the number of notifications waiting per worker.
// Label:
//   - worker_id: numeric worker index ("0", "1", ...)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
