package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// TaskNotification carries everything a notifier needs to announce a newly
// created task. Recipient addresses are resolved by the task service while it
// still holds the loaded user records; empty addresses mean "skip".
type TaskNotification struct {
	Task          domain.Task
	CreatorEmail  string
	AssigneeEmail string
}

// Notifier delivers a task-created notification. Implementations are invoked
// off the request path; errors are logged by the dispatcher and never reach
// the caller that created the task.
type Notifier interface {
	Notify(ctx context.Context, n TaskNotification) error
}

// NotificationQueue accepts notifications for asynchronous delivery.
// Enqueue must not block the caller beyond channel-buffer backpressure and
// must never fail the surrounding request.
type NotificationQueue interface {
	Enqueue(n TaskNotification)
}
