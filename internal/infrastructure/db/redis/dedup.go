package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const notifyTTL = 24 * time.Hour

// NotificationDedup suppresses repeat deliveries of task notifications,
// e.g. when a creation retry re-enqueues the same task.
// Key format: notify:<task_id>:<recipient>
type NotificationDedup struct {
	client *redis.Client
}

// NewNotificationDedup creates a NotificationDedup wrapping the given client.
func NewNotificationDedup(client *redis.Client) *NotificationDedup {
	return &NotificationDedup{client: client}
}

// IsDuplicate reports whether this recipient was already notified about taskID.
func (d *NotificationDedup) IsDuplicate(ctx context.Context, taskID, recipient string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(taskID, recipient)).Result()
	if err != nil {
		return false, fmt.Errorf("notify dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records a delivered notification (expires after notifyTTL).
func (d *NotificationDedup) Mark(ctx context.Context, taskID, recipient string) error {
	return d.client.Set(ctx, d.key(taskID, recipient), "1", notifyTTL).Err()
}

func (d *NotificationDedup) key(taskID, recipient string) string {
	return fmt.Sprintf("notify:%s:%s", taskID, recipient)
}
