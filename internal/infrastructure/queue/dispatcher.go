package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/api/metrics"
	"github.com/taskhive/task-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dedup decides whether a notification was already delivered. Implementations
// must tolerate transient failures: a dedup error is treated as "not a
// duplicate" so a broken Redis never blocks delivery.
type Dedup interface {
	IsDuplicate(ctx context.Context, taskID, recipient string) (bool, error)
	Mark(ctx context.Context, taskID, recipient string) error
}

// Dispatcher delivers task notifications on a fixed set of workers, sharded
// by task id so retries for the same task stay ordered. Delivery is strictly
// best-effort: failures are logged and counted, never surfaced to the request
// that created the task.
type Dispatcher struct {
	workers  []chan ports.TaskNotification
	notifier ports.Notifier
	dedup    Dedup
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. dedup may be nil, disabling
// duplicate suppression.
func NewDispatcher(numWorkers int, notifier ports.Notifier, dedup Dedup, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.TaskNotification, numWorkers),
		notifier: notifier,
		dedup:    dedup,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TaskNotification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notification to the worker responsible for its task.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(n ports.TaskNotification) {
	idx := d.shardIndex(n.Task.ID)
	d.workers[idx] <- n
	metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a task id deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TaskNotification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, n)
			metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, n ports.TaskNotification) {
	if d.dedup != nil {
		recipient := n.CreatorEmail + "+" + n.AssigneeEmail
		dup, err := d.dedup.IsDuplicate(ctx, n.Task.ID, recipient)
		if err != nil {
			d.log.Warn().Err(err).Str("task_id", n.Task.ID).Msg("notification dedup check failed")
		} else if dup {
			metrics.NotificationsTotal.WithLabelValues("duplicate").Inc()
			return
		}
	}

	if err := d.notifier.Notify(ctx, n); err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("task_id", n.Task.ID).
			Int("worker_id", workerID).
			Msg("notification delivery failed")
		return
	}

	if d.dedup != nil {
		recipient := n.CreatorEmail + "+" + n.AssigneeEmail
		if err := d.dedup.Mark(ctx, n.Task.ID, recipient); err != nil {
			d.log.Warn().Err(err).Str("task_id", n.Task.ID).Msg("notification dedup mark failed")
		}
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}
