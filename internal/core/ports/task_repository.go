package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
// Save is an upsert keyed by id: an empty id inserts and assigns a new one.
type TaskRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	FindAll(ctx context.Context) ([]*domain.Task, error)
	FindByAssignee(ctx context.Context, userID string) ([]*domain.Task, error)
	FindByCreator(ctx context.Context, userID string) ([]*domain.Task, error)
	// FindByScope returns the tasks visible under the given scope contract.
	// The scope is translated into a store-level query, not filtered in memory.
	FindByScope(ctx context.Context, scope domain.TaskScope) ([]*domain.Task, error)
	Save(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	// ClearCreator empties the creator reference (id and denormalized name)
	// on every task created by userID, returning the number of records
	// touched. Idempotent, so an interrupted delete cascade can be re-run.
	ClearCreator(ctx context.Context, userID string) (int64, error)
}
