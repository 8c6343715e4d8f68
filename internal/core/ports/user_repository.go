package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Save is an upsert keyed by id: an empty id inserts and assigns a new one.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByManager returns the users whose manager reference equals managerID.
	FindByManager(ctx context.Context, managerID string) ([]*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteByID(ctx context.Context, id string) error
	// ClearManager removes the manager reference from every user managed by
	// managerID and returns the number of records touched. The update is
	// idempotent: re-running after a partial failure converges to the same
	// end state.
	ClearManager(ctx context.Context, managerID string) (int64, error)
}
