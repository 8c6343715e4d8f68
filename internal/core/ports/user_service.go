package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// CreateUserInput carries the caller-supplied fields for a new account.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	Role     domain.Role
	// ManagerID is honoured only for admin creators; manager creators always
	// become the new account's manager regardless of this field.
	ManagerID string
}

// UpdateUserInput carries the mutable fields of an account. Empty fields are
// left untouched; username, role and manager are immutable through this path.
type UpdateUserInput struct {
	Email    string
	Password string
}

// UserService defines use-case operations for accounts, including the
// delete cascade and the startup seed.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput, creator *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput, modifier *domain.User) (*domain.User, error)
	// ListManagedUsers returns all users for admins, direct reports for
	// managers and nothing for plain users.
	ListManagedUsers(ctx context.Context, viewer *domain.User) ([]*domain.User, error)
	// DeleteUser refuses outright when the target still has assigned tasks;
	// otherwise it unlinks managed users, orphans created tasks and removes
	// the record.
	DeleteUser(ctx context.Context, id string, modifier *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// EnsureDefaultAccounts seeds the well-known admin/manager/user accounts
	// when missing. Idempotent per account; called once at startup.
	EnsureDefaultAccounts(ctx context.Context) error
}
