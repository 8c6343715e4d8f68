package ports

import (
	"context"
	"io"

	"github.com/taskhive/task-system/internal/core/domain"
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// Status, creator and creation time are always set by the service.
type CreateTaskInput struct {
	Title          string
	Description    string
	Priority       *int
	AssignedUserID string // empty = default to the creator
}

// TaskService defines use-case operations for tasks. Every operation takes
// the already-authenticated actor; authorization is decided by the domain
// policy, not by the transport.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput, creator *domain.User) (*domain.Task, error)
	// ListTasks returns the tasks visible to viewer under its role scope.
	ListTasks(ctx context.Context, viewer *domain.User) ([]*domain.Task, error)
	// SetTaskStatus overwrites the task's status. The caller is responsible
	// for having role-gated the operation (CanApproveTask).
	SetTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string, requester *domain.User) error
	// ExportCSV writes the viewer-scoped task list as CSV (UTF-8 with BOM,
	// fixed header row) to w.
	ExportCSV(ctx context.Context, w io.Writer, viewer *domain.User) error
}
