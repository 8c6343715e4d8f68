package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// csvHeader is the fixed first row of every export.
const csvHeader = "Task ID,Title,Description,Status,Priority,Assigned User,Created Date"

// utf8BOM prefixes exports so spreadsheet tools detect the encoding.
const utf8BOM = "\xEF\xBB\xBF"

type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	queue  ports.NotificationQueue
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, queue ports.NotificationQueue, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, queue: queue, logger: logger}
}

// CreateTask persists a new PENDING task for creator. When no assignee is
// supplied the task defaults to the creator. The assignment is checked
// against the role hierarchy before anything is written, and the notification
// is enqueued only after the record is durable — its delivery can never fail
// or delay this call.
func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput, creator *domain.User) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	assignee := creator
	if input.AssignedUserID != "" && input.AssignedUserID != creator.ID {
		found, err := s.users.FindByID(ctx, input.AssignedUserID)
		if err != nil {
			if err == domain.ErrUserNotFound {
				return nil, domain.ErrAssigneeNotFound
			}
			return nil, err
		}
		assignee = found
	}

	if !domain.CanAssignTask(creator, assignee) {
		s.logger.Warn().
			Str("creator_id", creator.ID).
			Str("assignee_id", assignee.ID).
			Str("role", string(creator.Role)).
			Msg("task assignment denied")
		return nil, domain.ErrPermissionDenied
	}

	task := &domain.Task{
		Title:            input.Title,
		Description:      input.Description,
		Priority:         input.Priority,
		Status:           domain.StatusPending,
		AssignedUserID:   assignee.ID,
		AssignedUsername: assignee.Username,
		CreateUserID:     creator.ID,
		CreateUsername:   creator.Username,
		CreatedDate:      time.Now().UTC(),
	}

	saved, err := s.tasks.Save(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	// Re-read the durable record so the caller and the notification see the
	// canonical state, ids included.
	full, err := s.tasks.FindByID(ctx, saved.ID)
	if err != nil {
		full = saved
	}

	s.enqueueNotification(full, creator, assignee)

	s.logger.Info().
		Str("task_id", full.ID).
		Str("creator_id", creator.ID).
		Str("assignee_id", assignee.ID).
		Msg("task created")

	return full, nil
}

// enqueueNotification hands the created task to the async dispatcher. The
// assignee address is only included when it differs from the creator so the
// same person is not mailed twice.
func (s *TaskService) enqueueNotification(task *domain.Task, creator, assignee *domain.User) {
	n := ports.TaskNotification{
		Task:         *task,
		CreatorEmail: creator.Email,
	}
	if assignee.ID != creator.ID {
		n.AssigneeEmail = assignee.Email
	}
	s.queue.Enqueue(n)
}

// ListTasks returns the tasks visible to viewer. The role scope is resolved
// to a complete query contract here (manager scopes need the report ids) and
// handed to the store; no in-memory filtering happens.
func (s *TaskService) ListTasks(ctx context.Context, viewer *domain.User) ([]*domain.Task, error) {
	scope := domain.VisibleTaskScope(viewer)
	if scope.IncludeManaged {
		reports, err := s.users.FindByManager(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		scope.ManagedCreatorIDs = make([]string, 0, len(reports))
		for _, r := range reports {
			scope.ManagedCreatorIDs = append(scope.ManagedCreatorIDs, r.ID)
		}
	}
	return s.tasks.FindByScope(ctx, scope)
}

// SetTaskStatus overwrites the status of an existing task. Role gating for
// approval happens at the transport boundary; this method only guards
// against unknown status values and missing tasks.
func (s *TaskService) SetTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	updated, err := s.tasks.Save(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", id).Str("status", string(status)).Msg("task status updated")
	return updated, nil
}

// DeleteTask removes a task; only admins and the task's creator may do so.
func (s *TaskService) DeleteTask(ctx context.Context, id string, requester *domain.User) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanDeleteTask(requester, task) {
		return domain.ErrPermissionDenied
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to delete task")
		return err
	}

	s.logger.Info().Str("task_id", id).Str("requester_id", requester.ID).Msg("task deleted")
	return nil
}

// ExportCSV streams the viewer-scoped task list as CSV. The output starts
// with a UTF-8 BOM and the fixed header row; rows use the same scope as
// ListTasks.
func (s *TaskService) ExportCSV(ctx context.Context, w io.Writer, viewer *domain.User) error {
	tasks, err := s.ListTasks(ctx, viewer)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, utf8BOM+csvHeader+"\n"); err != nil {
		return err
	}

	for _, t := range tasks {
		assignee := "Unassigned"
		if t.AssignedUsername != "" {
			assignee = escapeCSVField(t.AssignedUsername)
		}
		priority := ""
		if t.Priority != nil {
			priority = strconv.Itoa(*t.Priority)
		}
		row := fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s\n",
			t.ID,
			escapeCSVField(t.Title),
			escapeCSVField(t.Description),
			t.Status,
			priority,
			assignee,
			t.CreatedDate.UTC().Format(time.RFC3339),
		)
		if _, err := io.WriteString(w, row); err != nil {
			return err
		}
	}
	return nil
}

// lineBreak matches any single line break, treating CRLF as one.
var lineBreak = regexp.MustCompile("\r\n|[\r\n  ]")

// escapeCSVField collapses embedded line breaks to spaces and wraps the field
// in double quotes when it contains a comma, double quote or single quote,
// doubling any embedded double quotes. The single-quote trigger is part of
// the export contract, which is why encoding/csv is not used here.
func escapeCSVField(s string) string {
	s = lineBreak.ReplaceAllString(s, " ")
	if strings.ContainsAny(s, ",\"'") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
