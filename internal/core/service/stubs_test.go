package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User // by id
	nextID int
	// saveErr, if set, is returned by Save.
	saveErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByManager(_ context.Context, managerID string) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		if u.ManagerID == managerID {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	clone := cloneUser(user)
	if clone.ID == "" {
		r.nextID++
		clone.ID = fmt.Sprintf("u%d", r.nextID)
	}
	r.users[clone.ID] = cloneUser(clone)
	return cloneUser(clone), nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ClearManager(_ context.Context, managerID string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.ManagerID == managerID {
			u.ManagerID = ""
			n++
		}
	}
	return n, nil
}

// mustAdd seeds a user directly, bypassing the service.
func (r *stubUserRepo) mustAdd(u *domain.User) *domain.User {
	saved, _ := r.Save(context.Background(), u)
	return saved
}

type stubTaskRepo struct {
	tasks  map[string]*domain.Task
	nextID int
	// findByIDErr, if set, is returned by FindByID after a successful Save
	// (used to exercise the re-read fallback).
	findByIDErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindAll(_ context.Context) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		out = append(out, cloneTask(t))
	}
	return out, nil
}

func (r *stubTaskRepo) FindByAssignee(_ context.Context, userID string) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if t.AssignedUserID == userID {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (r *stubTaskRepo) FindByCreator(_ context.Context, userID string) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if t.CreateUserID == userID {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

// FindByScope applies the same matching the real Mongo query would.
func (r *stubTaskRepo) FindByScope(_ context.Context, scope domain.TaskScope) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if scope.All {
			out = append(out, cloneTask(t))
			continue
		}
		if t.CreateUserID == scope.ViewerID || t.AssignedUserID == scope.ViewerID {
			out = append(out, cloneTask(t))
			continue
		}
		for _, id := range scope.ManagedCreatorIDs {
			if t.CreateUserID == id {
				out = append(out, cloneTask(t))
				break
			}
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Save(_ context.Context, task *domain.Task) (*domain.Task, error) {
	clone := cloneTask(task)
	if clone.ID == "" {
		r.nextID++
		clone.ID = fmt.Sprintf("t%d", r.nextID)
	}
	r.tasks[clone.ID] = cloneTask(clone)
	return cloneTask(clone), nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *stubTaskRepo) ClearCreator(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if t.CreateUserID == userID {
			t.CreateUserID = ""
			t.CreateUsername = ""
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Stub collaborators
// ---------------------------------------------------------------------------

type stubQueue struct {
	enqueued []ports.TaskNotification
}

func (q *stubQueue) Enqueue(n ports.TaskNotification) {
	q.enqueued = append(q.enqueued, n)
}

// stubHasher marks hashes with a prefix so tests can assert hashing happened
// without paying bcrypt cost.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (stubHasher) Compare(hash, plaintext string) error {
	if strings.TrimPrefix(hash, "hashed:") != plaintext {
		return domain.ErrInvalidCredentials
	}
	return nil
}
