package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the approval state of a task.
type TaskStatus string

const (
	StatusPending  TaskStatus = "PENDING"
	StatusApproved TaskStatus = "APPROVED"
	StatusRejected TaskStatus = "REJECTED"
)

// IsValid reports whether s is a known task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

var ErrTaskNotFound = errors.New("task not found")
var ErrAssigneeNotFound = errors.New("assignee not found")
var ErrInvalidStatus = errors.New("invalid task status")
var ErrTitleRequired = errors.New("title is required")

// Task is the core aggregate. CreateUserID is set once at creation and may
// become empty only when the creator is deleted (the task is orphaned, not
// removed). AssignedUsername and CreateUsername are denormalized copies kept
// on the record so listings and exports can render names without a join;
// they follow the same lifecycle as their id counterparts.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Status           TaskStatus `json:"status"`
	Priority         *int       `json:"priority,omitempty"`
	AssignedUserID   string     `json:"assigned_user_id,omitempty"`
	AssignedUsername string     `json:"assigned_username,omitempty"`
	CreateUserID     string     `json:"create_user_id,omitempty"`
	CreateUsername   string     `json:"create_username,omitempty"`
	CreatedDate      time.Time  `json:"created_date"`
}
