package domain

import (
	"errors"
	"time"
)

// Role is the closed set of access levels in the two-level hierarchy.
// Policy decisions switch exhaustively over these values so that adding a
// role forces every decision site to be revisited.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateUsername = errors.New("username already exists")
var ErrPermissionDenied = errors.New("permission denied")
var ErrUserHasAssignedTasks = errors.New("user has at least one assigned task")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")

// User models an account. ManagerID references the MANAGER (or ADMIN) who
// owns the account; it is empty for managers and admins, and for users whose
// manager has since been deleted. Only the id is held here — the full manager
// record is resolved through the repository on demand.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ManagerID    string    `json:"manager_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
