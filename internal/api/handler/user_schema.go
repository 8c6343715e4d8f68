package handler

import "time"

type createUserRequest struct {
	Username string `json:"username"   validate:"required,min=3"`
	Password string `json:"password"   validate:"required,min=6"`
	Email    string `json:"email"      validate:"omitempty,email"`
	Role     string `json:"role"       validate:"required,oneof=admin manager user"`
	// ManagerID is honoured for admin callers only; manager callers always
	// own the accounts they create.
	ManagerID string `json:"manager_id"`
}

type updateUserRequest struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	ManagerID string    `json:"manager_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listUsersResponse struct {
	Data []userResponse `json:"data"`
}
