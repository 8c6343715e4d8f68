package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createTaskRequest struct {
	Title          string `json:"title"            validate:"required"`
	Description    string `json:"description"`
	Priority       *int   `json:"priority"         validate:"omitempty,min=1,max=5"`
	AssignedUserID string `json:"assigned_user_id"`
}

type setTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

// Response-only types owned by the transport layer, kept separate from the
// domain types so the JSON contract is not coupled to internal changes.

type taskResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Status           string    `json:"status"`
	Priority         *int      `json:"priority,omitempty"`
	AssignedUserID   string    `json:"assigned_user_id,omitempty"`
	AssignedUsername string    `json:"assigned_username,omitempty"`
	CreateUserID     string    `json:"create_user_id,omitempty"`
	CreateUsername   string    `json:"create_username,omitempty"`
	CreatedDate      time.Time `json:"created_date"`
}

type listTasksResponse struct {
	Data []taskResponse `json:"data"`
}
