package handler

import "github.com/taskhive/task-system/internal/core/domain"

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         t.Priority,
		AssignedUserID:   t.AssignedUserID,
		AssignedUsername: t.AssignedUsername,
		CreateUserID:     t.CreateUserID,
		CreateUsername:   t.CreateUsername,
		CreatedDate:      t.CreatedDate,
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
