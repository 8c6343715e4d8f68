package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// AuthService authenticates credentials and mints session tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
