package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// currentUser resolves the authenticated actor from the claims injected by
// the Auth middleware. The full record is loaded so policy decisions see the
// actor's current role and manager relation, not the (possibly stale) token
// claims. A token for a since-deleted account is rejected as unauthorized.
func currentUser(c echo.Context, users ports.UserService) (*domain.User, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	user, err := users.GetByUsername(c.Request().Context(), username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown account")
		}
		return nil, err
	}
	return user, nil
}
