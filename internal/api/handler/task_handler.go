package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/api/metrics"
	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	tasks ports.TaskService
	users ports.UserService
}

func NewTaskHandler(tasks ports.TaskService, users ports.UserService) *TaskHandler {
	return &TaskHandler{tasks: tasks, users: users}
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		AssignedUserID: req.AssignedUserID,
	}, actor)
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(actor.Role)).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List handles GET /v1/tasks — tasks visible under the caller's role scope.
//
// @Summary      List visible tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listTasksResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listTasksResponse{Data: toTaskResponses(tasks)})
}

// Approve handles PUT /v1/tasks/:id/approve. The route itself is gated to
// managers and admins by the RBAC middleware.
//
// @Summary      Approve or reject a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Task id"
// @Param        body  body      setTaskStatusRequest  true  "New status"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tasks/{id}/approve [put]
func (h *TaskHandler) Approve(c echo.Context) error {
	var req setTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.SetTaskStatus(c.Request().Context(), c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /v1/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	if err := h.tasks.DeleteTask(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Export handles GET /v1/tasks/export — the caller-scoped task list as a CSV
// attachment (UTF-8 with BOM for spreadsheet compatibility).
//
// @Summary      Export visible tasks as CSV
// @Tags         tasks
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Router       /v1/tasks/export [get]
func (h *TaskHandler) Export(c echo.Context) error {
	actor, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=UTF-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="tasks.csv"`)
	res.WriteHeader(http.StatusOK)

	return h.tasks.ExportCSV(c.Request().Context(), res, actor)
}
