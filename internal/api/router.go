package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/task-system/internal/api/handler"
	"github.com/taskhive/task-system/internal/api/middleware"
	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
	healthhandlers "github.com/taskhive/task-system/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Role gates mirror the authorization model: approval and user management are
// restricted to managers and admins at the route level, everything else is
// decided by the domain policy inside the services.
func NewRouter(
	authService ports.AuthService,
	userService ports.UserService,
	taskService ports.TaskService,
	db *mongo.Database,
	rdb *redis.Client,
	jwtSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tasksystem"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, userService)
	taskHandler := handler.NewTaskHandler(taskService, userService)
	userHandler := handler.NewUserHandler(userService)

	auth := middleware.Auth(jwtSecret)
	managerOrAdmin := middleware.RBAC(domain.RoleManager, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/v1/auth/login", authHandler.Login)
	e.GET("/v1/auth/me", authHandler.Me, auth)

	// --- Task routes ---
	tasks := e.Group("/v1/tasks", auth)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/export", taskHandler.Export)
	tasks.PUT("/:id/approve", taskHandler.Approve, managerOrAdmin)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- User management routes ---
	users := e.Group("/v1/users", auth, managerOrAdmin)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
