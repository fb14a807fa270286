package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	authMiddleware "github.com/johnquangdev/magicscuts/internal/infrastructure/http/middleware"
	projectUsecase "github.com/johnquangdev/magicscuts/internal/usecase/project"
	"github.com/johnquangdev/magicscuts/pkg/config"
	"github.com/johnquangdev/magicscuts/pkg/jwt"
	"github.com/johnquangdev/magicscuts/pkg/middleware"
)

// uploadOverhead leaves room for multipart boundaries and form fields on top
// of the largest allowed file
const uploadOverhead = 1 << 20

// HealthChecker reports whether a dependency is reachable
type HealthChecker func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	jwtManager     *jwt.Manager
	projectService projectUsecase.Service
	projectHandler *Project
	checks         map[string]HealthChecker
	logger         *zap.Logger
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, jwtManager *jwt.Manager, projectService projectUsecase.Service, checks map[string]HealthChecker, logger *zap.Logger) *Router {
	return &Router{
		cfg:            cfg,
		jwtManager:     jwtManager,
		projectService: projectService,
		projectHandler: NewProjectHandler(projectService, cfg, logger),
		checks:         checks,
		logger:         logger,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(rt.logger)

	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1", authMiddleware.EchoAuth(rt.jwtManager))

	rt.setupProjectRoutes(v1)
	v1.GET("/credits", rt.projectHandler.GetCredits)
}

// setupProjectRoutes configures project routes
func (rt *Router) setupProjectRoutes(g *echo.Group) {
	projects := g.Group("/projects")

	maxBody := rt.cfg.Media.MaxUploadBytes
	if rt.cfg.Media.PremiumMaxUploadBytes > maxBody {
		maxBody = rt.cfg.Media.PremiumMaxUploadBytes
	}

	projects.POST("", rt.projectHandler.CreateProject,
		middleware.RequireCredits(rt.projectService, rt.cfg.Pipeline.CreditsPerProject),
		echoMiddleware.BodyLimit(strconv.FormatInt(maxBody+uploadOverhead, 10)),
	)
	projects.GET("", rt.projectHandler.ListProjects)
	projects.GET("/:id", rt.projectHandler.GetProject, middleware.RequireProjectOwner(rt.projectService))
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(rt.checks))
	for name, check := range rt.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	return c.JSON(status, map[string]interface{}{
		"status":       state,
		"environment":  rt.cfg.Server.Environment,
		"dependencies": deps,
	})
}
