package handler

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/magicscuts/errors"
	projectDTO "github.com/johnquangdev/magicscuts/internal/adapter/dto/project"
	"github.com/johnquangdev/magicscuts/internal/adapter/presenter"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	projectUsecase "github.com/johnquangdev/magicscuts/internal/usecase/project"
	"github.com/johnquangdev/magicscuts/pkg/config"
	"github.com/johnquangdev/magicscuts/pkg/middleware"
)

// Project handles project-related HTTP requests
type Project struct {
	service projectUsecase.Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service projectUsecase.Service, cfg *config.Config, logger *zap.Logger) *Project {
	return &Project{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateProject handles POST /projects
// @Summary      Submit a video
// @Description  Uploads a video, spends one credit and starts generating ten ranked vertical clips in the background
// @Tags         Projects
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        video          formData  file    true   "Source video"
// @Param        projectId      formData  string  true   "Client-generated project ID"
// @Param        name           formData  string  false  "Project name, defaults to the file name"
// @Param        timeRequested  formData  string  true   "Clip length bucket"  Enums(15-30s, 30-60s, 60-90s, 90-120s, 120-180s)
// @Success      202  {object}  common.SuccessResponse{data=project.ProjectResponse}  "Project accepted"
// @Failure      400  {object}  common.ErrorResponse  "Invalid form or file"
// @Failure      401  {object}  common.ErrorResponse  "User not authenticated"
// @Failure      402  {object}  common.ErrorResponse  "Not enough credits"
// @Failure      409  {object}  common.ErrorResponse  "Project ID already used"
// @Failure      413  {object}  common.ErrorResponse  "File too large"
// @Failure      500  {object}  common.ErrorResponse  "Internal error"
// @Router       /projects [post]
func (h *Project) CreateProject(c echo.Context) error {
	var req projectDTO.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video file is required"))
	}
	if fileHeader.Size <= 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video file is empty"))
	}
	if limit := h.uploadLimit(c); fileHeader.Size > limit {
		return HandleError(h.logger, c, errors.ErrUploadTooLarge(limit))
	}
	if ct := fileHeader.Header.Get(echo.HeaderContentType); !strings.HasPrefix(strings.ToLower(ct), "video/") {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("uploaded file must be a video").WithDetail("content_type", ct))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	defer file.Close()

	project, err := h.service.Submit(c.Request().Context(), projectUsecase.RunInput{
		File:        file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		UserID:      userID,
		ProjectID:   req.ProjectID,
		ProjectName: req.Name,
		Bucket:      entities.DurationBucket(req.TimeRequested),
	})
	if stdErrors.Is(err, entities.ErrDuplicateProject) {
		return HandleError(h.logger, c, errors.ErrProjectAlreadyExists(req.ProjectID))
	}
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, presenter.ToProjectResponse(project))
}

// uploadLimit returns the size cap for the caller, using the balance loaded
// by the credit middleware
func (h *Project) uploadLimit(c echo.Context) int64 {
	if balance, ok := c.Get(middleware.BalanceKey).(entities.CreditBalance); ok && balance.IsPremium {
		return h.cfg.Media.PremiumMaxUploadBytes
	}
	return h.cfg.Media.MaxUploadBytes
}

// GetProject handles GET /projects/:id
// @Summary      Get project
// @Description  Returns a project owned by the caller, including its clips once completed
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  common.SuccessResponse{data=project.ProjectResponse}
// @Failure      401  {object}  common.ErrorResponse  "User not authenticated"
// @Failure      403  {object}  common.ErrorResponse  "Project belongs to another user"
// @Failure      404  {object}  common.ErrorResponse  "Project not found"
// @Router       /projects/{id} [get]
func (h *Project) GetProject(c echo.Context) error {
	project, ok := c.Get(middleware.ProjectKey).(*entities.Project)
	if !ok {
		return HandleError(h.logger, c, errors.ErrProjectNotFound(c.Param("id")))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToProjectResponse(project))
}

// ListProjects handles GET /projects
// @Summary      List projects
// @Description  Lists the caller's projects, newest first
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=project.ListProjectsResponse}
// @Failure      401  {object}  common.ErrorResponse  "User not authenticated"
// @Router       /projects [get]
func (h *Project) ListProjects(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	projects, err := h.service.ListProjects(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToListProjectsResponse(projects))
}

// GetCredits handles GET /credits
// @Summary      Get credit balance
// @Tags         Credits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=project.CreditBalanceResponse}
// @Failure      401  {object}  common.ErrorResponse  "User not authenticated"
// @Failure      404  {object}  common.ErrorResponse  "User not found"
// @Router       /credits [get]
func (h *Project) GetCredits(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	balance, err := h.service.GetBalance(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToCreditBalanceResponse(balance))
}
