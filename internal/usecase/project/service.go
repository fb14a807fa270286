package project

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	"github.com/johnquangdev/magicscuts/internal/domain/repositories"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/cache"
	ucerrors "github.com/johnquangdev/magicscuts/internal/usecase/errors"
	"github.com/johnquangdev/magicscuts/pkg/config"
	"github.com/johnquangdev/magicscuts/pkg/jobcontext"
)

// Service defines the interface for project use case
type Service interface {
	// Submit prepares a project and runs the pipeline in the background. It
	// returns the pending project once the credit is spent.
	Submit(ctx context.Context, input RunInput) (*entities.Project, error)

	// GetProject retrieves a project owned by userID
	GetProject(ctx context.Context, userID uuid.UUID, projectID string) (*entities.Project, error)

	// ListProjects retrieves the caller's projects, newest first
	ListProjects(ctx context.Context, userID uuid.UUID) ([]*entities.Project, error)

	// GetBalance returns the caller's credit balance
	GetBalance(ctx context.Context, userID uuid.UUID) (entities.CreditBalance, error)

	// Wait blocks until background runs finish or ctx is done
	Wait(ctx context.Context) error
}

// Ensure ProjectService implements Service interface
var _ Service = (*ProjectService)(nil)

// ProjectService implements Service
type ProjectService struct {
	pipeline *Pipeline
	projects repositories.ProjectRepository
	credits  repositories.CreditLedger
	cache    cache.Store
	cfg      *config.Config
	logger   *zap.Logger
	runs     sync.WaitGroup
}

// NewProjectService creates a new project service. store may be nil, which
// disables read caching.
func NewProjectService(
	pipeline *Pipeline,
	projects repositories.ProjectRepository,
	credits repositories.CreditLedger,
	store cache.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		pipeline: pipeline,
		projects: projects,
		credits:  credits,
		cache:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// Submit implements Service
func (s *ProjectService) Submit(ctx context.Context, input RunInput) (*entities.Project, error) {
	run, err := s.pipeline.Prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	jobCtx, cancel := jobcontext.JobBegin(ctx, run.Project.ID, run.Project.UserID, s.cfg.Pipeline.RunTimeout)
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		defer cancel()

		meta := jobcontext.GetJobMetadata(jobCtx)
		if _, err := s.pipeline.Execute(jobCtx, run); err != nil {
			s.logger.Warn("Background run ended with failure",
				zap.String("project_id", meta.ProjectID),
				zap.String("user_id", meta.UserID.String()),
				zap.Duration("elapsed", time.Since(meta.StartTime)),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("Background run finished",
			zap.String("project_id", meta.ProjectID),
			zap.Duration("elapsed", time.Since(meta.StartTime)),
		)
	}()

	return run.Project, nil
}

// GetProject implements Service. Only terminal projects are cached since
// they never change afterwards.
func (s *ProjectService) GetProject(ctx context.Context, userID uuid.UUID, projectID string) (*entities.Project, error) {
	project, ok := s.cached(ctx, projectID)
	if !ok {
		var err error
		project, err = s.projects.GetByID(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if project.State.IsTerminal() {
			s.store(ctx, project)
		}
	}

	if !project.OwnedBy(userID) {
		return nil, fmt.Errorf("%w: project %s belongs to another user", ucerrors.ErrUnauthorized, projectID)
	}
	return project, nil
}

// ListProjects implements Service
func (s *ProjectService) ListProjects(ctx context.Context, userID uuid.UUID) ([]*entities.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

// GetBalance implements Service
func (s *ProjectService) GetBalance(ctx context.Context, userID uuid.UUID) (entities.CreditBalance, error) {
	return s.credits.GetBalance(ctx, userID)
}

// Wait implements Service
func (s *ProjectService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for pipeline runs: %w", ctx.Err())
	}
}

func cacheKey(projectID string) string {
	return "project:" + projectID
}

func (s *ProjectService) cached(ctx context.Context, projectID string) (*entities.Project, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, cacheKey(projectID))
	if err != nil {
		s.logger.Warn("Project cache read failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var project entities.Project
	if err := json.Unmarshal(b, &project); err != nil {
		s.logger.Warn("Discarding corrupt cache entry", zap.String("project_id", projectID), zap.Error(err))
		_ = s.cache.Delete(ctx, cacheKey(projectID))
		return nil, false
	}
	return &project, true
}

func (s *ProjectService) store(ctx context.Context, project *entities.Project) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(project)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(project.ID), b, s.cfg.Redis.CacheTTL); err != nil {
		s.logger.Warn("Project cache write failed", zap.String("project_id", project.ID), zap.Error(err))
	}
}
