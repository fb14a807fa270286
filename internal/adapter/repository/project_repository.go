package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// ProjectRepository handles project data operations
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts the project unless its ID already exists
func (r *ProjectRepository) Create(ctx context.Context, project *entities.Project) error {
	if project == nil {
		return errors.New("project cannot be nil")
	}
	if project.DetectedSegments == nil {
		project.DetectedSegments = datatypes.JSONSlice[entities.Segment]{}
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(project)
	if result.Error != nil {
		return fmt.Errorf("failed to create project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateProject, project.ID)
	}
	return nil
}

// Update replaces segments and state in one statement
func (r *ProjectRepository) Update(ctx context.Context, id string, segments []entities.Segment, state entities.ProjectState) error {
	if !state.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidProjectState, state)
	}
	if segments == nil {
		segments = []entities.Segment{}
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"detected_segments": datatypes.JSONSlice[entities.Segment](segments),
			"state":             string(state),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrProjectNotFound, id)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entities.Project, error) {
	var project entities.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entities.ErrProjectNotFound, id)
		}
		return nil, err
	}
	return &project, nil
}

// ListByUser retrieves all projects of a user, newest first
func (r *ProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Project, error) {
	var projects []*entities.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_date DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
