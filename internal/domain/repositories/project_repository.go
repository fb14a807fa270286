package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create inserts a pending project. Returns entities.ErrDuplicateProject
	// when the ID is taken; the existing row is left untouched.
	Create(ctx context.Context, project *entities.Project) error

	// Update replaces the segments and state of a project
	Update(ctx context.Context, id string, segments []entities.Segment, state entities.ProjectState) error

	// GetByID finds a project by ID
	GetByID(ctx context.Context, id string) (*entities.Project, error)

	// ListByUser returns a user's projects, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Project, error)
}
