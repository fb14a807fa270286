package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectState is the lifecycle state of a project
type ProjectState string

const (
	ProjectStatePending   ProjectState = "pending"
	ProjectStateCompleted ProjectState = "completed"
	ProjectStateFailed    ProjectState = "failed"
)

// IsTerminal reports whether no further transition can happen
func (s ProjectState) IsTerminal() bool {
	return s == ProjectStateCompleted || s == ProjectStateFailed
}

// IsValid checks if the state is known
func (s ProjectState) IsValid() bool {
	switch s {
	case ProjectStatePending, ProjectStateCompleted, ProjectStateFailed:
		return true
	}
	return false
}

// Project is one video-to-shorts job. The ID is generated by the client and
// doubles as an idempotency key.
type Project struct {
	ID               string                       `json:"id" gorm:"type:varchar(64);primary_key"`
	UserID           uuid.UUID                    `json:"user_id" gorm:"type:uuid;not null;index"`
	OriginalVideoURL *string                      `json:"original_video_url" gorm:"type:text"`
	DetectedSegments datatypes.JSONSlice[Segment] `json:"detected_segments"`
	State            ProjectState                 `json:"state" gorm:"type:varchar(20);not null;default:'pending';index"`
	Name             string                       `json:"name" gorm:"type:varchar(255)"`
	CreatedDate      time.Time                    `json:"createdDate" gorm:"column:created_date;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a pending project with no segments
func NewProject(id string, userID uuid.UUID, name string) *Project {
	return &Project{
		ID:               id,
		UserID:           userID,
		DetectedSegments: datatypes.JSONSlice[Segment]{},
		State:            ProjectStatePending,
		Name:             name,
		CreatedDate:      time.Now().UTC(),
	}
}

// OwnedBy reports whether the project belongs to userID
func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// Segments returns the detected segments as a plain slice
func (p *Project) Segments() []Segment {
	return []Segment(p.DetectedSegments)
}
