package project

// CreateProjectRequest holds the form fields of POST /projects. The video
// itself travels in the "video" multipart part.
type CreateProjectRequest struct {
	ProjectID     string `form:"projectId" validate:"required,max=64"`
	Name          string `form:"name" validate:"max=255"`
	TimeRequested string `form:"timeRequested" validate:"required,duration_bucket"`
}
