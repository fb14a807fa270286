package presenter

import (
	projectDTO "github.com/johnquangdev/magicscuts/internal/adapter/dto/project"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// ToProjectResponse converts a Project entity to ProjectResponse DTO
func ToProjectResponse(p *entities.Project) *projectDTO.ProjectResponse {
	if p == nil {
		return nil
	}

	segments := make([]projectDTO.SegmentResponse, 0, len(p.DetectedSegments))
	for _, s := range p.Segments() {
		segments = append(segments, projectDTO.SegmentResponse{
			Rank:    s.Rank,
			Start:   s.Start,
			End:     s.End,
			Reason:  s.Reason,
			ClipURL: s.ClipURL,
		})
	}

	return &projectDTO.ProjectResponse{
		ID:               p.ID,
		UserID:           p.UserID.String(),
		OriginalVideoURL: p.OriginalVideoURL,
		DetectedSegments: segments,
		State:            string(p.State),
		Name:             p.Name,
		CreatedDate:      p.CreatedDate,
	}
}

// ToListProjectsResponse converts projects to the list DTO
func ToListProjectsResponse(projects []*entities.Project) *projectDTO.ListProjectsResponse {
	out := make([]*projectDTO.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return &projectDTO.ListProjectsResponse{
		Projects: out,
		Total:    len(out),
	}
}

// ToCreditBalanceResponse converts a balance to its DTO
func ToCreditBalanceResponse(b entities.CreditBalance) *projectDTO.CreditBalanceResponse {
	return &projectDTO.CreditBalanceResponse{
		Credits:   b.Credits,
		IsPremium: b.IsPremium,
	}
}
