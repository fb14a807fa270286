package project

import "time"

// SegmentResponse is one ranked clip
type SegmentResponse struct {
	Rank    int     `json:"rank"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Reason  string  `json:"reason"`
	ClipURL string  `json:"clip_url,omitempty"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	OriginalVideoURL *string           `json:"original_video_url"`
	DetectedSegments []SegmentResponse `json:"detected_segments"`
	State            string            `json:"state"`
	Name             string            `json:"name"`
	CreatedDate      time.Time         `json:"createdDate"`
}

// ListProjectsResponse represents the caller's projects
type ListProjectsResponse struct {
	Projects []*ProjectResponse `json:"projects"`
	Total    int                `json:"total"`
}

// CreditBalanceResponse represents the caller's spendable credits
type CreditBalanceResponse struct {
	Credits   int  `json:"credits"`
	IsPremium bool `json:"is_premium"`
}
