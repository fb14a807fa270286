package presenter

import (
	"testing"

	"github.com/google/uuid"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

func TestToProjectResponse(t *testing.T) {
	if ToProjectResponse(nil) != nil {
		t.Fatal("expected nil for nil project")
	}

	p := entities.NewProject("p1", uuid.New(), "talk")
	resp := ToProjectResponse(p)
	if resp.DetectedSegments == nil || len(resp.DetectedSegments) != 0 {
		t.Fatalf("pending project must render an empty segment list, got %v", resp.DetectedSegments)
	}
	if resp.State != "pending" || resp.UserID != p.UserID.String() {
		t.Fatalf("unexpected response: %+v", resp)
	}

	p.DetectedSegments = append(p.DetectedSegments, entities.Segment{Rank: 1, Start: 1, End: 2, Reason: "r", ClipURL: "u"})
	resp = ToProjectResponse(p)
	if len(resp.DetectedSegments) != 1 || resp.DetectedSegments[0].ClipURL != "u" {
		t.Fatalf("unexpected segments: %+v", resp.DetectedSegments)
	}
}
