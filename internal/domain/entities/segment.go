package entities

import (
	"fmt"
	"math"
	"sort"
)

// SegmentCount is the number of ranked windows every project produces
const SegmentCount = 10

// Window is a ranked time range chosen by the selection model
type Window struct {
	Rank   int     `json:"rank"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Reason string  `json:"reason"`
}

// Duration returns the window length in seconds
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Segment is a cut and uploaded window
type Segment struct {
	Rank    int     `json:"rank"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Reason  string  `json:"reason"`
	ClipURL string  `json:"clip_url,omitempty"`
}

// NewSegment builds a segment from a window and its clip location
func NewSegment(w Window, clipURL string) Segment {
	return Segment{
		Rank:    w.Rank,
		Start:   w.Start,
		End:     w.End,
		Reason:  w.Reason,
		ClipURL: clipURL,
	}
}

// SortWindowsByRank orders windows with rank 1 first
func SortWindowsByRank(windows []Window) {
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Rank < windows[j].Rank
	})
}

// ValidateWindows checks that windows hold exactly SegmentCount entries whose
// ranks are a permutation of 1..SegmentCount and whose bounds are ordered. A
// positive maxEnd also bounds every end offset. Violations wrap ErrSelection.
func ValidateWindows(windows []Window, maxEnd float64) error {
	if len(windows) != SegmentCount {
		return fmt.Errorf("%w: expected %d segments, got %d", ErrSelection, SegmentCount, len(windows))
	}

	seen := make(map[int]bool, SegmentCount)
	for i, w := range windows {
		if w.Rank < 1 || w.Rank > SegmentCount {
			return fmt.Errorf("%w: segment %d has rank %d outside 1..%d", ErrSelection, i, w.Rank, SegmentCount)
		}
		if seen[w.Rank] {
			return fmt.Errorf("%w: duplicate rank %d", ErrSelection, w.Rank)
		}
		seen[w.Rank] = true

		if math.IsNaN(w.Start) || math.IsNaN(w.End) || w.Start < 0 {
			return fmt.Errorf("%w: rank %d has invalid start %v", ErrSelection, w.Rank, w.Start)
		}
		if w.End <= w.Start {
			return fmt.Errorf("%w: rank %d ends at %v before start %v", ErrSelection, w.Rank, w.End, w.Start)
		}
		if maxEnd > 0 && w.End > maxEnd {
			return fmt.Errorf("%w: rank %d ends at %v past source duration %v", ErrSelection, w.Rank, w.End, maxEnd)
		}
	}
	return nil
}
