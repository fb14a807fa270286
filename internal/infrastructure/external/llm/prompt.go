package llm

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// SchemaName identifies the response schema sent to the model
const SchemaName = "segments_schema"

// segmentsSchema constrains the model to {"segments":[{rank,start,end,reason}]}
var segmentsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"segments": map[string]any{
			"type":        "array",
			"description": "Exactly ten segments ranked by viral potential.",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"rank":   map[string]any{"type": "number", "description": "Rank from 1 (most viral) to 10."},
					"start":  map[string]any{"type": "number", "description": "Start offset in seconds."},
					"end":    map[string]any{"type": "number", "description": "End offset in seconds."},
					"reason": map[string]any{"type": "string", "description": "Why the segment can go viral, in the transcript's language."},
				},
				"required":             []string{"rank", "start", "end", "reason"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"segments"},
	"additionalProperties": false,
}

// BuildPrompt embeds the serialized transcript verbatim and states every
// output rule the response parser enforces.
func BuildPrompt(transcript string, bucket entities.DurationBucket) string {
	duration := bucket.Describe()

	var b strings.Builder
	b.WriteString("You analyse video transcripts and find the moments most likely to go viral as short vertical clips.\n\n")
	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "1. Return exactly %d segments.\n", entities.SegmentCount)
	fmt.Fprintf(&b, "2. Each segment should last %s. Consecutive utterances may be merged to reach that length. ", duration)
	b.WriteString("If the transcript is too short or too long for that length, pick the closest approximations that still give distinct moments.\n")
	fmt.Fprintf(&b, "3. rank is an integer from 1 to %d. 1 is the strongest viral potential. Every rank is used exactly once, with no gaps and no duplicates.\n", entities.SegmentCount)
	b.WriteString("4. start and end are offsets in seconds taken from the transcript timestamps, with end greater than start.\n")
	b.WriteString("5. reason is a short explanation (emotional peak, humour, surprising fact, tension...) written in the same language as the transcript.\n")
	b.WriteString("6. Respond with JSON only: an object with a single key \"segments\" holding the array. No markdown, no commentary, no extra keys.\n\n")
	b.WriteString("Each transcript entry has start and end in seconds, the spoken text and a numeric speaker label.\n\n")
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Now select exactly %d segments of about %s, ranked 1 to %d.\n", entities.SegmentCount, duration, entities.SegmentCount)
	b.WriteString(`Example shape: {"segments":[{"rank":1,"start":0,"end":24.5,"reason":"..."}]}`)
	return b.String()
}
