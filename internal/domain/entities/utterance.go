package entities

import "encoding/json"

// Word is a single timed token inside an utterance
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Utterance is a diarized span of speech. Offsets are in seconds.
type Utterance struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Transcript string  `json:"transcript"`
	Speaker    int     `json:"speaker"`
	Words      []Word  `json:"words,omitempty"`
}

type promptUtterance struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Transcript string  `json:"transcript"`
	Speaker    int     `json:"speaker"`
}

// SerializeTranscript renders utterances as compact JSON keeping only start,
// end, transcript and speaker
func SerializeTranscript(utterances []Utterance) (string, error) {
	out := make([]promptUtterance, len(utterances))
	for i, u := range utterances {
		out[i] = promptUtterance{
			Start:      u.Start,
			End:        u.End,
			Transcript: u.Transcript,
			Speaker:    u.Speaker,
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
