package assemblyai

import (
	"context"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// transcriptAPI is the subset of the SDK transcript service we call. The
// SDK blocks until the transcript reaches a terminal status.
type transcriptAPI interface {
	TranscribeFromURL(ctx context.Context, audioURL string, opts *aai.TranscriptOptionalParams) (aai.Transcript, error)
}

// Transcriber turns a remote video into diarized utterances
type Transcriber struct {
	transcripts transcriptAPI
	speechModel string
	logger      *zap.Logger
}

// NewTranscriber creates a transcriber backed by the AssemblyAI SDK
func NewTranscriber(apiKey, speechModel string, logger *zap.Logger) *Transcriber {
	client := aai.NewClient(apiKey)
	return &Transcriber{
		transcripts: client.Transcripts,
		speechModel: speechModel,
		logger:      logger,
	}
}

// Params returns the fixed option set sent with every request: diarization,
// punctuation, smart formatting and language detection.
func (t *Transcriber) Params() *aai.TranscriptOptionalParams {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels:     aai.Bool(true),
		Punctuate:         aai.Bool(true),
		FormatText:        aai.Bool(true),
		LanguageDetection: aai.Bool(true),
	}
	if t.speechModel != "" {
		params.SpeechModel = aai.SpeechModel(t.speechModel)
	}
	return params
}

// Transcribe fetches the transcript of videoURL. The whole transcript is
// rejected if the engine fails, returns no utterances, or any utterance lacks
// a required field.
func (t *Transcriber) Transcribe(ctx context.Context, videoURL string) ([]entities.Utterance, error) {
	if t.logger != nil {
		t.logger.Info("🎙️ Starting transcription", zap.String("video_url", videoURL))
	}

	transcript, err := t.transcripts.TranscribeFromURL(ctx, videoURL, t.Params())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrTranscription, err)
	}

	utterances, err := toUtterances(transcript)
	if err != nil {
		return nil, err
	}

	if t.logger != nil {
		language := ""
		if transcript.LanguageCode != "" {
			language = string(transcript.LanguageCode)
		}
		t.logger.Info("✅ Transcription completed",
			zap.Int("utterances", len(utterances)),
			zap.String("language", language),
		)
	}
	return utterances, nil
}

func toUtterances(transcript aai.Transcript) ([]entities.Utterance, error) {
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("%w: engine error: %s", entities.ErrTranscription, msg)
	}
	if transcript.Status != "" && transcript.Status != aai.TranscriptStatusCompleted {
		return nil, fmt.Errorf("%w: transcript ended in status %q", entities.ErrTranscription, transcript.Status)
	}
	if len(transcript.Utterances) == 0 {
		return nil, fmt.Errorf("%w: no utterances returned", entities.ErrTranscription)
	}

	speakers := make(map[string]int)
	utterances := make([]entities.Utterance, 0, len(transcript.Utterances))
	for i, utt := range transcript.Utterances {
		if utt.Start == nil || utt.End == nil || utt.Text == nil || utt.Speaker == nil {
			return nil, fmt.Errorf("%w: utterance %d is missing start, end, text or speaker", entities.ErrTranscription, i)
		}

		label, ok := speakers[*utt.Speaker]
		if !ok {
			label = len(speakers)
			speakers[*utt.Speaker] = label
		}

		utterance := entities.Utterance{
			Start:      msToSeconds(*utt.Start),
			End:        msToSeconds(*utt.End),
			Transcript: *utt.Text,
			Speaker:    label,
		}
		for _, w := range utt.Words {
			// word detail is optional; incomplete words are skipped
			if w.Text == nil || w.Start == nil || w.End == nil {
				continue
			}
			utterance.Words = append(utterance.Words, entities.Word{
				Text:  *w.Text,
				Start: msToSeconds(*w.Start),
				End:   msToSeconds(*w.End),
			})
		}
		utterances = append(utterances, utterance)
	}
	return utterances, nil
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000.0
}
