package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// Selector asks an OpenAI-compatible chat model for the ten most viral
// windows of a transcript
type Selector struct {
	client          openai.Client
	model           string
	maxOutputTokens int64
	logger          *zap.Logger
}

// Config configures the selection model
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int64
}

// NewSelector creates a selector. The client does not retry on its own; the
// pipeline owns backoff. Extra request options are appended after the
// defaults.
func NewSelector(cfg Config, logger *zap.Logger, opts ...option.RequestOption) *Selector {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &Selector{
		client:          openai.NewClient(reqOpts...),
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		logger:          logger,
	}
}

// SelectTopSegments returns exactly ten validated windows or an error
// wrapping entities.ErrSelection. Output is never padded or repaired.
func (s *Selector) SelectTopSegments(ctx context.Context, transcript string, bucket entities.DurationBucket) ([]entities.Window, error) {
	if !bucket.IsValid() {
		return nil, fmt.Errorf("%w: %w", entities.ErrSelection, entities.ErrInvalidDurationBucket)
	}

	params := s.requestParams(BuildPrompt(transcript, bucket))

	if s.logger != nil {
		s.logger.Info("🤖 Requesting segment selection",
			zap.String("model", s.model),
			zap.String("bucket", string(bucket)),
			zap.Int("transcript_bytes", len(transcript)),
		)
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: chat completion: %w", entities.ErrSelection, entities.ErrEngineRequest, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: model returned no choices", entities.ErrSelection)
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("%w: model refused: %s", entities.ErrSelection, truncate(choice.Message.Refusal, 200))
	}
	if choice.FinishReason == "length" {
		return nil, fmt.Errorf("%w: response truncated at token limit", entities.ErrSelection)
	}

	windows, err := ParseSegments(choice.Message.Content)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Rejected selection output",
				zap.String("content", truncate(choice.Message.Content, 500)),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return windows, nil
}

func (s *Selector) requestParams(prompt string) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   SchemaName,
					Strict: openai.Bool(true),
					Schema: segmentsSchema,
				},
			},
		},
	}
	if s.maxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(s.maxOutputTokens)
	}
	if isReasoningModel(s.model) {
		if supportsReasoningEffort(s.model) {
			params.ReasoningEffort = shared.ReasoningEffortHigh
		}
	} else {
		params.Temperature = openai.Float(0.2)
	}
	return params
}

type rawSegment struct {
	Rank   *float64 `json:"rank"`
	Start  *float64 `json:"start"`
	End    *float64 `json:"end"`
	Reason *string  `json:"reason"`
}

// ParseSegments decodes a model response strictly: unknown keys, missing
// fields, fractional ranks and any count other than ten are rejected.
func ParseSegments(content string) ([]entities.Window, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(content))))
	dec.DisallowUnknownFields()

	var out struct {
		Segments *[]rawSegment `json:"segments"`
	}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", entities.ErrSelection, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", entities.ErrSelection)
	}
	if out.Segments == nil {
		return nil, fmt.Errorf("%w: missing segments", entities.ErrSelection)
	}

	raw := *out.Segments
	if len(raw) != entities.SegmentCount {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", entities.ErrSelection, entities.SegmentCount, len(raw))
	}

	windows := make([]entities.Window, 0, len(raw))
	for i, r := range raw {
		if r.Rank == nil || r.Start == nil || r.End == nil || r.Reason == nil {
			return nil, fmt.Errorf("%w: segment %d is missing rank, start, end or reason", entities.ErrSelection, i)
		}
		if *r.Rank != math.Trunc(*r.Rank) {
			return nil, fmt.Errorf("%w: segment %d has non-integer rank %v", entities.ErrSelection, i, *r.Rank)
		}
		windows = append(windows, entities.Window{
			Rank:   int(*r.Rank),
			Start:  *r.Start,
			End:    *r.End,
			Reason: *r.Reason,
		})
	}

	if err := entities.ValidateWindows(windows, 0); err != nil {
		return nil, err
	}
	return windows, nil
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// o1-mini predates the reasoning_effort parameter
func supportsReasoningEffort(model string) bool {
	return !strings.HasPrefix(strings.ToLower(model), "o1-mini")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
