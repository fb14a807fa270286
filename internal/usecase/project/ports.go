package project

import (
	"context"
	"io"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/storage"
)

// MediaStore persists source videos and rendered clips
type MediaStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, key string, opts storage.UploadOptions) (string, error)
	Delete(ctx context.Context, url string) (bool, error)
	URL(key string) string
}

// Transcriber converts a remote video into diarized utterances
type Transcriber interface {
	Transcribe(ctx context.Context, videoURL string) ([]entities.Utterance, error)
}

// SegmentSelector picks the ranked windows from a serialized transcript
type SegmentSelector interface {
	SelectTopSegments(ctx context.Context, transcript string, bucket entities.DurationBucket) ([]entities.Window, error)
}

// ClipCutter renders vertical clips and measures source length
type ClipCutter interface {
	Cut(ctx context.Context, source string, window entities.Window, outDir string) (string, error)
	Probe(ctx context.Context, source string) (float64, error)
}

var _ MediaStore = (*storage.MediaStore)(nil)
