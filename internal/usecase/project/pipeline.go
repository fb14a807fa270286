package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	"github.com/johnquangdev/magicscuts/internal/domain/repositories"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/storage"
	ucerrors "github.com/johnquangdev/magicscuts/internal/usecase/errors"
	"github.com/johnquangdev/magicscuts/pkg/config"
	"github.com/johnquangdev/magicscuts/pkg/jobcontext"
)

// MaxProjectIDLength matches the width of projects.id
const MaxProjectIDLength = 64

// cleanupTimeout bounds the final state update and source removal, which run
// even when the run context has expired.
const cleanupTimeout = 30 * time.Second

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RunInput is one submitted video
type RunInput struct {
	File        io.Reader
	Size        int64
	FileName    string
	UserID      uuid.UUID
	ProjectID   string
	ProjectName string
	Bucket      entities.DurationBucket
}

// Validate checks the input before any side effect
func (in RunInput) Validate() error {
	if in.File == nil || in.Size <= 0 {
		return fmt.Errorf("%w: video file is empty", ucerrors.ErrValidation)
	}
	if in.UserID == uuid.Nil {
		return fmt.Errorf("%w: user is required", ucerrors.ErrValidation)
	}
	if strings.TrimSpace(in.ProjectID) == "" {
		return fmt.Errorf("%w: project id is required", ucerrors.ErrValidation)
	}
	if len(in.ProjectID) > MaxProjectIDLength {
		return fmt.Errorf("%w: project id longer than %d characters", ucerrors.ErrValidation, MaxProjectIDLength)
	}
	if !in.Bucket.IsValid() {
		return fmt.Errorf("%w: %w: %q", ucerrors.ErrValidation, entities.ErrInvalidDurationBucket, in.Bucket)
	}
	return nil
}

// Run is a prepared job: the project is pending, the credit is spent and the
// source sits in a private temp dir.
type Run struct {
	Project    *entities.Project
	Bucket     entities.DurationBucket
	FileName   string
	Size       int64
	tempDir    string
	sourcePath string
}

// Pipeline turns an uploaded video into ranked vertical clips
type Pipeline struct {
	projects    repositories.ProjectRepository
	credits     repositories.CreditLedger
	store       MediaStore
	transcriber Transcriber
	selector    SegmentSelector
	cutter      ClipCutter
	cfg         *config.Config
	logger      *zap.Logger
}

// NewPipeline constructs a pipeline over the given engines
func NewPipeline(
	projects repositories.ProjectRepository,
	credits repositories.CreditLedger,
	store MediaStore,
	transcriber Transcriber,
	selector SegmentSelector,
	cutter ClipCutter,
	cfg *config.Config,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		projects:    projects,
		credits:     credits,
		store:       store,
		transcriber: transcriber,
		selector:    selector,
		cutter:      cutter,
		cfg:         cfg,
		logger:      logger,
	}
}

// RunPipeline prepares and executes a job in the caller's goroutine
func (p *Pipeline) RunPipeline(ctx context.Context, in RunInput) ([]entities.Segment, error) {
	run, err := p.Prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx, run)
}

// Prepare validates the input, creates the pending project, spends one credit
// and spools the video to disk. A duplicate ID leaves the stored project as
// it was; a failed deduction leaves the new project pending.
func (p *Pipeline) Prepare(ctx context.Context, in RunInput) (*Run, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.ProjectName)
	if name == "" {
		name = in.FileName
	}

	project := entities.NewProject(in.ProjectID, in.UserID, name)
	if err := p.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if err := p.credits.CheckAndDeductCredit(ctx, in.UserID, p.cfg.Pipeline.CreditsPerProject); err != nil {
		return nil, fmt.Errorf("failed to deduct credit: %w", err)
	}

	run := &Run{
		Project:  project,
		Bucket:   in.Bucket,
		FileName: sanitizeFileName(in.FileName),
		Size:     in.Size,
	}
	if err := p.spool(run, in.File); err != nil {
		p.markFailed(ctx, project.ID)
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrPipeline, err)
	}

	p.logger.Info("📥 Project prepared",
		zap.String("project_id", project.ID),
		zap.String("user_id", in.UserID.String()),
		zap.Int64("size", in.Size),
		zap.String("bucket", string(in.Bucket)),
	)
	return run, nil
}

func (p *Pipeline) spool(run *Run, src io.Reader) error {
	dir, err := os.MkdirTemp(p.cfg.Media.TempDir, "magicscuts-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	run.tempDir = dir
	run.sourcePath = filepath.Join(dir, run.FileName)

	f, err := os.Create(run.sourcePath)
	if err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = fmt.Errorf("%w: video file is empty", ucerrors.ErrValidation)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	run.Size = n
	return nil
}

// Execute runs upload, transcription, selection, cutting and clip upload, then
// records the outcome. The temp dir and the uploaded source are removed on
// every exit path; a panic is recovered and reported as a failure. Errors
// wrap both ErrPipeline and the failing stage's error.
func (p *Pipeline) Execute(ctx context.Context, run *Run) ([]entities.Segment, error) {
	var sourceURL string
	defer p.cleanup(ctx, run, &sourceURL)

	projectID := run.Project.ID
	start := time.Now()

	var segments []entities.Segment
	err := jobcontext.Guard(ctx, func(ctx context.Context) error {
		var err error
		segments, err = p.execute(ctx, run, &sourceURL)
		return err
	})
	if err == nil {
		err = p.projects.Update(ctx, projectID, segments, entities.ProjectStateCompleted)
	}
	if err != nil {
		p.logger.Error("❌ Pipeline failed",
			zap.String("project_id", projectID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		p.markFailed(ctx, projectID)
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrPipeline, err)
	}

	p.logger.Info("✅ Pipeline completed",
		zap.String("project_id", projectID),
		zap.Int("segments", len(segments)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return segments, nil
}

func (p *Pipeline) execute(ctx context.Context, run *Run, sourceURL *string) ([]entities.Segment, error) {
	userID := run.Project.UserID.String()

	// The object can land even when the upload reports failure, so cleanup
	// needs the URL before the first attempt.
	key := p.sourceKey(run)
	*sourceURL = p.store.URL(key)
	url, err := p.uploadFile(ctx, run.sourcePath, key, storage.UploadOptions{})
	if err != nil {
		return nil, fmt.Errorf("upload source: %w", err)
	}

	var utterances []entities.Utterance
	err = p.retry(ctx, func() error {
		var err error
		utterances, err = p.transcriber.Transcribe(ctx, url)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	transcript, err := entities.SerializeTranscript(utterances)
	if err != nil {
		return nil, fmt.Errorf("%w: serialize transcript: %v", entities.ErrTranscription, err)
	}

	duration, err := p.cutter.Probe(ctx, run.sourcePath)
	if err != nil {
		return nil, fmt.Errorf("probe source: %w", err)
	}

	var windows []entities.Window
	err = p.retry(ctx, func() error {
		var err error
		windows, err = p.selector.SelectTopSegments(ctx, transcript, run.Bucket)
		// A bad answer stays bad on resend
		if err != nil && !errors.Is(err, entities.ErrEngineRequest) {
			return jobcontext.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("select segments: %w", err)
	}
	if err := entities.ValidateWindows(windows, duration); err != nil {
		return nil, err
	}
	entities.SortWindowsByRank(windows)

	// ffmpeg saturates CPU and bandwidth on its own; renders run one at a time.
	clipDir := filepath.Join(run.tempDir, "clips")
	clips := make([]string, len(windows))
	for i, w := range windows {
		clip, err := p.cutter.Cut(ctx, url, w, clipDir)
		if err != nil {
			return nil, fmt.Errorf("cut rank %d: %w", w.Rank, err)
		}
		clips[i] = clip
	}

	segments := make([]entities.Segment, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Pipeline.UploadConcurrency)
	for i, w := range windows {
		g.Go(func() error {
			return jobcontext.Guard(gctx, func(ctx context.Context) error {
				key := path.Join(p.cfg.Storage.KeyPrefix, userID, safeKeyPart(run.Project.ID),
					fmt.Sprintf("rank-%d-%s.mp4", w.Rank, uuid.NewString()))
				clipURL, err := p.uploadFile(ctx, clips[i], key, storage.UploadOptions{Attachment: true})
				if err != nil {
					return fmt.Errorf("upload clip rank %d: %w", w.Rank, err)
				}
				if err := os.Remove(clips[i]); err != nil {
					p.logger.Warn("Failed to remove local clip", zap.String("path", clips[i]), zap.Error(err))
				}
				segments[i] = entities.NewSegment(w, clipURL)
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}

// uploadFile opens localPath for every attempt so a retry never sends a
// half-consumed reader.
func (p *Pipeline) uploadFile(ctx context.Context, localPath, key string, opts storage.UploadOptions) (string, error) {
	var url string
	err := p.retry(ctx, func() error {
		f, err := os.Open(localPath)
		if err != nil {
			return fmt.Errorf("%w: open %s: %v", entities.ErrStorage, localPath, err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("%w: stat %s: %v", entities.ErrStorage, localPath, err)
		}
		url, err = p.store.Upload(ctx, f, info.Size(), key, opts)
		return err
	})
	return url, err
}

func (p *Pipeline) retry(ctx context.Context, op func() error) error {
	return jobcontext.Retry(ctx, p.cfg.Pipeline.RetryMaxElapsed, op)
}

func (p *Pipeline) sourceKey(run *Run) string {
	return path.Join(p.cfg.Storage.KeyPrefix, run.Project.UserID.String(), uuid.NewString()+"-"+run.FileName)
}

func (p *Pipeline) markFailed(ctx context.Context, projectID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := p.projects.Update(ctx, projectID, []entities.Segment{}, entities.ProjectStateFailed); err != nil {
		p.logger.Error("Failed to mark project failed", zap.String("project_id", projectID), zap.Error(err))
	}
}

func (p *Pipeline) cleanup(ctx context.Context, run *Run, sourceURL *string) {
	if run.tempDir != "" {
		if err := os.RemoveAll(run.tempDir); err != nil {
			p.logger.Warn("Failed to remove temp dir", zap.String("dir", run.tempDir), zap.Error(err))
		}
	}
	if *sourceURL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if _, err := p.store.Delete(ctx, *sourceURL); err != nil {
		p.logger.Warn("Failed to delete source video",
			zap.String("project_id", run.Project.ID),
			zap.String("url", *sourceURL),
			zap.Error(err),
		)
	}
}

func sanitizeFileName(name string) string {
	name = safeKeyPart(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == ".." {
		return "video.mp4"
	}
	return name
}

func safeKeyPart(s string) string {
	return strings.Trim(unsafeKeyChars.ReplaceAllString(s, "_"), "_")
}
