package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// Output geometry of every clip
const (
	OutputWidth  = 1080
	OutputHeight = 1920
)

// verticalFilter center-crops to 9:16 using the source height, then scales
// to the canonical vertical resolution.
var verticalFilter = fmt.Sprintf("crop=ih*(9/16):ih:(iw-ih*(9/16))/2:0,scale=%d:%d", OutputWidth, OutputHeight)

// FFmpegCutter cuts vertical clips with the ffmpeg CLI
type FFmpegCutter struct {
	ffmpeg  string
	ffprobe string
	logger  *zap.Logger
}

// NewFFmpegCutter creates a cutter using the given binaries
func NewFFmpegCutter(ffmpegPath, ffprobePath string, logger *zap.Logger) *FFmpegCutter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegCutter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, logger: logger}
}

// Cut renders window of source into outDir and returns the clip path. Audio
// is copied without re-encoding.
func (c *FFmpegCutter) Cut(ctx context.Context, source string, window entities.Window, outDir string) (string, error) {
	if window.End <= window.Start {
		return "", fmt.Errorf("%w: rank %d has non-positive duration", entities.ErrCutting, window.Rank)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %v", entities.ErrCutting, err)
	}

	out := filepath.Join(outDir, fmt.Sprintf("clip-%02d.mp4", window.Rank))
	cmd := exec.CommandContext(ctx, c.ffmpeg, cutArgs(source, window, out)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(out)
		return "", fmt.Errorf("%w: ffmpeg render clip rank %d: %v\n%s", entities.ErrCutting, window.Rank, err, tail(string(b), 2000))
	}

	if c.logger != nil {
		c.logger.Debug("✂️ Clip rendered",
			zap.Int("rank", window.Rank),
			zap.Float64("start", window.Start),
			zap.Float64("end", window.End),
			zap.String("path", out),
		)
	}
	return out, nil
}

// Probe returns the duration of a media file in seconds
func (c *FFmpegCutter) Probe(ctx context.Context, source string) (float64, error) {
	cmd := exec.CommandContext(ctx, c.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		source,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe duration: %v\n%s", entities.ErrCutting, err, tail(string(b), 2000))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || sec <= 0 {
		return 0, fmt.Errorf("%w: parse duration %q", entities.ErrCutting, s)
	}
	return sec, nil
}

func cutArgs(source string, window entities.Window, out string) []string {
	return []string{
		"-y",
		"-ss", fmtSeconds(window.Start),
		"-i", source,
		"-t", fmtSeconds(window.Duration()),
		"-vf", verticalFilter,
		"-c:a", "copy",
		out,
	}
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
