package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type KeyContext string

var (
	keyProjectID    KeyContext = "project_id"
	keyUserID       KeyContext = "user_id"
	keyJobStartTime KeyContext = "job_start_time"
)

// JobMetadata holds metadata for a pipeline run
type JobMetadata struct {
	ProjectID string
	UserID    uuid.UUID
	StartTime time.Time
}

// JobBegin derives a context for a pipeline run. The run is detached from the
// caller's cancellation so the HTTP request finishing does not abort it, and
// bounded by timeout when timeout > 0.
func JobBegin(parentCtx context.Context, projectID string, userID uuid.UUID, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parentCtx)
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	ctx = context.WithValue(ctx, keyProjectID, projectID)
	ctx = context.WithValue(ctx, keyUserID, userID)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// Guard runs fn and converts a panic into an error
func Guard(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
	}
	return fn(ctx)
}

// Retry calls op until it succeeds or fails with a non-retryable error. It
// gives up once maxElapsed has passed.
func Retry(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = maxElapsed

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return err
		}
		if !IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// Permanent marks err so Retry returns it without another attempt
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// GetProjectID extracts the project ID from context
func GetProjectID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyProjectID).(string)
	return id, ok
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyUserID).(uuid.UUID)
	return id, ok
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	projectID, _ := GetProjectID(ctx)
	userID, _ := GetUserID(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		ProjectID: projectID,
		UserID:    userID,
		StartTime: startTime,
	}
}

// IsRetryableError checks if an error should trigger a retry
// Retryable errors include: network errors, timeouts, rate limits, 5xx
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Our own cancellation is final
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "unexpected eof") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "status 429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "slowdown") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
