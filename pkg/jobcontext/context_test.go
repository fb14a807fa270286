package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJobBeginDetachesFromParent(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	userID := uuid.New()

	ctx, cancel := JobBegin(parent, "proj-1", userID, time.Minute)
	defer cancel()
	cancelParent()

	if ctx.Err() != nil {
		t.Fatalf("job context cancelled with parent: %v", ctx.Err())
	}
	meta := GetJobMetadata(ctx)
	if meta.ProjectID != "proj-1" || meta.UserID != userID {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.StartTime.IsZero() {
		t.Fatal("start time not recorded")
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	err := Guard(context.Background(), func(context.Context) error {
		panic("boom")
	})
	if err == nil || err.Error() != "panic recovered: boom" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("invalid argument")
	err := Retry(context.Background(), time.Second, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryHonoursMarkedPermanent(t *testing.T) {
	calls := 0
	cause := errors.New("invalid JSON: unexpected EOF")
	err := Retry(context.Background(), 5*time.Second, func() error {
		calls++
		return Permanent(cause)
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected marked error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryRecoversFromTransientError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5*time.Second, func() error {
		calls++
		if calls < 2 {
			return fmt.Errorf("upload: connection reset by peer")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", fmt.Errorf("wrap: %w", context.Canceled), false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"rate limit", errors.New("429 Too Many Requests"), true},
		{"server error", errors.New("503 Service Unavailable"), true},
		{"client error", errors.New("400 bad request"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Fatalf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
