package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/magicscuts/errors"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	ucerrors "github.com/johnquangdev/magicscuts/internal/usecase/errors"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode errors.ErrorCode
	}{
		{"validation", fmt.Errorf("%w: bad bucket", ucerrors.ErrValidation), http.StatusBadRequest, errors.ErrorCode_INVALID_ARGUMENT},
		{"bucket", entities.ErrInvalidDurationBucket, http.StatusBadRequest, errors.ErrorCode_INVALID_ARGUMENT},
		{"duplicate", fmt.Errorf("insert: %w", entities.ErrDuplicateProject), http.StatusConflict, errors.ErrorCode_ALREADY_EXISTS},
		{"credit", entities.ErrInsufficientCredit, http.StatusPaymentRequired, errors.ErrorCode_INSUFFICIENT_CREDITS},
		{"unauthorized", ucerrors.ErrUnauthorized, http.StatusForbidden, errors.ErrorCode_PERMISSION_DENIED},
		{"project not found", entities.ErrProjectNotFound, http.StatusNotFound, errors.ErrorCode_NOT_FOUND},
		{"user not found", entities.ErrUserNotFound, http.StatusNotFound, errors.ErrorCode_AUTH_USER_NOT_FOUND},
		{"pipeline", fmt.Errorf("%w: %w", ucerrors.ErrPipeline, entities.ErrSelection), http.StatusInternalServerError, errors.ErrorCode_PIPELINE_FAILED},
		{"storage", fmt.Errorf("%w: bucket gone", entities.ErrStorage), http.StatusInternalServerError, errors.ErrorCode_INTEGRATION_STORAGE_FAILED},
		{"app error passthrough", errors.ErrUploadTooLarge(10), http.StatusRequestEntityTooLarge, errors.ErrorCode_UPLOAD_TOO_LARGE},
		{"echo error", echo.NewHTTPError(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge, errors.ErrorCode_UPLOAD_TOO_LARGE},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, errors.ErrorCode_INTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError(tt.err)
			if got.HTTPCode != tt.wantHTTP || got.Code != tt.wantCode {
				t.Fatalf("ToAppError(%v) = %d/%s, want %d/%s", tt.err, got.HTTPCode, got.Code, tt.wantHTTP, tt.wantCode)
			}
			if got.Raw == nil && got.HTTPCode >= http.StatusInternalServerError {
				t.Fatalf("expected raw error to be kept for logging")
			}
		})
	}
}
