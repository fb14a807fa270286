package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/magicscuts/errors"
	"github.com/johnquangdev/magicscuts/internal/adapter/dto/common"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/magicscuts/internal/usecase/errors"
)

// getRequestID tries to read X-Request-ID from the request or response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// ToAppError maps use case and domain errors onto the HTTP error model.
// Unknown errors become an opaque internal error.
func ToAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		return errors.AppError{
			Raw:      err,
			HTTPCode: httpErr.Code,
			Code:     codeForStatus(httpErr.Code),
			Message:  http.StatusText(httpErr.Code),
		}
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrValidation),
		stdErrors.Is(err, entities.ErrInvalidDurationBucket):
		appErr = errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrDuplicateProject):
		appErr = errors.ErrAlreadyExists("project")
	case stdErrors.Is(err, entities.ErrInsufficientCredit):
		appErr = errors.ErrInsufficientCredits()
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		appErr = errors.ErrPermissionDenied("project belongs to another user")
	case stdErrors.Is(err, entities.ErrProjectNotFound):
		appErr = errors.ErrNotFound("project")
	case stdErrors.Is(err, entities.ErrUserNotFound):
		appErr = errors.ErrUserNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrPipeline):
		appErr = errors.ErrPipelineFailed(err)
	case stdErrors.Is(err, entities.ErrStorage):
		appErr = errors.ErrStorageFailed("object storage", err)
	default:
		appErr = errors.ErrInternal(err)
	}
	if appErr.Raw == nil {
		appErr.Raw = err
	}
	return appErr
}

func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrorCode_INVALID_ARGUMENT
	case http.StatusUnauthorized:
		return errors.ErrorCode_UNAUTHENTICATED
	case http.StatusForbidden:
		return errors.ErrorCode_PERMISSION_DENIED
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.ErrorCode_NOT_FOUND
	case http.StatusRequestEntityTooLarge:
		return errors.ErrorCode_UPLOAD_TOO_LARGE
	}
	return errors.ErrorCode_INTERNAL
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger.
// Server-side failures are logged in full and reported without detail.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := ToAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	body := common.ErrorResponse{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if appErr.HTTPCode < http.StatusInternalServerError && appErr.Raw != nil && appErr.Raw.Error() != appErr.Message {
		body.Info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, body)
}

// NewHTTPErrorHandler routes every error escaping a handler or middleware
// through HandleError
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if herr := HandleError(logger, c, err); herr != nil && logger != nil {
			logger.Error("failed to write error response", zap.Error(herr))
		}
	}
}
