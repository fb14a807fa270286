package errors

import "errors"

// Common errors
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPipeline     = errors.New("pipeline failed")
)
