package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientCredit = errors.New("insufficient credit")

	// Project errors
	ErrProjectNotFound       = errors.New("project not found")
	ErrDuplicateProject      = errors.New("project already exists")
	ErrInvalidDurationBucket = errors.New("invalid duration bucket")
	ErrInvalidProjectState   = errors.New("invalid project state")

	// Pipeline stage errors
	ErrTranscription = errors.New("transcription failed")
	ErrSelection     = errors.New("segment selection failed")
	ErrCutting       = errors.New("clip cutting failed")
	ErrStorage       = errors.New("storage operation failed")

	// ErrEngineRequest marks a failed call to an external engine, as opposed
	// to a bad answer from it
	ErrEngineRequest = errors.New("engine request failed")
)
