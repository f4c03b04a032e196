package queryloom

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
var (
	// ErrInvalidConfig indicates a required connection field is missing or malformed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedEngine indicates the config names an engine no adapter exists for.
	ErrUnsupportedEngine = errors.New("unsupported engine")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrProfileNotFound indicates the named connection profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrQueryFailed indicates SQL execution returned an error result.
	ErrQueryFailed = errors.New("query failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedEngine):
		return ExitConfigError
	case errors.Is(err, ErrProfileNotFound):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrQueryFailed):
		return ExitQueryFailed
	}

	// Common connection error patterns from wrapped client errors
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
