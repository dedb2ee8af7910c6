// errors.go: structured error types for corecache operations.
//
// A small set of categorized codes, each constructor attaching
// structured context via go-errors rather than formatting a bespoke
// message string.
package corecache

import (
	stderrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes surfaced by the core.
const (
	ErrCodeInvalidConfiguration errors.ErrorCode = "CORECACHE_INVALID_CONFIGURATION"
	ErrCodeInvalidMaxSize       errors.ErrorCode = "CORECACHE_INVALID_MAX_SIZE"
	ErrCodeInvalidWeightBound   errors.ErrorCode = "CORECACHE_INVALID_WEIGHT_BOUND"
	ErrCodeInvalidTTL           errors.ErrorCode = "CORECACHE_INVALID_TTL"
	ErrCodeInvalidArgument      errors.ErrorCode = "CORECACHE_INVALID_ARGUMENT"
	ErrCodeLoaderFailure        errors.ErrorCode = "CORECACHE_LOADER_FAILURE"
	ErrCodeOperationUnavailable errors.ErrorCode = "CORECACHE_OPERATION_UNAVAILABLE"
	ErrCodeShutdown             errors.ErrorCode = "CORECACHE_SHUTDOWN"
	ErrCodePanicRecovered       errors.ErrorCode = "CORECACHE_PANIC_RECOVERED"
)

// NewErrInvalidMaxSize reports a config with neither a positive MaxEntries
// nor a MaxWeight at construction.
func NewErrInvalidMaxSize(size int) error {
	return errors.NewWithContext(ErrCodeInvalidMaxSize, "maximum_size must be greater than 0", map[string]interface{}{
		"provided_size": size,
	})
}

// NewErrInvalidWeightBound reports a maximum_weight configured without a weigher, or vice versa.
func NewErrInvalidWeightBound(hasMaxWeight, hasWeigher bool) error {
	return errors.NewWithContext(ErrCodeInvalidWeightBound, "maximum_weight requires a weigher and vice versa", map[string]interface{}{
		"has_maximum_weight": hasMaxWeight,
		"has_weigher":        hasWeigher,
	})
}

// NewErrInvalidTTL reports a negative TTL/refresh duration.
func NewErrInvalidTTL(field string, d interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidTTL, "duration must be non-negative", map[string]interface{}{
		"field":    field,
		"provided": d,
	})
}

// NewErrInvalidConfiguration wraps an arbitrary construction-time validation failure.
func NewErrInvalidConfiguration(reason string) error {
	return errors.NewWithField(ErrCodeInvalidConfiguration, "invalid cache configuration", "reason", reason)
}

// NewErrInvalidArgument reports a rejected (e.g. null/zero) key or argument.
func NewErrInvalidArgument(operation string) error {
	return errors.NewWithField(ErrCodeInvalidArgument, "invalid argument", "operation", operation)
}

// NewErrLoaderFailure wraps a loader function's own error for propagation
// to the caller. Marked retryable: a subsequent GetOrLoad call for the
// same key runs the loader again rather than reusing this result.
func NewErrLoaderFailure(cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailure, "loader failed").AsRetryable()
}

// NewErrPanicRecovered reports a recovered loader panic as an error with
// code ErrCodePanicRecovered, also retryable for the same reason as
// NewErrLoaderFailure.
func NewErrPanicRecovered(operation string, recovered interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, "panic recovered during cache operation", map[string]interface{}{
		"operation": operation,
		"recovered": recovered,
	}).AsRetryable()
}

// IsRetryable reports whether err (or a wrapped cause) can reasonably be
// retried by the caller, e.g. after a loader failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if stderrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// NewErrOperationUnavailable reports a write attempted against a read-only cache.
func NewErrOperationUnavailable(operation string) error {
	return errors.NewWithField(ErrCodeOperationUnavailable, "operation not available on this cache", "operation", operation)
}

// ErrShutdown is returned by any operation invoked after Close.
var ErrShutdown = errors.New(ErrCodeShutdown, "cache has been closed")
