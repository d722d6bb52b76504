package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidArgument indicates a precondition violation by the caller (nil baseline, component or type root)
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// StructuralRead indicates a type could not be read while enumerating a container
	StructuralRead ErrorCode = "STRUCTURAL_READ"
	// ComparisonFailed indicates a resolution step failed during comparison
	ComparisonFailed ErrorCode = "COMPARISON_FAILED"
	// ResolutionFailed indicates a component could not be resolved
	ResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	// ScopeWalk indicates the scope adapter hit an error on an element
	ScopeWalk ErrorCode = "SCOPE_WALK"
	// ConfigInvalid indicates invalid configuration or options
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ManifestInvalid indicates a baseline manifest could not be decoded
	ManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// StorageFailed indicates the run history store failed
	StorageFailed ErrorCode = "STORAGE_FAILED"
	// Usage indicates command-line misuse
	Usage ErrorCode = "USAGE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// EngineError represents an error with a stable code, message and optional cause
type EngineError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new EngineError
func New(code ErrorCode, message string, cause error) *EngineError {
	return &EngineError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new EngineError without a cause, formatting the message
func Newf(code ErrorCode, format string, args ...interface{}) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *EngineError) WithDetails(details interface{}) *EngineError {
	e.Details = details
	return e
}

// Is matches another EngineError by code so that errors.Is works against
// code-only sentinels such as Sentinel(InvalidArgument).
func (e *EngineError) Is(target error) bool {
	var t *EngineError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == "" && t.cause == nil
}

// Sentinel returns a code-only error usable as an errors.Is target.
func Sentinel(code ErrorCode) error {
	return &EngineError{Code: code}
}

// CodeOf returns the code of the first EngineError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *EngineError
	if stderrors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*EngineError); ok && e.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Argument builds a precondition violation.
func Argument(message string) *EngineError {
	return New(InvalidArgument, message, nil)
}
