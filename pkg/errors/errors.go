// Package errors provides the unified error type and factory functions for the
// Madison intelligence engine.  Every layer of the application (domain,
// application, infrastructure, interfaces) uses AppError as the single carrier
// for structured error information, enabling consistent HTTP responses,
// logging, and monitoring.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the single structured error type used throughout the engine.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeDataSourceUnavailable, "openFDA request failed")
//	return errors.Wrap(err, errors.ErrCodeCacheError, "failed to read cached batch")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error, suitable
	// for inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (query parameters, record counts,
	// etc.) that aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error that triggered this AppError, enabling
	// errors.Is / errors.As traversal of the full error chain.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is intentionally not included in Error() output; callers
	// that need it (e.g. the logging middleware) inspect the field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when
// Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error, enabling errors.Is and errors.As
// to traverse the full error chain without additional boilerplate at call sites.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set to the
// supplied string.  It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
// A call-stack snapshot is captured automatically.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap attaches code and message to an existing error.  A nil err yields nil
// so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// Convenience factories for the most common categories.

// Internal constructs an ErrCodeInternal error.
func Internal(message string) *AppError { return New(ErrCodeInternal, message) }

// InvalidParam constructs an ErrCodeValidation error.
func InvalidParam(message string) *AppError { return New(ErrCodeValidation, message) }

// NotFound constructs an ErrCodeNotFound error.
func NotFound(message string) *AppError { return New(ErrCodeNotFound, message) }

// Unavailable constructs an ErrCodeServiceUnavailable error.
func Unavailable(message string) *AppError { return New(ErrCodeServiceUnavailable, message) }

// CodeOf extracts the ErrorCode from an error chain.  Non-AppError chains
// report ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ErrCodeInternal
}

// hasCode reports whether the chain contains an AppError with one of the
// given codes.
func hasCode(err error, codes ...ErrorCode) bool {
	var app *AppError
	if !errors.As(err, &app) {
		return false
	}
	for _, c := range codes {
		if app.Code == c {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err represents a not-found condition.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsValidation reports whether err represents a validation failure.
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation, ErrCodeBadRequest, ErrCodeQueryInvalid)
}

// IsRateLimited reports whether err represents an external rate limit.
func IsRateLimited(err error) bool {
	return hasCode(err, ErrCodeTooManyRequests, ErrCodeDataSourceRateLimited)
}

// IsUnavailable reports whether err represents an unavailable dependency.
func IsUnavailable(err error) bool {
	return hasCode(err, ErrCodeServiceUnavailable, ErrCodeDataSourceUnavailable)
}
