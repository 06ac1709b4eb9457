package errors

import (
	stderrors "errors"
	"fmt"
)

// Stage errors. Each pipeline stage fails with exactly one of these at the
// root of its error chain; the UI layer renders the category, never the raw
// message.
var (
	// ErrUnreadableInput means the video file is absent, empty or cannot be
	// opened. Fatal to the run, never retried.
	ErrUnreadableInput = New("unreadable input")

	// ErrTranscription covers all transcription backend failures.
	ErrTranscription = New("transcription failed")

	// ErrSummarization covers schema-validation exhaustion, network/auth
	// failures and empty-transcript preconditions.
	ErrSummarization = New("summarization failed")

	// ErrCacheCorruption marks an unreadable cache entry. Logged and treated
	// as a miss, never surfaced as a run failure.
	ErrCacheCorruption = New("cache entry corrupt")

	// ErrRunInProgress is returned by Submit while another run is active.
	ErrRunInProgress = New("a pipeline run is already in progress")

	// ErrRunCancelled marks a cooperatively cancelled run.
	ErrRunCancelled = New("run cancelled")
)

// Cause categories attached to transcription and summarization errors,
// surfaced to the UI alongside the stage name.
const (
	CauseNetwork    = "network"
	CauseAuth       = "auth"
	CauseQuota      = "quota"
	CauseMedia      = "media"
	CauseModelLoad  = "model_load"
	CauseSchema     = "schema"
	CauseEmptyInput = "empty_input"
)

// Error is a message+cause wrapper carrying an optional cause category.
type Error struct {
	message  string
	category string
	cause    error
}

// New creates a new error.
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{message: message, cause: err}
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{message: fmt.Sprintf(format, args...), cause: err}
}

// WithCategory wraps err under sentinel, tagging it with a cause category.
// The result satisfies errors.Is for the sentinel.
func WithCategory(sentinel *Error, category string, err error) error {
	return &Error{
		message:  sentinel.message,
		category: category,
		cause:    err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on the message, so tagged copies of a sentinel compare equal
// to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Category walks the chain and returns the first cause category found, or
// "unknown" if none was attached.
func Category(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.category != "" {
			return e.category
		}
		err = stderrors.Unwrap(err)
	}
	return "unknown"
}

// Is re-exports errors.Is so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As re-exports errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
