package rowsource

import (
	"errors"
	"fmt"
)

// Category is the normalized failure taxonomy shared by every source.
type Category string

const (
	// CategoryTimeout means the source did not answer in time
	CategoryTimeout Category = "timeout"

	// CategoryUnavailable means the source is down or unreachable
	CategoryUnavailable Category = "unavailable"

	// CategoryRateLimited means the source throttled us
	CategoryRateLimited Category = "rate_limited"

	// CategoryAuthentication means credentials were rejected or lack access
	CategoryAuthentication Category = "authentication"

	// CategoryBadRequest means the spreadsheet id or range is wrong
	CategoryBadRequest Category = "bad_request"

	// CategoryBadData means the source answered with something unparseable
	CategoryBadData Category = "bad_data"

	// CategoryInternal covers everything else
	CategoryInternal Category = "internal"
)

// ErrSourceExhausted is wrapped around the last error once every retry
// attempt has failed.
var ErrSourceExhausted = errors.New("row source exhausted")

// SourceError wraps source failures with a normalized category.
type SourceError struct {
	Category   Category
	Source     string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *SourceError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Underlying
}

// NewSourceError builds a SourceError. Timeouts, outages and throttling are
// retryable; every other category is permanent.
func NewSourceError(category Category, source, message string, underlying error) *SourceError {
	retryable := category == CategoryTimeout ||
		category == CategoryUnavailable ||
		category == CategoryRateLimited

	return &SourceError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether err is a transient source failure.
func IsRetryable(err error) bool {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// CategoryOf extracts the category from err, defaulting to internal.
func CategoryOf(err error) Category {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Category
	}
	return CategoryInternal
}
