package application

import (
	"errors"
	"fmt"

	"splitmark/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrFetch            = errors.New("fetch failed")
	ErrParse            = domain.ErrParse
	ErrIndexUnavailable = errors.New("volume index unavailable")
	ErrNoVolumes        = errors.New("no volumes found")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FetchError represents a failed retrieval of a remote document.
// Status is 0 when no HTTP response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// IsNotFound reports whether the error is a fetch that ended in HTTP 404
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Status == 404
}

// ParseError is re-exported so adapters can build parse failures without importing domain
type ParseError = domain.ParseError
