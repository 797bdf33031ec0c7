package analysis

import "errors"

// Common analysis errors.
var (
	// ErrEmptyInput is returned when segmentation produces no sentence
	// units. A client-input failure, not retried.
	ErrEmptyInput = errors.New("no valid sentences found")

	// ErrAllProvidersUnavailable is returned when no provider could
	// produce a reply for a sentence unit. Surfaced to the caller as a
	// service-unavailable failure.
	ErrAllProvidersUnavailable = errors.New("all analysis providers unavailable")
)
