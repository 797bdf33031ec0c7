package llm

import (
	"errors"
	"strings"
)

// Error classification for adapter calls. Three kinds exist: quota
// exhaustion, unconfigured/unreachable capability, and everything else.
// "Everything else" is any error that matches neither wrapper type.

// QuotaError indicates the remote signaled rate or quota limiting.
// The condition is long-lived: the provider will keep failing until an
// external reset, so callers should stop routing to it.
type QuotaError struct {
	err error
}

func (e *QuotaError) Error() string {
	return e.err.Error()
}

func (e *QuotaError) Unwrap() error {
	return e.err
}

// NewQuotaError wraps an error as quota exhaustion.
func NewQuotaError(err error) error {
	return &QuotaError{err: err}
}

// UnavailableError indicates the capability is not configured or the
// remote endpoint cannot be reached at all.
type UnavailableError struct {
	err error
}

func (e *UnavailableError) Error() string {
	return e.err.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.err
}

// NewUnavailableError wraps an error as unconfigured/unreachable.
func NewUnavailableError(err error) error {
	return &UnavailableError{err: err}
}

// IsQuota returns true if the error indicates quota exhaustion.
func IsQuota(err error) bool {
	var quota *QuotaError
	return errors.As(err, &quota)
}

// IsUnavailable returns true if the error indicates an unconfigured or
// unreachable provider.
func IsUnavailable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}

// quotaMarkers are substrings that identify quota exhaustion in error
// bodies. Providers do not always return a structured code for this, so
// the textual message is inspected as well as the HTTP status.
var quotaMarkers = []string{
	"quota",
	"rate limit",
	"rate_limit",
	"resource_exhausted",
	"too many requests",
}

// looksLikeQuota reports whether an error message carries a quota or
// rate-limit marker.
func looksLikeQuota(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range quotaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
