package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the discovery pipeline error taxonomy.
var (
	// ErrAuthentication indicates a required provider credential is absent
	// or invalid. Surfaced to users as "configure a provider".
	ErrAuthentication = errors.New("authentication required")

	// ErrUnsupportedProvider indicates a provider name that is not
	// registered with the model router. This is a configuration error and
	// is fatal to the request.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrUpstream indicates a remote call that returned a non-success
	// status or a body that could not be parsed into the expected shape.
	ErrUpstream = errors.New("upstream failure")

	// ErrPolitenessViolation indicates robots.txt disallowed a fetch, or
	// the robots policy could not be retrieved (treated as disallow).
	// Enrichment degrades to empty results rather than erroring.
	ErrPolitenessViolation = errors.New("politeness violation")

	// ErrNotFound indicates a requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// AuthenticationError reports a missing or invalid credential for a provider.
type AuthenticationError struct {
	Provider string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: API key required", e.Provider)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// UnsupportedProviderError reports a provider name unknown to the router.
// The offending name is carried verbatim for diagnostics.
type UnsupportedProviderError struct {
	Provider string
}

// Error implements the error interface.
func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %s", e.Provider)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *UnsupportedProviderError) Unwrap() error {
	return ErrUnsupportedProvider
}

// UpstreamError reports a failed remote call: a non-success HTTP status or
// a response body that could not be parsed into the expected shape.
type UpstreamError struct {
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream error (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: upstream error: %s", e.Source, e.Message)
}

// Unwrap returns the chain below this error. The cause is preferred when
// present so callers can reach wrapped network errors; errors.Is against
// ErrUpstream always matches via Is.
func (e *UpstreamError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrUpstream
}

// Is reports whether target matches the upstream sentinel.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// PolitenessViolationError reports a URL that must not be fetched, either
// because robots.txt disallows it or because the policy was unreadable.
type PolitenessViolationError struct {
	URL    string
	Reason string
}

// Error implements the error interface.
func (e *PolitenessViolationError) Error() string {
	return fmt.Sprintf("fetch disallowed for %s: %s", e.URL, e.Reason)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *PolitenessViolationError) Unwrap() error {
	return ErrPolitenessViolation
}

// NewAuthenticationError creates an AuthenticationError for a provider.
func NewAuthenticationError(provider string) *AuthenticationError {
	return &AuthenticationError{Provider: provider}
}

// NewUnsupportedProviderError creates an UnsupportedProviderError carrying
// the unresolved provider name.
func NewUnsupportedProviderError(provider string) *UnsupportedProviderError {
	return &UnsupportedProviderError{Provider: provider}
}

// NewUpstreamError creates an UpstreamError.
func NewUpstreamError(source string, statusCode int, message string, cause error) *UpstreamError {
	return &UpstreamError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// NewPolitenessViolationError creates a PolitenessViolationError.
func NewPolitenessViolationError(url, reason string) *PolitenessViolationError {
	return &PolitenessViolationError{URL: url, Reason: reason}
}
