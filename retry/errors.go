package retry

import (
	"errors"
	"net"
	"net/url"
	"syscall"
	"time"

	ai "github.com/spetersoncode/postflow"
)

// statusCoder is an interface for errors that carry an HTTP status code.
// Both the Anthropic and OpenAI SDK errors implement it.
type statusCoder interface {
	StatusCode() int
}

// IsTransient determines if an error is transient and should be retried.
// It first checks for explicit categorization via ai.CategorizedError, then
// falls back to heuristics: rate limits (429), server errors (5xx), network
// timeouts, connection resets, and temporary DNS failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ai.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if isTransientStatusCode(sc.StatusCode()) {
			return true
		}
	}

	return isTransientNetworkError(err)
}

// isTransientStatusCode checks if an HTTP status code indicates a transient
// error.
func isTransientStatusCode(code int) bool {
	if code == 429 {
		return true
	}
	return code >= 500 && code < 600
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNRESET,
			syscall.ECONNREFUSED,
			syscall.ETIMEDOUT:
			return true
		}
	}

	return false
}

// retryAfterFromError extracts the RetryAfter duration from a categorized
// error. Returns 0 if the error has no suggestion.
func retryAfterFromError(err error) time.Duration {
	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
