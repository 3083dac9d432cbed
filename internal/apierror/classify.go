package apierror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Class buckets a failed remote call into the retry taxonomy.
type Class string

const (
	ClassNetwork     Class = "network"
	ClassAuthExpired Class = "auth_expired"
	ClassValidation  Class = "validation"
	ClassDuplicate   Class = "duplicate"
	ClassRateLimited Class = "rate_limited"
	ClassForbidden   Class = "forbidden"
	ClassUnknown     Class = "unknown"
)

// RemoteError is a structured failure from a provider API call. Clients
// build one from the HTTP status and the provider's error body so that
// classification never depends on matching free-form message text.
type RemoteError struct {
	// Status is the HTTP status code of the response.
	Status int

	// ProviderCode is the provider-specific error code from the
	// response body (e.g. "ErrorFolderExists"), when present.
	ProviderCode string

	// Message is the provider's human-readable error text.
	Message string

	// RetryAfter is the parsed Retry-After hint, zero when absent.
	RetryAfter time.Duration
}

func (e *RemoteError) Error() string {
	if e.ProviderCode != "" {
		return fmt.Sprintf("remote API error (%d %s): %s", e.Status, e.ProviderCode, e.Message)
	}
	return fmt.Sprintf("remote API error (%d): %s", e.Status, e.Message)
}

// duplicateCodes are provider error codes equivalent to "already
// exists". HTTP 409 covers the flat-namespace provider; hierarchical
// providers report a code in a 4xx body instead.
var duplicateCodes = map[string]bool{
	"ErrorFolderExists":  true,
	"ErrorDuplicateName": true,
	"NameAlreadyExists":  true,
}

var forbiddenCodes = map[string]bool{
	"ErrorAccessDenied":     true,
	"ErrorInsufficientRole": true,
}

// Classify maps a failed remote call to its class. Structured signals
// (status code, provider error code) decide first; message substrings
// are a last resort for providers that report duplicates with a generic
// status.
func Classify(err error) Class {
	if err == nil {
		return ""
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		return classifyRemote(remote)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassNetwork
	}

	return ClassUnknown
}

func classifyRemote(e *RemoteError) Class {
	if duplicateCodes[e.ProviderCode] {
		return ClassDuplicate
	}
	if forbiddenCodes[e.ProviderCode] {
		return ClassForbidden
	}

	switch e.Status {
	case http.StatusUnauthorized:
		return ClassAuthExpired
	case http.StatusForbidden:
		return ClassForbidden
	case http.StatusConflict:
		return ClassDuplicate
	case http.StatusTooManyRequests:
		return ClassRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ClassValidation
	}

	if e.Status >= 500 {
		return ClassNetwork
	}

	// Last resort: some providers bury the duplicate signal in the
	// message with an unhelpful status.
	if strings.Contains(strings.ToLower(e.Message), "already exists") {
		return ClassDuplicate
	}

	return ClassUnknown
}

// IsDuplicate reports whether err is a provider duplicate signal, which
// the reconciler treats as success pending an ID re-resolve.
func IsDuplicate(err error) bool {
	return Classify(err) == ClassDuplicate
}

// IsAuthExpired reports whether err indicates an expired or rejected
// bearer credential.
func IsAuthExpired(err error) bool {
	return Classify(err) == ClassAuthExpired
}

// IsFatal reports whether err will not self-resolve on retry
// (permission problems and unclassifiable failures).
func IsFatal(err error) bool {
	c := Classify(err)
	return c == ClassForbidden || c == ClassUnknown
}
