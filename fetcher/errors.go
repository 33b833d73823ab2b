package fetcher

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed lookup attempt.
type ErrorKind int

const (
	// ErrorTransport covers timeouts, connection failures and unexpected
	// HTTP statuses.
	ErrorTransport ErrorKind = iota
	// ErrorResolution covers a well-formed exchange that did not resolve
	// the item: a response that is not a collection, or no candidate
	// matching the expected item code.
	ErrorResolution
)

// ErrNoMatch is returned when the endpoint answers but no candidate record
// carries the expected item code.
var ErrNoMatch = errors.New("no matching record in response")

// ErrMalformedResponse is returned when the response body is not a
// collection of candidate records.
var ErrMalformedResponse = errors.New("response is not a collection")

// LookupError is one failed attempt to resolve an item. Both kinds are
// retryable; the distinction only matters for logs and the failure report.
type LookupError struct {
	Kind     ErrorKind
	ItemCode int64
	Err      error
}

func (e *LookupError) Error() string {
	kind := "transport"
	if e.Kind == ErrorResolution {
		kind = "resolution"
	}
	return fmt.Sprintf("item %d: %s error: %v", e.ItemCode, kind, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func transportError(code int64, err error) *LookupError {
	return &LookupError{Kind: ErrorTransport, ItemCode: code, Err: err}
}

func resolutionError(code int64, err error) *LookupError {
	return &LookupError{Kind: ErrorResolution, ItemCode: code, Err: err}
}
