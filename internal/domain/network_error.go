package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies network failures into a closed set.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNoInternet
	KindRequestTimeout
	KindTooManyRequests
	KindServerError
	KindSerialization
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoInternet:
		return "NO_INTERNET"
	case KindRequestTimeout:
		return "REQUEST_TIMEOUT"
	case KindTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case KindServerError:
		return "SERVER_ERROR"
	case KindSerialization:
		return "SERIALIZATION"
	default:
		return "UNKNOWN"
	}
}

// NetworkError is the only error type returned by a CoinDataSource.
type NetworkError struct {
	Kind   ErrorKind
	Status int   // HTTP status, 0 when no response was received
	Err    error // underlying cause, may be nil
}

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrUnknown         = &NetworkError{Kind: KindUnknown}
	ErrNoInternet      = &NetworkError{Kind: KindNoInternet}
	ErrRequestTimeout  = &NetworkError{Kind: KindRequestTimeout}
	ErrTooManyRequests = &NetworkError{Kind: KindTooManyRequests}
	ErrServerError     = &NetworkError{Kind: KindServerError}
	ErrSerialization   = &NetworkError{Kind: KindSerialization}
)

// NewNetworkError builds a NetworkError of the given kind.
func NewNetworkError(kind ErrorKind, status int, cause error) *NetworkError {
	return &NetworkError{Kind: kind, Status: status, Err: cause}
}

func (e *NetworkError) Error() string {
	msg := e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is a NetworkError of the same kind.
func (e *NetworkError) Is(target error) bool {
	t, ok := target.(*NetworkError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// AsNetworkError extracts a *NetworkError from err, falling back to KindUnknown
// so that callers always have a kind to report.
func AsNetworkError(err error) *NetworkError {
	if err == nil {
		return nil
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	return NewNetworkError(KindUnknown, 0, err)
}
