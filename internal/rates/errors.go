package rates

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when the upstream cannot be reached
	ErrUnavailable = errors.New("exchange-rate service unavailable")
	// ErrTimeout is returned when the upstream does not answer within the configured timeout
	ErrTimeout = errors.New("exchange-rate service timed out")
	// ErrMalformedResponse is returned when the upstream body cannot be decoded
	ErrMalformedResponse = errors.New("malformed exchange-rate response")
	// ErrInvalidRate is returned when exchange_to_rub is missing, zero or negative
	ErrInvalidRate = errors.New("invalid exchange rate")
)

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	StatusCode int
	// Message is the upstream "error" field, or the raw body text when it is not JSON
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}
