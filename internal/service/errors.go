package service

import "fmt"

type ErrorKind string

const (
	ErrServiceNotConfigured ErrorKind = "service_not_configured"
	ErrMissingParameters    ErrorKind = "missing_parameters"
	ErrInvalidCartTotal     ErrorKind = "invalid_cart_total"
	ErrInvalidCustomerID    ErrorKind = "invalid_customer_id"
	ErrUpstreamLookupFailed ErrorKind = "upstream_lookup_failed"
)

// Error is the only error type CheckFreeShipping returns. Err, when set,
// is the upstream cause and is advisory.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
