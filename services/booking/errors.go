package booking

import (
	"context"
	"errors"
	"fmt"

	"vehiclecare/database"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation             = errors.New("validation error")
	ErrUnrecognizedTransition = fmt.Errorf("unrecognized transition: %w", ErrValidation)
	ErrDuplicateRequest       = errors.New("duplicate booking request")
	ErrNotFound               = errors.New("not found")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrStationClosed          = errors.New("station closed")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrForbidden              = errors.New("forbidden")
)

// BookingError is returned by every BookingService operation. Message is safe to
// show to the caller; Err keeps the underlying cause for logs.
type BookingError struct {
	Kind    error
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BookingError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds an error of the given kind with a caller-facing message.
func NewError(kind error, msg string) *BookingError {
	return &BookingError{Kind: kind, Message: msg}
}

func WrapError(kind error, msg string, err error) *BookingError {
	return &BookingError{Kind: kind, Message: msg, Err: err}
}

// StoreError classifies a repository failure. Missing documents become NotFound,
// lost compare-and-set races become InvalidTransition, anything else means the
// store could not serve the request.
func StoreError(err error, notFoundMsg string) error {
	var be *BookingError
	switch {
	case errors.As(err, &be):
		return be
	case errors.Is(err, database.ErrNotFound):
		return WrapError(ErrNotFound, notFoundMsg, err)
	case errors.Is(err, database.ErrConflict):
		return WrapError(ErrInvalidTransition, "booking was changed concurrently", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return WrapError(ErrStoreUnavailable, "request timed out", err)
	}
	return WrapError(ErrStoreUnavailable, "booking store unavailable", err)
}
