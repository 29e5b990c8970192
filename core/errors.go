package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatusCode = errors.New("invalid status code")
	ErrNilRequest        = errors.New("nil request")
)

// DecodingError is returned if an inbound envelope cannot be decoded,
// e.g. a body flagged as base64 that is not valid base64.
type DecodingError struct {
	Field string
	Err   error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Field, e.Err)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// EncodingError is returned if a response cannot be serialized into an
// outbound envelope.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %s: %v", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IsDecodingError reports whether err is or wraps a *DecodingError.
func IsDecodingError(err error) bool {
	var decErr *DecodingError
	return errors.As(err, &decErr)
}

// IsEncodingError reports whether err is or wraps an *EncodingError.
func IsEncodingError(err error) bool {
	var encErr *EncodingError
	return errors.As(err, &encErr)
}
