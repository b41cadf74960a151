package token

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongKind indicates the "t" attribute names a different kind.
	ErrWrongKind = errors.New("wrong token type")

	// ErrUnknownKind indicates the "t" attribute names no known kind.
	ErrUnknownKind = errors.New("unknown token type")
)

// DecodeError reports the first attribute that stopped a decode. Err wraps
// attr.ErrNotFound, attr.ErrMalformed, ErrWrongKind or ErrUnknownKind.
type DecodeError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if !e.Kind.IsAKind() {
		return fmt.Sprintf("decode token: attribute %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("decode %s token: attribute %s: %v", e.Kind, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
