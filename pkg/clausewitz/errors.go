package clausewitz

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by the text and binary decode paths.
// Intermediate layers wrap these with fmt.Errorf("...: %w", err) to
// accumulate location breadcrumbs without losing the kind, so callers
// can still dispatch with errors.Is / errors.As at the decode boundary.
var (
	// ErrEOF reports that the input ended before the current value,
	// object, or token payload was complete.
	ErrEOF = errors.New("unexpected end of input")

	// ErrUnknownToken reports a binary token id that is neither a base
	// token nor resolvable through the string table or dictionary.
	ErrUnknownToken = errors.New("unknown binary token")

	// ErrStringDecode reports a length-prefixed string that was not
	// valid UTF-8.
	ErrStringDecode = errors.New("failed to decode string")

	// ErrUnexpectedKV reports a key/value pair in a position where only
	// bare values are allowed, such as inside a strict list.
	ErrUnexpectedKV = errors.New("key/value pair in a strict list of values")

	// ErrIntegerOverflow reports a numeric token that does not fit the
	// requested narrower integer type.
	ErrIntegerOverflow = errors.New("integer overflow")

	// ErrUnknownLookup reports a string-lookup token whose index is not
	// present in the save's embedded string table.
	ErrUnknownLookup = errors.New("unknown string lookup index")
)

// UnexpectedTokenError reports a token that is legal in the format but
// not in the position it appeared in. Repr carries the offending
// token's printable form where known; ID is only set on the binary
// path.
type UnexpectedTokenError struct {
	ID   uint16
	Repr string
}

func (e *UnexpectedTokenError) Error() string {
	if e.Repr != "" {
		return fmt.Sprintf("unexpected token %s", e.Repr)
	}
	return fmt.Sprintf("unexpected token 0x%04x", e.ID)
}

func unexpectedBinToken(id uint16) error {
	return &UnexpectedTokenError{ID: id, Repr: binTokenRepr(id)}
}

func unexpectedTextToken(tok TextToken) error {
	return &UnexpectedTokenError{Repr: tok.String()}
}

// MissingFieldError reports a Single-quantified schema field with no
// default that never appeared while decoding an object.
type MissingFieldError struct {
	Struct string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("expected field %q was missing from %s", e.Field, e.Struct)
}

// UnexpectedLengthError reports a fixed-size tuple (such as an RGB
// color) with the wrong number of components.
type UnexpectedLengthError struct {
	Want int
	Got  int
}

func (e *UnexpectedLengthError) Error() string {
	return fmt.Sprintf("expected exactly %d components, found %d", e.Want, e.Got)
}
