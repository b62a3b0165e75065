package clausewitz

import (
	"fmt"
	"math"
)

// TextDecoder is a cursor over a text token stream with one token of
// lookahead. Like BinDecoder it is a value type: copying forks the
// cursor and speculative parses commit by assigning the fork back.
type TextDecoder struct {
	lex       TextLexer
	peeked    TextToken
	hasPeeked bool
}

func NewTextDecoder(input string) TextDecoder {
	return TextDecoder{lex: NewTextLexer(input)}
}

// Peek returns the next token without consuming it.
func (d *TextDecoder) Peek() (TextToken, bool) {
	if !d.hasPeeked {
		tok, ok := d.lex.Next()
		if !ok {
			return TextToken{}, false
		}
		d.peeked = tok
		d.hasPeeked = true
	}
	return d.peeked, true
}

// Eat discards the peeked token. It does nothing if nothing was
// peeked.
func (d *TextDecoder) Eat() {
	d.hasPeeked = false
}

// Next consumes and returns the next token.
func (d *TextDecoder) Next() (TextToken, bool) {
	tok, ok := d.Peek()
	if ok {
		d.hasPeeked = false
	}
	return tok, ok
}

// Expect is Next with the end of input reported as an error.
func (d *TextDecoder) Expect() (TextToken, error) {
	tok, ok := d.Next()
	if !ok {
		return TextToken{}, ErrEOF
	}
	return tok, nil
}

// ParseControl consumes the next token if it is the given control
// kind. On a mismatch the cursor is left untouched.
func (d *TextDecoder) ParseControl(kind TextTokenKind) error {
	tok, ok := d.Peek()
	if !ok {
		return ErrEOF
	}
	if tok.Kind != kind {
		return unexpectedTextToken(tok)
	}
	d.Eat()
	return nil
}

// AtEnd reports whether the token stream is exhausted.
func (d *TextDecoder) AtEnd() bool {
	_, ok := d.Peek()
	return !ok
}

func (d *TextDecoder) ParseBool() (bool, error) {
	tok, err := d.Expect()
	if err != nil {
		return false, err
	}
	if tok.Kind != TextBool {
		return false, unexpectedTextToken(tok)
	}
	return tok.Bool, nil
}

func (d *TextDecoder) ParseI64() (int64, error) {
	tok, err := d.Expect()
	if err != nil {
		return 0, err
	}
	switch tok.Kind {
	case TextInt:
		return tok.Int, nil
	case TextUint:
		if tok.Uint > math.MaxInt64 {
			return 0, fmt.Errorf("%d does not fit in i64: %w", tok.Uint, ErrIntegerOverflow)
		}
		return int64(tok.Uint), nil
	}
	return 0, unexpectedTextToken(tok)
}

func (d *TextDecoder) ParseU64() (uint64, error) {
	tok, err := d.Expect()
	if err != nil {
		return 0, err
	}
	switch tok.Kind {
	case TextUint:
		return tok.Uint, nil
	case TextInt:
		return 0, fmt.Errorf("%d does not fit in u64: %w", tok.Int, ErrIntegerOverflow)
	}
	return 0, unexpectedTextToken(tok)
}

func (d *TextDecoder) ParseI32() (int32, error) {
	n, err := d.ParseI64()
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%d does not fit in i32: %w", n, ErrIntegerOverflow)
	}
	return int32(n), nil
}

func (d *TextDecoder) ParseU32() (uint32, error) {
	n, err := d.ParseU64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("%d does not fit in u32: %w", n, ErrIntegerOverflow)
	}
	return uint32(n), nil
}

func (d *TextDecoder) ParseU16() (uint16, error) {
	n, err := d.ParseU64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint16 {
		return 0, fmt.Errorf("%d does not fit in u16: %w", n, ErrIntegerOverflow)
	}
	return uint16(n), nil
}

func (d *TextDecoder) ParseU8() (uint8, error) {
	n, err := d.ParseU64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint8 {
		return 0, fmt.Errorf("%d does not fit in u8: %w", n, ErrIntegerOverflow)
	}
	return uint8(n), nil
}

// ParseF64 accepts a float token or either integer kind widened.
func (d *TextDecoder) ParseF64() (float64, error) {
	tok, err := d.Expect()
	if err != nil {
		return 0, err
	}
	switch tok.Kind {
	case TextFloat:
		return tok.Float, nil
	case TextInt:
		return float64(tok.Int), nil
	case TextUint:
		return float64(tok.Uint), nil
	}
	return 0, unexpectedTextToken(tok)
}

func (d *TextDecoder) ParseF32() (float32, error) {
	f, err := d.ParseF64()
	return float32(f), err
}

// ParseString accepts either string kind.
func (d *TextDecoder) ParseString() (string, error) {
	tok, err := d.Expect()
	if err != nil {
		return "", err
	}
	switch tok.Kind {
	case TextStringQuoted, TextStringUnquoted:
		return tok.Text, nil
	}
	return "", unexpectedTextToken(tok)
}
