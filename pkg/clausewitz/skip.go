package clausewitz

import (
	"encoding/binary"
	"fmt"
)

// Generic skip: consume one arbitrarily nested value without knowing
// its type. Used for unknown keys during schema decode and for fields
// a schema deliberately omits. An incorrect skip desynchronizes the
// whole remaining stream, so the payload widths here must agree
// exactly with the tokenizer's.

// SkipBinValue consumes one binary value: a scalar's payload, a whole
// bracketed object, or a bare opaque id.
func SkipBinValue(d *BinDecoder) error {
	id, err := d.ExpectID()
	if err != nil {
		return err
	}
	switch id {
	case BinIDOpenBracket:
		return finishBinObjectSkip(d)
	case BinIDCloseBracket, BinIDEqual:
		return unexpectedBinToken(id)
	case BinIDI32, BinIDF32, BinIDU32:
		return d.eatBytes(4)
	case BinIDI64, BinIDU64:
		return d.eatBytes(8)
	case BinIDBool:
		return d.eatBytes(1)
	case BinIDStringQuoted, BinIDStringUnquoted:
		lenPayload, err := d.expectBytes(2)
		if err != nil {
			return err
		}
		return d.eatBytes(int(binary.LittleEndian.Uint16(lenPayload)))
	case BinIDLookupUnquotedU16, BinIDLookupQuotedU16:
		return d.eatBytes(2)
	case BinIDLookupUnquotedU8:
		return d.eatBytes(1)
	}
	if width, isF64 := f64PayloadWidth(id); isF64 {
		return d.eatBytes(width)
	}
	// An opaque id carries no payload of its own. If it was the tag of
	// a named type the following skip still consumes the body, since
	// the body is a regular value.
	return nil
}

// finishBinObjectSkip skips the rest of the current object, starting
// after its opening bracket. Each pass skips one value and, when an
// '=' follows, the paired value too.
func finishBinObjectSkip(d *BinDecoder) error {
	for {
		peek, ok := d.PeekID()
		if !ok {
			return ErrEOF
		}
		switch peek {
		case BinIDCloseBracket:
			d.EatToken()
			return nil
		case BinIDEqual:
			return unexpectedBinToken(peek)
		}
		if err := SkipBinValue(d); err != nil {
			return fmt.Errorf("while skipping value in object: %w", err)
		}
		if peek, ok := d.PeekID(); ok && peek == BinIDEqual {
			d.EatToken()
			if err := SkipBinValue(d); err != nil {
				return fmt.Errorf("while skipping KV value: %w", err)
			}
		}
	}
}

// SkipTextValue consumes one text value: a scalar or a whole bracketed
// object.
func SkipTextValue(d *TextDecoder) error {
	tok, err := d.Expect()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case TextOpenBracket:
		return finishTextObjectSkip(d)
	case TextCloseBracket, TextEqual:
		return unexpectedTextToken(tok)
	}
	return nil
}

// finishTextObjectSkip mirrors finishBinObjectSkip for the text
// stream.
func finishTextObjectSkip(d *TextDecoder) error {
	for {
		peek, ok := d.Peek()
		if !ok {
			return ErrEOF
		}
		switch peek.Kind {
		case TextCloseBracket:
			d.Eat()
			return nil
		case TextEqual:
			return unexpectedTextToken(peek)
		}
		if err := SkipTextValue(d); err != nil {
			return fmt.Errorf("while skipping value in object: %w", err)
		}
		if peek, ok := d.Peek(); ok && peek.Kind == TextEqual {
			d.Eat()
			if err := SkipTextValue(d); err != nil {
				return fmt.Errorf("while skipping KV value: %w", err)
			}
		}
	}
}
