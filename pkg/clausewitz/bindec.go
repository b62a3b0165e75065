package clausewitz

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// BinDecoder is a cursor over a binary token stream. It is a value
// type: copying a decoder forks the cursor, so speculative parses
// commit by assigning the fork back. The string table resolves lookup
// tokens; the dictionary resolves opaque ids used as keys. Either may
// be nil, in which case the corresponding tokens fail to resolve.
type BinDecoder struct {
	input []byte
	table *StringTable
	dict  *Dictionary
}

func NewBinDecoder(input []byte, table *StringTable, dict *Dictionary) BinDecoder {
	return BinDecoder{input: input, table: table, dict: dict}
}

// Empty reports whether the cursor is at the end of input.
func (d *BinDecoder) Empty() bool { return len(d.input) == 0 }

// TokenID returns the dictionary id registered for a canonical name,
// or zero when the name is unknown. Zero disables a schema field's
// fast path, so typed decoders degrade to string-key matching when
// the dictionary is incomplete.
func (d *BinDecoder) TokenID(name string) uint16 {
	id, ok := d.dict.ID(name)
	if !ok {
		return 0
	}
	return id
}

// PeekID returns the next token id without consuming it.
func (d *BinDecoder) PeekID() (uint16, bool) {
	if len(d.input) < 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(d.input), true
}

// EatToken consumes a token id. It does nothing at end of input.
func (d *BinDecoder) EatToken() {
	if len(d.input) >= 2 {
		d.input = d.input[2:]
	}
}

// NextID consumes and returns the next token id.
func (d *BinDecoder) NextID() (uint16, bool) {
	id, ok := d.PeekID()
	if ok {
		d.input = d.input[2:]
	}
	return id, ok
}

// ExpectID is NextID with the end of input reported as an error.
func (d *BinDecoder) ExpectID() (uint16, error) {
	id, ok := d.NextID()
	if !ok {
		return 0, ErrEOF
	}
	return id, nil
}

// ParseToken consumes the next token id if it matches. On a mismatch
// the cursor is left untouched.
func (d *BinDecoder) ParseToken(id uint16) error {
	peek, ok := d.PeekID()
	if !ok {
		return ErrEOF
	}
	if peek != id {
		return unexpectedBinToken(peek)
	}
	d.EatToken()
	return nil
}

func (d *BinDecoder) expectBytes(n int) ([]byte, error) {
	if len(d.input) < n {
		return nil, ErrEOF
	}
	payload := d.input[:n]
	d.input = d.input[n:]
	return payload, nil
}

func (d *BinDecoder) eatBytes(n int) error {
	_, err := d.expectBytes(n)
	return err
}

func (d *BinDecoder) ParseBool() (bool, error) {
	if err := d.ParseToken(BinIDBool); err != nil {
		return false, err
	}
	payload, err := d.expectBytes(1)
	if err != nil {
		return false, err
	}
	return payload[0] != 0, nil
}

func (d *BinDecoder) ParseI32() (int32, error) {
	if err := d.ParseToken(BinIDI32); err != nil {
		return 0, err
	}
	payload, err := d.expectBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(payload)), nil
}

func (d *BinDecoder) ParseU32() (uint32, error) {
	if err := d.ParseToken(BinIDU32); err != nil {
		return 0, err
	}
	payload, err := d.expectBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(payload), nil
}

// ParseI64 accepts either width of signed integer token.
func (d *BinDecoder) ParseI64() (int64, error) {
	peek, ok := d.PeekID()
	if !ok {
		return 0, ErrEOF
	}
	switch peek {
	case BinIDI32:
		n, err := d.ParseI32()
		return int64(n), err
	case BinIDI64:
		d.EatToken()
		payload, err := d.expectBytes(8)
		if err != nil {
			return 0, err
		}
		return int64(binary.LittleEndian.Uint64(payload)), nil
	}
	return 0, unexpectedBinToken(peek)
}

// ParseU64 accepts either width of unsigned integer token.
func (d *BinDecoder) ParseU64() (uint64, error) {
	peek, ok := d.PeekID()
	if !ok {
		return 0, ErrEOF
	}
	switch peek {
	case BinIDU32:
		n, err := d.ParseU32()
		return uint64(n), err
	case BinIDU64:
		d.EatToken()
		payload, err := d.expectBytes(8)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(payload), nil
	}
	return 0, unexpectedBinToken(peek)
}

// ParseU16 narrows a u32 token, reporting overflow.
func (d *BinDecoder) ParseU16() (uint16, error) {
	n, err := d.ParseU32()
	if err != nil {
		return 0, err
	}
	if n > 0xffff {
		return 0, fmt.Errorf("%d does not fit in u16: %w", n, ErrIntegerOverflow)
	}
	return uint16(n), nil
}

// ParseU8 narrows a u32 token, reporting overflow.
func (d *BinDecoder) ParseU8() (uint8, error) {
	n, err := d.ParseU32()
	if err != nil {
		return 0, err
	}
	if n > 0xff {
		return 0, fmt.Errorf("%d does not fit in u8: %w", n, ErrIntegerOverflow)
	}
	return uint8(n), nil
}

// ParseF32 reads the 32-bit scaled-integer float token.
func (d *BinDecoder) ParseF32() (float32, error) {
	if err := d.ParseToken(BinIDF32); err != nil {
		return 0, err
	}
	payload, err := d.expectBytes(4)
	if err != nil {
		return 0, err
	}
	return float32(int32(binary.LittleEndian.Uint32(payload))) / f32Scale, nil
}

// ParseF64 accepts any member of the f64 encoding family, or an f32
// token widened.
func (d *BinDecoder) ParseF64() (float64, error) {
	peek, ok := d.PeekID()
	if !ok {
		return 0, ErrEOF
	}
	if peek == BinIDF32 {
		f, err := d.ParseF32()
		return float64(f), err
	}
	width, isF64 := f64PayloadWidth(peek)
	if !isF64 {
		return 0, unexpectedBinToken(peek)
	}
	d.EatToken()
	payload, err := d.expectBytes(width)
	if err != nil {
		return 0, err
	}
	return decodeF64(peek, payload), nil
}

// ParseString reads an inline length-prefixed string or resolves a
// lookup token through the string table.
func (d *BinDecoder) ParseString() (string, error) {
	peek, ok := d.PeekID()
	if !ok {
		return "", ErrEOF
	}
	switch peek {
	case BinIDStringQuoted, BinIDStringUnquoted:
		d.EatToken()
		return d.parseInlineString()
	case BinIDLookupUnquotedU16, BinIDLookupQuotedU16, BinIDLookupUnquotedU8:
		d.EatToken()
		return d.resolveLookup(peek)
	}
	return "", unexpectedBinToken(peek)
}

// parseInlineString reads the length-prefixed payload after an inline
// string token id has been consumed.
func (d *BinDecoder) parseInlineString() (string, error) {
	lenPayload, err := d.expectBytes(2)
	if err != nil {
		return "", err
	}
	payload, err := d.expectBytes(int(binary.LittleEndian.Uint16(lenPayload)))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(payload) {
		return "", ErrStringDecode
	}
	return string(payload), nil
}

// resolveLookup reads the index payload after a lookup token id has
// been consumed and resolves it through the string table.
func (d *BinDecoder) resolveLookup(id uint16) (string, error) {
	var index uint16
	switch id {
	case BinIDLookupUnquotedU16, BinIDLookupQuotedU16:
		payload, err := d.expectBytes(2)
		if err != nil {
			return "", err
		}
		index = binary.LittleEndian.Uint16(payload)
	case BinIDLookupUnquotedU8:
		payload, err := d.expectBytes(1)
		if err != nil {
			return "", err
		}
		index = uint16(payload[0])
	default:
		return "", unexpectedBinToken(id)
	}
	if d.table == nil {
		return "", fmt.Errorf("index %d with no string table: %w", index, ErrUnknownLookup)
	}
	return d.table.Resolve(index)
}

// ParseKeyName reads an object key as a canonical name: inline strings
// and lookups as in ParseString, plus opaque dictionary ids. ok=false
// means the key's id is opaque and not in the dictionary; the cursor
// has still consumed it, so callers fall through to the generic skip.
func (d *BinDecoder) ParseKeyName() (string, bool, error) {
	peek, ok := d.PeekID()
	if !ok {
		return "", false, ErrEOF
	}
	switch peek {
	case BinIDStringQuoted, BinIDStringUnquoted,
		BinIDLookupUnquotedU16, BinIDLookupQuotedU16, BinIDLookupUnquotedU8:
		name, err := d.ParseString()
		if err != nil {
			return "", false, err
		}
		return name, true, nil
	}
	if isBinScalarID(peek) || peek == BinIDOpenBracket {
		return "", false, unexpectedBinToken(peek)
	}
	// opaque id; try the dictionary
	d.EatToken()
	if name, found := d.dict.Name(peek); found {
		return name, true, nil
	}
	return "", false, nil
}

// isBinScalarID reports whether the id is a non-string typed scalar.
func isBinScalarID(id uint16) bool {
	switch id {
	case BinIDI32, BinIDF32, BinIDBool, BinIDU32, BinIDU64, BinIDI64:
		return true
	}
	_, isF64 := f64PayloadWidth(id)
	return isF64
}
