package clausewitz

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Binary token ids. Every token starts with one of these as a
// little-endian u16; ids not listed here are opaque and surface as
// BinOther for external resolution through a dictionary.
const (
	BinIDEqual        uint16 = 0x0001
	BinIDOpenBracket  uint16 = 0x0003
	BinIDCloseBracket uint16 = 0x0004
	BinIDI32          uint16 = 0x000c
	// BinIDF32 carries an i32 payload scaled by 1000.
	BinIDF32            uint16 = 0x000d
	BinIDBool           uint16 = 0x000e
	BinIDStringQuoted   uint16 = 0x000f
	BinIDU32            uint16 = 0x0014
	BinIDStringUnquoted uint16 = 0x0017

	// String-lookup ids: the payload is an index into the save's
	// embedded string table rather than inline bytes.
	BinIDLookupUnquotedU16 uint16 = 0x0023
	BinIDLookupQuotedU16   uint16 = 0x0024
	BinIDLookupUnquotedU8  uint16 = 0x0025

	BinIDU64 uint16 = 0x029c
	BinIDI64 uint16 = 0x0317

	// The f64 family. One id per encoding: a literal zero, fixed-point
	// unsigned payloads of one through seven bytes (value/100000),
	// a full signed 64-bit payload (value/100000), and negated
	// one-through-five byte mirrors of the fixed-point forms.
	BinIDF64Zero   uint16 = 0x0280
	BinIDF64Fixed1 uint16 = 0x0281
	BinIDF64Fixed2 uint16 = 0x0282
	BinIDF64Fixed3 uint16 = 0x0283
	BinIDF64Fixed4 uint16 = 0x0284
	BinIDF64Fixed5 uint16 = 0x0285
	BinIDF64Fixed6 uint16 = 0x0286
	BinIDF64Fixed7 uint16 = 0x0287
	BinIDF64I64    uint16 = 0x0288
	BinIDF64Neg1   uint16 = 0x0289
	BinIDF64Neg2   uint16 = 0x028a
	BinIDF64Neg3   uint16 = 0x028b
	BinIDF64Neg4   uint16 = 0x028c
	BinIDF64Neg5   uint16 = 0x028d
)

const (
	// f32 payloads are thousandths.
	f32Scale = 1000.0
	// f64 payloads are hundred-thousandths.
	f64Scale = 100_000.0
)

// BinTokenKind identifies one case of the closed binary token union.
type BinTokenKind uint8

const (
	BinEqual BinTokenKind = iota
	BinOpenBracket
	BinCloseBracket
	BinI32
	BinF32
	BinBool
	BinStringQuoted
	BinU32
	BinStringUnquoted
	BinF64
	BinU64
	BinI64
	// BinLookup is any of the three string-table index forms; Quoted
	// distinguishes the quoted sub-variant.
	BinLookup
	// BinOther is an id with no fixed interpretation. It carries no
	// payload bytes of its own.
	BinOther
)

// BinToken is one decoded token of the binary format. Only the payload
// field matching Kind is meaningful. ID always carries the raw token
// id the token was read from.
type BinToken struct {
	Kind   BinTokenKind
	ID     uint16
	I64    int64
	U64    uint64
	F64    float64
	Bool   bool
	Text   string
	Lookup uint16
	Quoted bool
}

func (t BinToken) String() string {
	switch t.Kind {
	case BinEqual:
		return "="
	case BinOpenBracket:
		return "{"
	case BinCloseBracket:
		return "}"
	case BinI32:
		return strconv.FormatInt(t.I64, 10) + "i32"
	case BinF32:
		return strconv.FormatFloat(t.F64, 'g', -1, 64) + "f32"
	case BinBool:
		return strconv.FormatBool(t.Bool)
	case BinStringQuoted:
		return strconv.Quote(t.Text)
	case BinU32:
		return strconv.FormatUint(t.U64, 10) + "u32"
	case BinStringUnquoted:
		return t.Text
	case BinF64:
		return strconv.FormatFloat(t.F64, 'g', -1, 64) + "f64"
	case BinU64:
		return strconv.FormatUint(t.U64, 10) + "u64"
	case BinI64:
		return strconv.FormatInt(t.I64, 10) + "i64"
	case BinLookup:
		return fmt.Sprintf("<lookup %d>", t.Lookup)
	case BinOther:
		return fmt.Sprintf("<token 0x%04x>", t.ID)
	}
	return "<invalid>"
}

// binTokenRepr returns the printable name of a token id, for error
// messages.
func binTokenRepr(id uint16) string {
	switch id {
	case BinIDEqual:
		return "'='"
	case BinIDOpenBracket:
		return "'{'"
	case BinIDCloseBracket:
		return "'}'"
	case BinIDI32:
		return "i32"
	case BinIDF32:
		return "f32"
	case BinIDBool:
		return "bool"
	case BinIDStringQuoted:
		return "string_quoted"
	case BinIDU32:
		return "u32"
	case BinIDStringUnquoted:
		return "string_unquoted"
	case BinIDLookupUnquotedU16, BinIDLookupQuotedU16, BinIDLookupUnquotedU8:
		return "string_lookup"
	case BinIDU64:
		return "u64"
	case BinIDI64:
		return "i64"
	}
	if _, ok := f64PayloadWidth(id); ok {
		return "f64"
	}
	return fmt.Sprintf("0x%04x", id)
}

// f64PayloadWidth returns the payload byte count of an f64-family id,
// or ok=false when the id is not part of the family.
func f64PayloadWidth(id uint16) (int, bool) {
	switch {
	case id == BinIDF64Zero:
		return 0, true
	case id >= BinIDF64Fixed1 && id <= BinIDF64Fixed7:
		return int(id-BinIDF64Fixed1) + 1, true
	case id == BinIDF64I64:
		return 8, true
	case id >= BinIDF64Neg1 && id <= BinIDF64Neg5:
		return int(id-BinIDF64Neg1) + 1, true
	}
	return 0, false
}

// decodeF64 interprets an f64-family payload. The payload slice must
// already be exactly f64PayloadWidth(id) bytes.
func decodeF64(id uint16, payload []byte) float64 {
	switch {
	case id == BinIDF64Zero:
		return 0
	case id == BinIDF64I64:
		return float64(int64(binary.LittleEndian.Uint64(payload))) / f64Scale
	default:
		var raw uint64
		for i := len(payload) - 1; i >= 0; i-- {
			raw = raw<<8 | uint64(payload[i])
		}
		value := float64(raw) / f64Scale
		if id >= BinIDF64Neg1 && id <= BinIDF64Neg5 {
			return -value
		}
		return value
	}
}

// encodeF64Payload produces the payload bytes that decodeF64 inverts.
// Values outside the id's representable range report an error rather
// than truncating.
func encodeF64Payload(id uint16, value float64) ([]byte, error) {
	width, ok := f64PayloadWidth(id)
	if !ok {
		return nil, unexpectedBinToken(id)
	}
	if id == BinIDF64Zero {
		if value != 0 {
			return nil, fmt.Errorf("value %g does not fit the zero encoding", value)
		}
		return nil, nil
	}
	if id == BinIDF64I64 {
		raw := int64(math.Round(value * f64Scale))
		payload := make([]byte, 8)
		binary.LittleEndian.PutUint64(payload, uint64(raw))
		return payload, nil
	}
	negative := id >= BinIDF64Neg1 && id <= BinIDF64Neg5
	if negative {
		value = -value
	}
	if value < 0 {
		return nil, fmt.Errorf("value of the wrong sign for token %s", binTokenRepr(id))
	}
	raw := uint64(math.Round(value * f64Scale))
	if width < 8 && raw >= uint64(1)<<(8*width) {
		return nil, fmt.Errorf("value %g does not fit in %d bytes", value, width)
	}
	payload := make([]byte, width)
	for i := 0; i < width; i++ {
		payload[i] = byte(raw >> (8 * i))
	}
	return payload, nil
}

// BinLexer produces a lazy stream of tokens over a byte slice. Copying
// a lexer snapshots its position.
type BinLexer struct {
	rest []byte
}

func NewBinLexer(input []byte) BinLexer {
	return BinLexer{rest: input}
}

// Rest returns the unconsumed remainder of the input.
func (l *BinLexer) Rest() []byte { return l.rest }

// Next returns the next token. ok=false with a nil error is the clean
// end of input; a non-nil error means the input ended inside a token
// or a string payload was not UTF-8.
func (l *BinLexer) Next() (BinToken, bool, error) {
	if len(l.rest) == 0 {
		return BinToken{}, false, nil
	}
	if len(l.rest) < 2 {
		return BinToken{}, false, fmt.Errorf("reading token id: %w", ErrEOF)
	}
	id := binary.LittleEndian.Uint16(l.rest)
	rest := l.rest[2:]

	take := func(n int) ([]byte, error) {
		if len(rest) < n {
			return nil, fmt.Errorf("token %s payload: %w", binTokenRepr(id), ErrEOF)
		}
		payload := rest[:n]
		rest = rest[n:]
		return payload, nil
	}

	tok := BinToken{ID: id}
	switch id {
	case BinIDEqual:
		tok.Kind = BinEqual
	case BinIDOpenBracket:
		tok.Kind = BinOpenBracket
	case BinIDCloseBracket:
		tok.Kind = BinCloseBracket
	case BinIDI32:
		payload, err := take(4)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinI32
		tok.I64 = int64(int32(binary.LittleEndian.Uint32(payload)))
	case BinIDF32:
		payload, err := take(4)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinF32
		tok.F64 = float64(int32(binary.LittleEndian.Uint32(payload))) / f32Scale
	case BinIDBool:
		payload, err := take(1)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinBool
		tok.Bool = payload[0] != 0
	case BinIDStringQuoted, BinIDStringUnquoted:
		lenPayload, err := take(2)
		if err != nil {
			return BinToken{}, false, err
		}
		payload, err := take(int(binary.LittleEndian.Uint16(lenPayload)))
		if err != nil {
			return BinToken{}, false, err
		}
		if !utf8.Valid(payload) {
			return BinToken{}, false, fmt.Errorf("token %s: %w", binTokenRepr(id), ErrStringDecode)
		}
		if id == BinIDStringQuoted {
			tok.Kind = BinStringQuoted
			tok.Quoted = true
		} else {
			tok.Kind = BinStringUnquoted
		}
		tok.Text = string(payload)
	case BinIDU32:
		payload, err := take(4)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinU32
		tok.U64 = uint64(binary.LittleEndian.Uint32(payload))
	case BinIDLookupUnquotedU16, BinIDLookupQuotedU16:
		payload, err := take(2)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinLookup
		tok.Lookup = binary.LittleEndian.Uint16(payload)
		tok.Quoted = id == BinIDLookupQuotedU16
	case BinIDLookupUnquotedU8:
		payload, err := take(1)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinLookup
		tok.Lookup = uint16(payload[0])
	case BinIDU64:
		payload, err := take(8)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinU64
		tok.U64 = binary.LittleEndian.Uint64(payload)
	case BinIDI64:
		payload, err := take(8)
		if err != nil {
			return BinToken{}, false, err
		}
		tok.Kind = BinI64
		tok.I64 = int64(binary.LittleEndian.Uint64(payload))
	default:
		if width, isF64 := f64PayloadWidth(id); isF64 {
			payload, err := take(width)
			if err != nil {
				return BinToken{}, false, err
			}
			tok.Kind = BinF64
			tok.F64 = decodeF64(id, payload)
			break
		}
		tok.Kind = BinOther
	}

	l.rest = rest
	return tok, true, nil
}

// DumpTokens renders the token stream indented by bracket depth, one
// token per line, resolving lookups and opaque ids through the given
// table and dictionary when they are non-nil. Debugging aid for
// comparing binary and text streams.
func (l BinLexer) DumpTokens(table *StringTable, dict *Dictionary) (string, error) {
	depth := 0
	var b []byte
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return string(b), err
		}
		if !ok {
			return string(b), nil
		}
		if tok.Kind == BinCloseBracket && depth >= 4 {
			depth -= 4
		}
		repr := tok.String()
		switch tok.Kind {
		case BinLookup:
			if table != nil {
				if s, ok := table.Get(tok.Lookup); ok {
					repr = s
				}
			}
		case BinOther:
			if dict != nil {
				if name, ok := dict.Name(tok.ID); ok {
					repr = name
				}
			}
		}
		b = fmt.Appendf(b, "%*s%s\n", depth, "", repr)
		if tok.Kind == BinOpenBracket {
			depth += 4
		}
	}
}
