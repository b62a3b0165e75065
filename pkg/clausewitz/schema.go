package clausewitz

import (
	"fmt"
)

// Quantifier says how many values a schema field accumulates.
type Quantifier uint8

const (
	// Single fields must appear exactly once, or carry a default.
	Single Quantifier = iota
	// Optional fields may be absent.
	Optional
	// Multiple fields collect every occurrence in order.
	Multiple
)

// BinField is one row of a binary object schema. Decode consumes the
// field's value from the stream and stores it into the caller's
// accumulator; Default (Single fields only) fills the accumulator when
// the field never appears.
//
// A field with a non-zero TokenID matches only by that fixed id and
// never by name; a field without one matches only string keys.
type BinField struct {
	Name       string
	TokenID    uint16
	Quantifier Quantifier
	Decode     func(d *BinDecoder) error
	Default    func()
}

// TextField is one row of a text object schema. Text keys are always
// strings, so there is no fast-path id.
type TextField struct {
	Name       string
	Quantifier Quantifier
	Decode     func(d *TextDecoder) error
	Default    func()
}

// DecodeBinObject drives one object decode against a schema. With
// noBrackets set the object is a bare KV sequence terminated by end of
// input rather than a bracketed one; that is the shape of a gamestate
// or metadata root.
//
// Duplicate keys re-run the field's Decode, so Single and Optional
// accumulators are last-write-wins while Multiple ones grow.
func DecodeBinObject(d *BinDecoder, typeName string, noBrackets bool, fields []BinField) error {
	if !noBrackets {
		if err := d.ParseToken(BinIDOpenBracket); err != nil {
			return fmt.Errorf("missing open bracket at start of %s: %w", typeName, err)
		}
	}
	seen := make([]bool, len(fields))

loop:
	for {
		peek, ok := d.PeekID()
		if !ok {
			if noBrackets {
				break
			}
			return fmt.Errorf("expecting %s to be terminated by '}': %w", typeName, ErrEOF)
		}
		switch peek {
		case BinIDEqual:
			return fmt.Errorf("expecting a new KV or value in %s: %w", typeName, unexpectedBinToken(peek))
		case BinIDCloseBracket:
			if noBrackets {
				return fmt.Errorf("expecting %s to be terminated by EOF: %w", typeName, unexpectedBinToken(peek))
			}
			d.EatToken()
			break loop
		case BinIDStringQuoted, BinIDStringUnquoted,
			BinIDLookupUnquotedU16, BinIDLookupQuotedU16, BinIDLookupUnquotedU8:
			key, err := d.ParseString()
			if err != nil {
				return fmt.Errorf("while parsing string key in %s: %w", typeName, err)
			}
			if peek, ok := d.PeekID(); !ok || peek != BinIDEqual {
				// a bare value, not a key
				continue
			}
			d.EatToken()
			i := findBinField(fields, key)
			if i < 0 {
				if err := SkipBinValue(d); err != nil {
					return fmt.Errorf("while skipping value for uncaptured key %s in %s: %w", key, typeName, err)
				}
				continue
			}
			if err := fields[i].Decode(d); err != nil {
				return fmt.Errorf("while parsing value for %s in %s: %w", key, typeName, err)
			}
			seen[i] = true
		default:
			if i := findBinFieldToken(fields, peek); i >= 0 {
				d.EatToken()
				if err := d.ParseToken(BinIDEqual); err != nil {
					return fmt.Errorf("missing equal sign for %s in %s: %w", fields[i].Name, typeName, err)
				}
				if err := fields[i].Decode(d); err != nil {
					return fmt.Errorf("while parsing value for %s in %s: %w", fields[i].Name, typeName, err)
				}
				seen[i] = true
				continue
			}
			if err := SkipBinValue(d); err != nil {
				return fmt.Errorf("while skipping non-string key in %s: %w", typeName, err)
			}
			if peek, ok := d.PeekID(); ok && peek == BinIDEqual {
				d.EatToken()
				if err := SkipBinValue(d); err != nil {
					return fmt.Errorf("while skipping value for non-string key in %s: %w", typeName, err)
				}
			}
		}
	}

	return finalizeBinFields(typeName, fields, seen)
}

func findBinField(fields []BinField, name string) int {
	for i := range fields {
		if fields[i].TokenID == 0 && fields[i].Name == name {
			return i
		}
	}
	return -1
}

func findBinFieldToken(fields []BinField, id uint16) int {
	for i := range fields {
		if fields[i].TokenID != 0 && fields[i].TokenID == id {
			return i
		}
	}
	return -1
}

func finalizeBinFields(typeName string, fields []BinField, seen []bool) error {
	for i := range fields {
		if fields[i].Quantifier != Single || seen[i] {
			continue
		}
		if fields[i].Default != nil {
			fields[i].Default()
			continue
		}
		return &MissingFieldError{Struct: typeName, Field: fields[i].Name}
	}
	return nil
}

// DecodeTextObject mirrors DecodeBinObject over the text token stream.
func DecodeTextObject(d *TextDecoder, typeName string, noBrackets bool, fields []TextField) error {
	if !noBrackets {
		if err := d.ParseControl(TextOpenBracket); err != nil {
			return fmt.Errorf("missing open bracket at start of %s: %w", typeName, err)
		}
	}
	seen := make([]bool, len(fields))

loop:
	for {
		peek, ok := d.Peek()
		if !ok {
			if noBrackets {
				break
			}
			return fmt.Errorf("expecting %s to be terminated by '}': %w", typeName, ErrEOF)
		}
		switch peek.Kind {
		case TextEqual:
			return fmt.Errorf("expecting a new KV or value in %s: %w", typeName, unexpectedTextToken(peek))
		case TextCloseBracket:
			if noBrackets {
				return fmt.Errorf("expecting %s to be terminated by EOF: %w", typeName, unexpectedTextToken(peek))
			}
			d.Eat()
			break loop
		case TextStringQuoted, TextStringUnquoted:
			key := peek.Text
			d.Eat()
			if peek, ok := d.Peek(); !ok || peek.Kind != TextEqual {
				// a bare value, not a key
				continue
			}
			d.Eat()
			i := findTextField(fields, key)
			if i < 0 {
				if err := SkipTextValue(d); err != nil {
					return fmt.Errorf("while skipping value for uncaptured key %s in %s: %w", key, typeName, err)
				}
				continue
			}
			if err := fields[i].Decode(d); err != nil {
				return fmt.Errorf("while parsing value for %s in %s: %w", key, typeName, err)
			}
			seen[i] = true
		default:
			if err := SkipTextValue(d); err != nil {
				return fmt.Errorf("while skipping non-string key in %s: %w", typeName, err)
			}
			if peek, ok := d.Peek(); ok && peek.Kind == TextEqual {
				d.Eat()
				if err := SkipTextValue(d); err != nil {
					return fmt.Errorf("while skipping value for non-string key in %s: %w", typeName, err)
				}
			}
		}
	}

	for i := range fields {
		if fields[i].Quantifier != Single || seen[i] {
			continue
		}
		if fields[i].Default != nil {
			fields[i].Default()
			continue
		}
		return &MissingFieldError{Struct: typeName, Field: fields[i].Name}
	}
	return nil
}

func findTextField(fields []TextField, name string) int {
	for i := range fields {
		if fields[i].Name == name {
			return i
		}
	}
	return -1
}

// DecodeBinList reads a strict bracketed list of bare values.
func DecodeBinList[T any](d *BinDecoder, elem func(*BinDecoder) (T, error)) ([]T, error) {
	if err := d.ParseToken(BinIDOpenBracket); err != nil {
		return nil, fmt.Errorf("while parsing open bracket at start of list: %w", err)
	}
	var out []T
	for {
		peek, ok := d.PeekID()
		if !ok {
			return nil, ErrEOF
		}
		if peek == BinIDCloseBracket {
			d.EatToken()
			return out, nil
		}
		if peek == BinIDEqual {
			return nil, ErrUnexpectedKV
		}
		item, err := elem(d)
		if err != nil {
			return nil, fmt.Errorf("while parsing item #%d in list: %w", len(out), err)
		}
		out = append(out, item)
	}
}

// DecodeBinMap reads a strict bracketed sequence of key=value pairs.
func DecodeBinMap[K comparable, V any](
	d *BinDecoder,
	key func(*BinDecoder) (K, error),
	value func(*BinDecoder) (V, error),
) (map[K]V, error) {
	if err := d.ParseToken(BinIDOpenBracket); err != nil {
		return nil, fmt.Errorf("while parsing open bracket at start of map: %w", err)
	}
	out := make(map[K]V)
	for {
		peek, ok := d.PeekID()
		if !ok {
			return nil, ErrEOF
		}
		if peek == BinIDCloseBracket {
			d.EatToken()
			return out, nil
		}
		k, err := key(d)
		if err != nil {
			return nil, fmt.Errorf("while parsing key for map: %w", err)
		}
		if err := d.ParseToken(BinIDEqual); err != nil {
			return nil, fmt.Errorf("while parsing equal sign for map: %w", err)
		}
		v, err := value(d)
		if err != nil {
			return nil, fmt.Errorf("while parsing value for map: %w", err)
		}
		out[k] = v
	}
}

// DecodeTextList reads a strict bracketed list of bare values.
func DecodeTextList[T any](d *TextDecoder, elem func(*TextDecoder) (T, error)) ([]T, error) {
	if err := d.ParseControl(TextOpenBracket); err != nil {
		return nil, fmt.Errorf("while parsing open bracket at start of list: %w", err)
	}
	var out []T
	for {
		peek, ok := d.Peek()
		if !ok {
			return nil, ErrEOF
		}
		if peek.Kind == TextCloseBracket {
			d.Eat()
			return out, nil
		}
		if peek.Kind == TextEqual {
			return nil, ErrUnexpectedKV
		}
		item, err := elem(d)
		if err != nil {
			return nil, fmt.Errorf("while parsing item #%d in list: %w", len(out), err)
		}
		out = append(out, item)
	}
}

// DecodeTextMap reads a strict bracketed sequence of key=value pairs.
func DecodeTextMap[K comparable, V any](
	d *TextDecoder,
	key func(*TextDecoder) (K, error),
	value func(*TextDecoder) (V, error),
) (map[K]V, error) {
	if err := d.ParseControl(TextOpenBracket); err != nil {
		return nil, fmt.Errorf("while parsing open bracket at start of map: %w", err)
	}
	out := make(map[K]V)
	for {
		peek, ok := d.Peek()
		if !ok {
			return nil, ErrEOF
		}
		if peek.Kind == TextCloseBracket {
			d.Eat()
			return out, nil
		}
		k, err := key(d)
		if err != nil {
			return nil, fmt.Errorf("while parsing key for map: %w", err)
		}
		if err := d.ParseControl(TextEqual); err != nil {
			return nil, fmt.Errorf("while parsing equal sign for map: %w", err)
		}
		v, err := value(d)
		if err != nil {
			return nil, fmt.Errorf("while parsing value for map: %w", err)
		}
		out[k] = v
	}
}
