package clausewitz

import (
	"strconv"
	"strings"

	"github.com/cartograf/pdxsave/pkg/gamedate"
)

// Scalar is an uninterpreted leaf: the raw text slice exactly as it
// appeared in the file, quotes included for quoted strings. Typed
// interpretation is deferred to the As* accessors.
type Scalar string

// AsBool recognizes the yes/no literals.
func (s Scalar) AsBool() (bool, bool) {
	switch s {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}

// AsInt parses the scalar as a signed integer.
func (s Scalar) AsInt() (int64, bool) {
	n, err := strconv.ParseInt(string(s), 10, 64)
	return n, err == nil
}

// AsFloat parses the scalar as a float. Integers qualify.
func (s Scalar) AsFloat() (float64, bool) {
	f, err := strconv.ParseFloat(string(s), 64)
	return f, err == nil
}

// AsString returns the scalar's text with surrounding quotes stripped
// when both are present.
func (s Scalar) AsString() string {
	text := string(s)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return text[1 : len(text)-1]
	}
	return text
}

// AsEU4Date parses the scalar as a Y.M.D calendar date.
func (s Scalar) AsEU4Date() (gamedate.EU4Date, bool) {
	d, err := gamedate.ParseEU4Date(string(s))
	return d, err == nil
}

// AsStellarisDate parses the scalar as a quoted "Y.M.D" date.
func (s Scalar) AsStellarisDate() (gamedate.StellarisDate, bool) {
	d, err := gamedate.ParseStellarisDate(string(s))
	return d, err == nil
}

// Value is one node of the untyped tree: either a Scalar or an
// *Object. The closed two-case union keeps every consumer switch
// exhaustive.
type Value interface {
	isValue()
}

func (Scalar) isValue()  {}
func (*Object) isValue() {}

// AsScalarValue narrows a Value to its scalar case.
func AsScalarValue(v Value) (Scalar, bool) {
	s, ok := v.(Scalar)
	return s, ok
}

// AsObjectValue narrows a Value to its object case.
func AsObjectValue(v Value) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok
}

// Item is one entry of an Object: a bare value, or a key/value pair
// when KV is set.
type Item struct {
	KV    bool
	Key   Scalar
	Value Value
}

// Object is an ordered sequence of items. Order is significant and
// duplicate keys are legal; whether a later duplicate replaces or
// accumulates is the consumer's call, which is why both GetFirst and
// GetAll exist.
type Object struct {
	Items []Item
}

// ParseText parses a whole buffer as the inside of one object, as if
// the file were wrapped in synthetic outer brackets. An object left
// open at end of input is treated as closed there; only a quoted
// string running off the end of input fails.
func ParseText(input string) (*Object, error) {
	obj, _, ok := ParseObjectInner(input)
	if !ok {
		return nil, ErrEOF
	}
	return obj, nil
}

// ParseObjectInner parses items until a closing '}' or end of input,
// returning the remainder after the consumed '}'. ok=false means the
// input ended inside a nested value.
func ParseObjectInner(input string) (*Object, string, bool) {
	obj := &Object{}
	rest := input
	for {
		rest = strings.TrimLeft(rest, asciiSpace)
		if len(rest) == 0 {
			return obj, rest, true
		}
		if rest[0] == '}' {
			return obj, rest[1:], true
		}

		item, r, ok := takeItem(rest)
		if !ok {
			return nil, rest, false
		}
		rest = r
		obj.Items = append(obj.Items, item)
	}
}

// takeItem parses one item starting at the first character of its
// value. A scalar immediately followed by '{' (no whitespace between)
// is treated as a KV whose '=' was omitted; some files genuinely do
// this.
func takeItem(input string) (Item, string, bool) {
	v, rest, ok := takeValue(input)
	if !ok {
		return Item{}, input, false
	}

	scalar, isScalar := v.(Scalar)
	if !isScalar {
		return Item{Value: v}, rest, true
	}

	if strings.HasPrefix(rest, "{") {
		obj, r, ok := ParseObjectInner(rest[1:])
		if !ok {
			return Item{}, input, false
		}
		return Item{KV: true, Key: scalar, Value: obj}, r, true
	}

	trimmed := strings.TrimLeft(rest, asciiSpace)
	if !strings.HasPrefix(trimmed, "=") {
		return Item{Value: scalar}, rest, true
	}

	value, r, ok := takeValue(strings.TrimLeft(trimmed[1:], asciiSpace))
	if !ok {
		return Item{}, input, false
	}
	return Item{KV: true, Key: scalar, Value: value}, r, true
}

// takeValue parses one value starting at its first character; it does
// not trim leading whitespace.
func takeValue(input string) (Value, string, bool) {
	if len(input) == 0 {
		return nil, input, false
	}
	switch c := input[0]; {
	case c == '}' || c == '=':
		return nil, input, false
	case c == '{':
		obj, rest, ok := ParseObjectInner(input[1:])
		if !ok {
			return nil, input, false
		}
		return obj, rest, true
	case c == '"':
		end := strings.IndexByte(input[1:], '"')
		if end < 0 {
			// the quote never closed; value was at the very end
			return nil, input, false
		}
		return Scalar(input[:end+2]), input[end+2:], true
	case strings.IndexByte(asciiSpace, c) >= 0:
		return nil, input, false
	default:
		end := strings.IndexFunc(input, func(r rune) bool {
			return r < 0x80 && isTextDelimiter(byte(r))
		})
		if end < 0 {
			return Scalar(input), "", true
		}
		return Scalar(input[:end]), input[end:], true
	}
}

// BareValues returns the items that are not key/value pairs, in order.
func (o *Object) BareValues() []Value {
	var out []Value
	for _, item := range o.Items {
		if !item.KV {
			out = append(out, item.Value)
		}
	}
	return out
}

// GetFirst returns the first value paired with key.
func (o *Object) GetFirst(key string) (Value, bool) {
	for _, item := range o.Items {
		if item.KV && string(item.Key) == key {
			return item.Value, true
		}
	}
	return nil, false
}

// GetAll returns every value paired with key, in order. Duplicate keys
// accumulate here rather than overwriting.
func (o *Object) GetAll(key string) []Value {
	var out []Value
	for _, item := range o.Items {
		if item.KV && string(item.Key) == key {
			out = append(out, item.Value)
		}
	}
	return out
}

// GetFirstObject returns the first object value paired with key.
func (o *Object) GetFirstObject(key string) (*Object, bool) {
	for _, item := range o.Items {
		if item.KV && string(item.Key) == key {
			if obj, ok := item.Value.(*Object); ok {
				return obj, true
			}
		}
	}
	return nil, false
}

// GetFirstScalar returns the first scalar value paired with key.
func (o *Object) GetFirstScalar(key string) (Scalar, bool) {
	for _, item := range o.Items {
		if item.KV && string(item.Key) == key {
			if s, ok := item.Value.(Scalar); ok {
				return s, true
			}
		}
	}
	return "", false
}

func (o *Object) GetFirstInt(key string) (int64, bool) {
	s, ok := o.GetFirstScalar(key)
	if !ok {
		return 0, false
	}
	return s.AsInt()
}

func (o *Object) GetFirstFloat(key string) (float64, bool) {
	s, ok := o.GetFirstScalar(key)
	if !ok {
		return 0, false
	}
	return s.AsFloat()
}

func (o *Object) GetFirstBool(key string) (bool, bool) {
	s, ok := o.GetFirstScalar(key)
	if !ok {
		return false, false
	}
	return s.AsBool()
}

func (o *Object) GetFirstString(key string) (string, bool) {
	s, ok := o.GetFirstScalar(key)
	if !ok {
		return "", false
	}
	return s.AsString(), true
}

// At walks a dotted path of object keys and returns the value at the
// final key.
func (o *Object) At(path ...string) (Value, bool) {
	obj, ok := o.walk(path)
	if !ok {
		return nil, false
	}
	return obj.GetFirst(path[len(path)-1])
}

// ScalarAt walks a dotted path and returns the scalar at the final
// key.
func (o *Object) ScalarAt(path ...string) (Scalar, bool) {
	obj, ok := o.walk(path)
	if !ok {
		return "", false
	}
	return obj.GetFirstScalar(path[len(path)-1])
}

// ObjectAt walks a dotted path and returns the object at the final
// key.
func (o *Object) ObjectAt(path ...string) (*Object, bool) {
	obj, ok := o.walk(path)
	if !ok {
		return nil, false
	}
	return obj.GetFirstObject(path[len(path)-1])
}

func (o *Object) walk(path []string) (*Object, bool) {
	if len(path) == 0 {
		return nil, false
	}
	obj := o
	for _, key := range path[:len(path)-1] {
		next, ok := obj.GetFirstObject(key)
		if !ok {
			return nil, false
		}
		obj = next
	}
	return obj, true
}

// Color interprets the object as a 3-component RGB triple of bare
// scalar values, the shape nation and map colors use.
func (o *Object) Color() ([3]uint8, error) {
	var out [3]uint8
	values := o.BareValues()
	if len(values) != 3 {
		return out, &UnexpectedLengthError{Want: 3, Got: len(values)}
	}
	for i, v := range values {
		s, ok := v.(Scalar)
		if !ok {
			return out, ErrUnexpectedKV
		}
		n, ok := s.AsInt()
		if !ok || n < 0 || n > 255 {
			return out, ErrIntegerOverflow
		}
		out[i] = uint8(n)
	}
	return out, nil
}
