package clausewitz

import (
	"fmt"
	"strconv"
	"strings"
)

// TextTokenKind identifies one case of the closed text token union.
type TextTokenKind uint8

const (
	TextEqual TextTokenKind = iota
	TextOpenBracket
	TextCloseBracket
	// TextInt is used for all negative integers.
	TextInt
	// TextUint is used for all non-negative integers.
	TextUint
	TextFloat
	TextBool
	TextStringQuoted
	TextStringUnquoted
	// TextVariable is a `@name` reference, only found in game files.
	TextVariable
	// TextExpr is a `@[expr]` literal, only found in game files. The
	// expression source is kept opaque; see VariableSet.EvalExpr.
	TextExpr
)

func (k TextTokenKind) String() string {
	switch k {
	case TextEqual:
		return "="
	case TextOpenBracket:
		return "{"
	case TextCloseBracket:
		return "}"
	case TextInt:
		return "int"
	case TextUint:
		return "uint"
	case TextFloat:
		return "float"
	case TextBool:
		return "bool"
	case TextStringQuoted:
		return "string_quoted"
	case TextStringUnquoted:
		return "string_unquoted"
	case TextVariable:
		return "variable"
	case TextExpr:
		return "expr"
	}
	return "invalid"
}

// TextToken is one lexed token of the text format. Only the payload
// field matching Kind is meaningful; string payloads borrow from the
// lexer's input and are never copies.
type TextToken struct {
	Kind  TextTokenKind
	Int   int64
	Uint  uint64
	Float float64
	Bool  bool
	Text  string
}

// IsBaseScalar reports whether the token is a plain scalar, as opposed
// to a control token or a variable/expression reference.
func (t TextToken) IsBaseScalar() bool {
	switch t.Kind {
	case TextInt, TextUint, TextFloat, TextBool, TextStringQuoted, TextStringUnquoted:
		return true
	}
	return false
}

func (t TextToken) String() string {
	switch t.Kind {
	case TextEqual, TextOpenBracket, TextCloseBracket:
		return t.Kind.String()
	case TextInt:
		return strconv.FormatInt(t.Int, 10)
	case TextUint:
		return strconv.FormatUint(t.Uint, 10)
	case TextFloat:
		return strconv.FormatFloat(t.Float, 'g', -1, 64)
	case TextBool:
		if t.Bool {
			return "yes"
		}
		return "no"
	case TextStringQuoted:
		return `"` + t.Text + `"`
	case TextStringUnquoted:
		return t.Text
	case TextVariable:
		return "@" + t.Text
	case TextExpr:
		return "@[" + t.Text + "]"
	}
	return "<invalid>"
}

const asciiSpace = " \t\n\f\r"

func isTextDelimiter(c byte) bool {
	return c == '=' || c == '{' || c == '}' || strings.IndexByte(asciiSpace, c) >= 0
}

// TextLexer produces a lazy, restartable stream of tokens over a
// string slice. The zero value is an exhausted lexer; copying a lexer
// snapshots its position.
type TextLexer struct {
	rest string
}

func NewTextLexer(input string) TextLexer {
	return TextLexer{rest: input}
}

// Rest returns the unconsumed remainder of the input.
func (l *TextLexer) Rest() string { return l.rest }

// Next returns the next token, or ok=false at end of input. An
// unterminated quoted string also ends the stream; the consumer
// surfaces that as an EOF error.
func (l *TextLexer) Next() (TextToken, bool) {
	for {
		l.rest = strings.TrimLeft(l.rest, asciiSpace)
		if len(l.rest) == 0 {
			return TextToken{}, false
		}

		switch l.rest[0] {
		case '=':
			l.rest = l.rest[1:]
			return TextToken{Kind: TextEqual}, true
		case '{':
			l.rest = l.rest[1:]
			return TextToken{Kind: TextOpenBracket}, true
		case '}':
			l.rest = l.rest[1:]
			return TextToken{Kind: TextCloseBracket}, true
		case '"':
			body := l.rest[1:]
			for i := 0; i < len(body); i++ {
				switch body[i] {
				case '\\':
					i++ // escapes the following character
				case '"':
					l.rest = body[i+1:]
					return TextToken{Kind: TextStringQuoted, Text: body[:i]}, true
				}
			}
			return TextToken{}, false // unclosed string
		case '#':
			// Chained comment lines collapse into one skip. This loops
			// rather than recursing so comment runs of any length cannot
			// overflow the stack.
			rest := l.rest[1:]
			for {
				_, after, found := strings.Cut(rest, "\n")
				if !found {
					l.rest = ""
					return TextToken{}, false
				}
				rest = strings.TrimLeft(after, asciiSpace)
				l.rest = rest
				if !strings.HasPrefix(after, "#") {
					break
				}
			}
			continue
		case '@':
			rest := l.rest[1:]
			if strings.HasPrefix(rest, "[") {
				// Balanced by the single next ']'; no nested bracket
				// awareness, matching the game's own reader.
				expr, after, found := strings.Cut(rest[1:], "]")
				if !found {
					return TextToken{}, false
				}
				l.rest = after
				return TextToken{Kind: TextExpr, Text: expr}, true
			}
			end := len(rest)
			for i := 0; i < len(rest); i++ {
				c := rest[i]
				if !isASCIIAlphanumeric(c) && c != '_' {
					end = i
					break
				}
			}
			if end == 0 {
				return TextToken{}, false
			}
			l.rest = rest[end:]
			return TextToken{Kind: TextVariable, Text: rest[:end]}, true
		}

		end := len(l.rest)
		for i := 0; i < len(l.rest); i++ {
			if isTextDelimiter(l.rest[i]) {
				end = i
				break
			}
		}
		value := l.rest[:end]
		l.rest = l.rest[end:]
		return classifyScalarText(value), true
	}
}

func isASCIIAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// classifyScalarText decides what kind of scalar a bare run of text
// is. The literal yes/no are booleans; otherwise classification is by
// character composition (an optional leading '-', digits, at most one
// '.'). Numeric parses that overflow fall back to the unquoted-string
// classification on purpose: some files carry ids wider than u64 and
// the grammar treats them as opaque text.
func classifyScalarText(value string) TextToken {
	if value == "yes" {
		return TextToken{Kind: TextBool, Bool: true}
	}
	if value == "no" {
		return TextToken{Kind: TextBool, Bool: false}
	}

	dots := 0
	signed := false
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '-' && i == 0:
			signed = true
		case c == '.':
			dots++
		case c >= '0' && c <= '9':
		default:
			return TextToken{Kind: TextStringUnquoted, Text: value}
		}
	}

	switch {
	case dots == 0 && signed:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return TextToken{Kind: TextInt, Int: n}
		}
	case dots == 0:
		if n, err := strconv.ParseUint(value, 10, 64); err == nil {
			return TextToken{Kind: TextUint, Uint: n}
		}
	case dots == 1:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return TextToken{Kind: TextFloat, Float: f}
		}
	}
	return TextToken{Kind: TextStringUnquoted, Text: value}
}

// DumpTokens renders the token stream indented by bracket depth, one
// token per line. Debugging aid for comparing binary and text streams.
func (l TextLexer) DumpTokens() string {
	depth := 0
	var b strings.Builder
	for {
		tok, ok := l.Next()
		if !ok {
			return b.String()
		}
		if tok.Kind == TextCloseBracket && depth >= 4 {
			depth -= 4
		}
		fmt.Fprintf(&b, "%*s%s\n", depth, "", tok)
		if tok.Kind == TextOpenBracket {
			depth += 4
		}
	}
}
