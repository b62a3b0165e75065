package clausewitz

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/kaitai-io/kaitai_struct_go_runtime/kaitai"
)

// StringTable resolves string-lookup token indices against the
// `string_lookup` member embedded in compressed binary saves. It is
// immutable once built.
type StringTable struct {
	entries []string
}

// stringTableHeaderLen is the reserved leading byte count of the
// string_lookup member. The header's contents are ignored.
const stringTableHeaderLen = 5

// NewStringTable parses the raw string_lookup member: a fixed header
// followed by u16-length-prefixed UTF-8 records until end of input.
// A record that runs past the end of input or is not valid UTF-8 is a
// hard error.
func NewStringTable(raw []byte) (*StringTable, error) {
	stream := kaitai.NewStream(bytes.NewReader(raw))
	if _, err := stream.ReadBytes(stringTableHeaderLen); err != nil {
		return nil, fmt.Errorf("reading string table header: %w", ErrEOF)
	}

	var entries []string
	for {
		eof, err := stream.EOF()
		if err != nil {
			return nil, fmt.Errorf("reading string table: %w", err)
		}
		if eof {
			break
		}
		length, err := stream.ReadU2le()
		if err != nil {
			return nil, fmt.Errorf("reading string table record length: %w", ErrEOF)
		}
		record, err := stream.ReadBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("reading string table record %d: %w", len(entries), ErrEOF)
		}
		if !utf8.Valid(record) {
			return nil, fmt.Errorf("string table record %d: %w", len(entries), ErrStringDecode)
		}
		entries = append(entries, string(record))
	}
	return &StringTable{entries: entries}, nil
}

// EmptyStringTable returns a table with no entries, for saves that
// carry no string_lookup member. Every lookup against it fails with
// ErrUnknownLookup.
func EmptyStringTable() *StringTable {
	return &StringTable{}
}

// Get returns the entry at the given lookup index.
func (t *StringTable) Get(index uint16) (string, bool) {
	if int(index) >= len(t.entries) {
		return "", false
	}
	return t.entries[index], true
}

// Resolve is Get with the miss reported as an error.
func (t *StringTable) Resolve(index uint16) (string, error) {
	s, ok := t.Get(index)
	if !ok {
		return "", fmt.Errorf("index %d of %d: %w", index, len(t.entries), ErrUnknownLookup)
	}
	return s, nil
}

// Len returns the entry count.
func (t *StringTable) Len() int { return len(t.entries) }

// All iterates the table in index order.
func (t *StringTable) All(yield func(index uint16, value string) bool) {
	for i, s := range t.entries {
		if !yield(uint16(i), s) {
			return
		}
	}
}
