package savefile

import (
	"bytes"
	"fmt"
	"strconv"
)

// SaveFormat is the container variant a save was written in.
type SaveFormat uint8

const (
	UncompressedText SaveFormat = iota
	UncompressedBinary
	UnifiedCompressedText
	UnifiedCompressedBinary
	SplitCompressedText
	SplitCompressedBinary
)

func (f SaveFormat) String() string {
	switch f {
	case UncompressedText:
		return "uncompressed_text"
	case UncompressedBinary:
		return "uncompressed_binary"
	case UnifiedCompressedText:
		return "unified_compressed_text"
	case UnifiedCompressedBinary:
		return "unified_compressed_binary"
	case SplitCompressedText:
		return "split_compressed_text"
	case SplitCompressedBinary:
		return "split_compressed_binary"
	}
	return fmt.Sprintf("SaveFormat(%d)", uint8(f))
}

// Binary reports whether the gamestate payload is binary-tokenized.
func (f SaveFormat) Binary() bool {
	switch f {
	case UncompressedBinary, UnifiedCompressedBinary, SplitCompressedBinary:
		return true
	}
	return false
}

// Split reports whether the save stores its sections in separate
// files. Split saves are recognized but not decoded.
func (f SaveFormat) Split() bool {
	return f == SplitCompressedText || f == SplitCompressedBinary
}

// headerMagic opens every modern save.
var headerMagic = []byte("SAV0")

// Header is the parsed fixed-size prefix of a modern save, plus the
// two byte ranges it delimits. The ranges alias the input buffer.
type Header struct {
	Version uint8
	Format  SaveFormat
	// All is the meta and gamestate together.
	All       []byte
	Meta      []byte
	Gamestate []byte
}

// HasHeader reports whether the buffer starts with the save magic.
// Buffers without it are plain text objects.
func HasHeader(buffer []byte) bool {
	return bytes.HasPrefix(buffer, headerMagic)
}

// ParseHeader parses the modern header: the magic, a version digit, a
// literal "0", a format digit in radix 6, 8 reserved bytes, 8
// ASCII-hex meta-length bytes, 8 further reserved bytes on version 2,
// and a newline. The remainder splits into meta and gamestate at the
// declared length.
func ParseHeader(buffer []byte) (*Header, error) {
	buffer, ok := bytes.CutPrefix(buffer, headerMagic)
	if !ok {
		return nil, fmt.Errorf("missing %s prefix", headerMagic)
	}
	if len(buffer) == 0 {
		return nil, fmt.Errorf("unexpected EOF while parsing save format version in header")
	}
	if buffer[0] < '0' || buffer[0] > '9' {
		return nil, fmt.Errorf("invalid save format version %q", buffer[0])
	}
	version := buffer[0] - '0'
	buffer = buffer[1:]

	buffer, ok = bytes.CutPrefix(buffer, []byte("0"))
	if !ok {
		return nil, fmt.Errorf("unexpected byte while parsing header")
	}

	if len(buffer) == 0 {
		return nil, fmt.Errorf("reached EOF while parsing save format type in header")
	}
	if buffer[0] < '0' || buffer[0] > '5' {
		return nil, fmt.Errorf("invalid save format id %q", buffer[0])
	}
	format := SaveFormat(buffer[0] - '0')
	buffer = buffer[1:]

	// reserved
	if len(buffer) < 8 {
		return nil, fmt.Errorf("unexpected EOF while parsing header")
	}
	buffer = buffer[8:]

	// meta length as ASCII hex; zero for split formats
	if len(buffer) < 8 {
		return nil, fmt.Errorf("unexpected EOF while parsing meta length in header")
	}
	metaLen, err := strconv.ParseUint(string(buffer[:8]), 16, 32)
	if err != nil {
		return nil, fmt.Errorf("while parsing meta length in header: %w", err)
	}
	buffer = buffer[8:]

	if version == 2 {
		if len(buffer) < 8 {
			return nil, fmt.Errorf("unexpected EOF while parsing header")
		}
		buffer = buffer[8:]
	}

	if after, ok := bytes.CutPrefix(buffer, []byte("\n")); ok {
		buffer = after
	} else if after, ok := bytes.CutPrefix(buffer, []byte("\r\n")); ok {
		buffer = after
	} else {
		return nil, fmt.Errorf("expected newline at end of header")
	}

	if uint64(len(buffer)) < metaLen {
		return nil, fmt.Errorf("unexpected EOF in the metadata buffer")
	}
	return &Header{
		Version:   version,
		Format:    format,
		All:       buffer,
		Meta:      buffer[:metaLen],
		Gamestate: buffer[metaLen:],
	}, nil
}
