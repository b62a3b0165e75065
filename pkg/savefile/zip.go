package savefile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Archive member names used by the save formats.
const (
	memberStringLookup = "string_lookup"
	memberGamestate    = "gamestate"
	memberMeta         = "meta"
)

var zipMagic = []byte("PK\x03\x04")

// isZip reports whether the buffer is a zip archive. Legacy EU4 saves
// are bare zips with no SAV0 header.
func isZip(buffer []byte) bool {
	return bytes.HasPrefix(buffer, zipMagic)
}

// openArchive opens an in-memory zip with a faster flate decompressor
// registered. Gamestate members run to hundreds of megabytes, so the
// decompressor choice is noticeable.
func openArchive(buffer []byte) (*zip.Reader, error) {
	reader, err := zip.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return nil, fmt.Errorf("opening save archive: %w", err)
	}
	reader.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
	return reader, nil
}

// extractMember reads one named member fully.
func extractMember(reader *zip.Reader, name string) ([]byte, error) {
	file, err := reader.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening archive member %s: %w", name, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading archive member %s: %w", name, err)
	}
	return data, nil
}

// hasMember reports whether the archive carries a member by that
// name.
func hasMember(reader *zip.Reader, name string) bool {
	_, err := reader.Open(name)
	return err == nil
}
