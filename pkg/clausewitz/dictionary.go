package clausewitz

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dictionary maps opaque binary token ids to the canonical field and
// enum names the text format spells out. The mapping is per-game and
// per-version data recovered offline (see cmd/tokenrecover); the
// decoder only consumes it. Immutable once built.
type Dictionary struct {
	names [1 << 16]string
	ids   map[string]uint16
}

// NewDictionary builds a dictionary from explicit id/name pairs.
func NewDictionary(entries map[uint16]string) *Dictionary {
	d := &Dictionary{ids: make(map[string]uint16, len(entries))}
	for id, name := range entries {
		d.names[id] = name
		d.ids[name] = id
	}
	return d
}

// ParseDictionary reads the YAML registry format: a flat mapping of
// token id to name, ids written in hex or decimal.
//
//	0x2a4b: treasury
//	0x2a4c: manpower
func ParseDictionary(data []byte) (*Dictionary, error) {
	var entries map[uint16]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing token registry: %w", err)
	}
	return NewDictionary(entries), nil
}

// LoadDictionary reads a YAML registry file from disk.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token registry %s: %w", path, err)
	}
	d, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return d, nil
}

// Name returns the canonical name for a token id.
func (d *Dictionary) Name(id uint16) (string, bool) {
	if d == nil || d.names[id] == "" {
		return "", false
	}
	return d.names[id], true
}

// ID returns the token id registered for a name.
func (d *Dictionary) ID(name string) (uint16, bool) {
	if d == nil {
		return 0, false
	}
	id, ok := d.ids[name]
	return id, ok
}

// Len returns the number of registered ids.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.ids)
}

// Marshal renders the registry back to its YAML file format with ids
// in ascending order.
func (d *Dictionary) Marshal() ([]byte, error) {
	entries := make(map[uint16]string, len(d.ids))
	for id := range 1 << 16 {
		if d.names[id] != "" {
			entries[uint16(id)] = d.names[id]
		}
	}
	return yaml.Marshal(entries)
}
