// Package savefile handles the outer container of a save: format
// classification, the SAV0 header, zip member extraction, and legacy
// encodings. It hands the inner byte ranges to pkg/clausewitz and the
// per-game packages without interpreting them itself.
//
// Basic usage:
//
//	parser, err := savefile.NewParser(savefile.WithDictionaryPath("eu5.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	save, err := parser.Open(ctx, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	decoder := save.MetaDecoder()
//	meta, err := eu5.DecodeMeta(&decoder)
package savefile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

// Save is an opened container: classified format, the raw member byte
// ranges, and the string table when the format embeds one. The parser
// never interprets the member contents.
type Save struct {
	Format SaveFormat
	// Header is nil for headerless plain-text buffers and legacy
	// zips.
	Header *Header
	// Meta and Gamestate are the decompressed member contents.
	Meta      []byte
	Gamestate []byte
	// Strings is the embedded string table; empty when the format
	// carries none.
	Strings *clausewitz.StringTable

	dict *clausewitz.Dictionary
}

// MetaDecoder returns a binary cursor over the metadata member.
func (s *Save) MetaDecoder() clausewitz.BinDecoder {
	return clausewitz.NewBinDecoder(s.Meta, s.Strings, s.dict)
}

// GamestateDecoder returns a binary cursor over the gamestate member.
func (s *Save) GamestateDecoder() clausewitz.BinDecoder {
	return clausewitz.NewBinDecoder(s.Gamestate, s.Strings, s.dict)
}

// MetaTree parses the metadata member as an untyped text tree.
func (s *Save) MetaTree() (*clausewitz.Object, error) {
	return clausewitz.ParseText(string(s.Meta))
}

// GamestateTree parses the gamestate member as an untyped text tree.
func (s *Save) GamestateTree() (*clausewitz.Object, error) {
	return clausewitz.ParseText(string(s.Gamestate))
}

// Parser is the high-level entry point for opening saves.
type Parser struct {
	logger *slog.Logger
	dict   *clausewitz.Dictionary
}

type options struct {
	logger   *slog.Logger
	dict     *clausewitz.Dictionary
	dictPath string
}

// Option configures a Parser.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDictionary injects an already-built token dictionary.
func WithDictionary(dict *clausewitz.Dictionary) Option {
	return func(o *options) {
		o.dict = dict
	}
}

// WithDictionaryPath loads the token dictionary from a YAML registry
// file when the parser is constructed.
func WithDictionaryPath(path string) Option {
	return func(o *options) {
		o.dictPath = path
	}
}

// NewParser builds a parser. Without a dictionary option, opaque
// binary token ids stay unresolved and typed decoders fall back to
// string-key matching.
func NewParser(opts ...Option) (*Parser, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dictPath != "" {
		dict, err := clausewitz.LoadDictionary(o.dictPath)
		if err != nil {
			return nil, err
		}
		o.dict = dict
	}
	return &Parser{logger: o.logger, dict: o.dict}, nil
}

// Open classifies and unpacks a save buffer. The context is consulted
// between container steps; the inner decode work is synchronous.
func (p *Parser) Open(ctx context.Context, data []byte) (*Save, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case HasHeader(data):
		return p.openModern(ctx, data)
	case isZip(data):
		return p.openLegacyZip(ctx, data)
	default:
		// a plain text object with no container at all
		p.logger.Debug("no save header, treating buffer as plain text",
			"size", len(data))
		return &Save{
			Format:    UncompressedText,
			Gamestate: data,
			Strings:   clausewitz.EmptyStringTable(),
			dict:      p.dict,
		}, nil
	}
}

func (p *Parser) openModern(ctx context.Context, data []byte) (*Save, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("parsing save header: %w", err)
	}
	p.logger.Debug("parsed save header",
		"format", header.Format,
		"version", header.Version,
		"meta_len", len(header.Meta))

	if header.Format.Split() {
		return nil, fmt.Errorf("split save format %s is not supported", header.Format)
	}

	save := &Save{
		Format:  header.Format,
		Header:  header,
		Meta:    header.Meta,
		Strings: clausewitz.EmptyStringTable(),
		dict:    p.dict,
	}

	switch header.Format {
	case UncompressedText, UncompressedBinary:
		save.Gamestate = header.Gamestate
		return save, nil
	case UnifiedCompressedText:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		archive, err := openArchive(header.Gamestate)
		if err != nil {
			return nil, err
		}
		gamestate, err := extractMember(archive, memberGamestate)
		if err != nil {
			return nil, err
		}
		save.Gamestate = gamestate
		return save, nil
	case UnifiedCompressedBinary:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		archive, err := openArchive(header.Gamestate)
		if err != nil {
			return nil, err
		}
		if hasMember(archive, memberStringLookup) {
			raw, err := extractMember(archive, memberStringLookup)
			if err != nil {
				return nil, err
			}
			table, err := clausewitz.NewStringTable(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing %s member: %w", memberStringLookup, err)
			}
			save.Strings = table
			p.logger.Debug("loaded string table", "entries", table.Len())
		}
		gamestate, err := extractMember(archive, memberGamestate)
		if err != nil {
			return nil, err
		}
		save.Gamestate = gamestate
		return save, nil
	}
	return nil, fmt.Errorf("save format %s is not supported", header.Format)
}

// openLegacyZip handles EU4-era saves: a bare zip with meta and
// gamestate members in Windows-1252.
func (p *Parser) openLegacyZip(ctx context.Context, data []byte) (*Save, error) {
	archive, err := openArchive(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	save := &Save{
		Format:  UnifiedCompressedText,
		Strings: clausewitz.EmptyStringTable(),
		dict:    p.dict,
	}
	if hasMember(archive, memberMeta) {
		raw, err := extractMember(archive, memberMeta)
		if err != nil {
			return nil, err
		}
		meta, err := decodeWindows1252(raw)
		if err != nil {
			return nil, err
		}
		save.Meta = []byte(meta)
	}
	raw, err := extractMember(archive, memberGamestate)
	if err != nil {
		return nil, err
	}
	gamestate, err := decodeWindows1252(raw)
	if err != nil {
		return nil, err
	}
	save.Gamestate = []byte(gamestate)
	p.logger.Debug("opened legacy zip save",
		"meta_len", len(save.Meta),
		"gamestate_len", len(save.Gamestate))
	return save, nil
}
