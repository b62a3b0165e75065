package eu5

import (
	"fmt"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

// Dependency is an overlord/subject relationship.
type Dependency struct {
	// First is the overlord, Second the subject.
	First       uint32
	Second      uint32
	SubjectType string
}

func decodeDependency(d *clausewitz.BinDecoder) (Dependency, error) {
	var out Dependency
	fields := []clausewitz.BinField{
		u32Field(d, "first", &out.First),
		u32Field(d, "second", &out.Second),
		stringField(d, "subject_type", &out.SubjectType),
	}
	err := clausewitz.DecodeBinObject(d, "Dependency", false, fields)
	return out, err
}

// DiplomacyManager is the `diplomacy_manager` section. Its object
// mixes country-id keys with repeated `dependency` entries, so it gets
// a hand-rolled loop instead of a schema table.
type DiplomacyManager struct {
	// Overlords indexes each dependency by its subject id.
	Overlords map[uint32]Dependency
}

func decodeDiplomacyManager(d *clausewitz.BinDecoder) (DiplomacyManager, error) {
	if err := d.ParseToken(clausewitz.BinIDOpenBracket); err != nil {
		return DiplomacyManager{}, fmt.Errorf("missing open bracket at start of DiplomacyManager: %w", err)
	}
	out := DiplomacyManager{Overlords: make(map[uint32]Dependency)}
	dependencyID := d.TokenID("dependency")

	for {
		peek, ok := d.PeekID()
		if !ok {
			return DiplomacyManager{}, clausewitz.ErrEOF
		}
		switch {
		case peek == clausewitz.BinIDEqual:
			return DiplomacyManager{}, fmt.Errorf("expecting a new KV in DiplomacyManager: %w", clausewitz.ErrUnexpectedKV)
		case peek == clausewitz.BinIDCloseBracket:
			d.EatToken()
			return out, nil
		case dependencyID != 0 && peek == dependencyID:
			d.EatToken()
			if err := d.ParseToken(clausewitz.BinIDEqual); err != nil {
				continue
			}
			value, err := decodeDependency(d)
			if err != nil {
				return DiplomacyManager{}, fmt.Errorf("while parsing dependency: %w", err)
			}
			out.Overlords[value.Second] = value
		case peek == clausewitz.BinIDStringQuoted || peek == clausewitz.BinIDStringUnquoted ||
			peek == clausewitz.BinIDLookupUnquotedU16 || peek == clausewitz.BinIDLookupQuotedU16 ||
			peek == clausewitz.BinIDLookupUnquotedU8:
			key, err := d.ParseString()
			if err != nil {
				return DiplomacyManager{}, fmt.Errorf("while parsing string key in DiplomacyManager: %w", err)
			}
			if peek, ok := d.PeekID(); !ok || peek != clausewitz.BinIDEqual {
				continue
			}
			d.EatToken()
			if key != "dependency" {
				if err := clausewitz.SkipBinValue(d); err != nil {
					return DiplomacyManager{}, err
				}
				continue
			}
			value, err := decodeDependency(d)
			if err != nil {
				return DiplomacyManager{}, fmt.Errorf("while parsing dependency: %w", err)
			}
			out.Overlords[value.Second] = value
		default:
			if err := clausewitz.SkipBinValue(d); err != nil {
				return DiplomacyManager{}, err
			}
			if peek, ok := d.PeekID(); ok && peek == clausewitz.BinIDEqual {
				d.EatToken()
				if err := clausewitz.SkipBinValue(d); err != nil {
					return DiplomacyManager{}, err
				}
			}
		}
	}
}
