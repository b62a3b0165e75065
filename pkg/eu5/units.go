package eu5

import (
	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

// RawUnit is one entry of the unit database. A unit is a stack of
// subunits moving together.
type RawUnit struct {
	// IsArmy is true for land armies and false for navies.
	IsArmy bool
}

func decodeUnit(d *clausewitz.BinDecoder) (RawUnit, error) {
	var out RawUnit
	fields := []clausewitz.BinField{
		boolField(d, "is_army", &out.IsArmy, false),
	}
	err := clausewitz.DecodeBinObject(d, "RawUnit", false, fields)
	return out, err
}

func decodeUnitEntry(d *clausewitz.BinDecoder) (*RawUnit, error) {
	none, err := decodeNoneOr(d)
	if err != nil || none {
		return nil, err
	}
	unit, err := decodeUnit(d)
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// UnitManager is the `unit_manager` section.
type UnitManager struct {
	Database map[uint32]*RawUnit
}

func decodeUnitManager(d *clausewitz.BinDecoder) (UnitManager, error) {
	var out UnitManager
	fields := []clausewitz.BinField{
		{
			Name:    "database",
			TokenID: d.TokenID("database"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinMap(d,
					(*clausewitz.BinDecoder).ParseU32,
					decodeUnitEntry)
				if err != nil {
					return err
				}
				out.Database = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "UnitManager", false, fields)
	return out, err
}

// RawSubunit is one entry of the subunit database: a single regiment
// or ship.
type RawSubunit struct {
	// Unit is the id of the unit this subunit belongs to.
	Unit uint32
	// Strength is in thousands of troops for armies.
	Strength float64
	// IsLevy is set when the subunit carries a levies block. The
	// block's contents are skipped; its presence is the signal.
	IsLevy bool
}

func decodeSubunit(d *clausewitz.BinDecoder) (RawSubunit, error) {
	var out RawSubunit
	fields := []clausewitz.BinField{
		u32Field(d, "unit", &out.Unit),
		f64Field(d, "strength", &out.Strength, 1.0),
		{
			Name:       "levies",
			TokenID:    d.TokenID("levies"),
			Quantifier: clausewitz.Optional,
			Decode: func(d *clausewitz.BinDecoder) error {
				out.IsLevy = true
				return clausewitz.SkipBinValue(d)
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "RawSubunit", false, fields)
	return out, err
}

func decodeSubunitEntry(d *clausewitz.BinDecoder) (*RawSubunit, error) {
	none, err := decodeNoneOr(d)
	if err != nil || none {
		return nil, err
	}
	subunit, err := decodeSubunit(d)
	if err != nil {
		return nil, err
	}
	return &subunit, nil
}

// SubunitManager is the `subunit_manager` section.
type SubunitManager struct {
	Database map[uint32]*RawSubunit
}

func decodeSubunitManager(d *clausewitz.BinDecoder) (SubunitManager, error) {
	var out SubunitManager
	fields := []clausewitz.BinField{
		{
			Name:    "database",
			TokenID: d.TokenID("database"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinMap(d,
					(*clausewitz.BinDecoder).ParseU32,
					decodeSubunitEntry)
				if err != nil {
					return err
				}
				out.Database = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "SubunitManager", false, fields)
	return out, err
}
