package eu5

import (
	"fmt"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

// LocationRank is a settlement tier.
type LocationRank uint8

const (
	RankRuralSettlement LocationRank = iota
	RankTown
	RankCity
)

func decodeLocationRank(d *clausewitz.BinDecoder) (LocationRank, error) {
	tag, err := d.ParseString()
	if err != nil {
		return 0, err
	}
	switch tag {
	case "rural_settlement":
		return RankRuralSettlement, nil
	case "town":
		return RankTown, nil
	case "city":
		return RankCity, nil
	}
	return 0, fmt.Errorf("unknown location rank %q", tag)
}

// Location is one entry of the locations table.
type Location struct {
	Owner *uint32
	Rank  *LocationRank
	// Tax and PossibleTax default to zero for unowned locations.
	Tax         float64
	PossibleTax float64
}

func decodeLocation(d *clausewitz.BinDecoder) (Location, error) {
	var out Location
	fields := []clausewitz.BinField{
		optU32Field(d, "owner", &out.Owner),
		{
			Name:       "rank",
			TokenID:    d.TokenID("rank"),
			Quantifier: clausewitz.Optional,
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeLocationRank(d)
				if err != nil {
					return err
				}
				out.Rank = &v
				return nil
			},
		},
		f64Field(d, "tax", &out.Tax, 0),
		f64Field(d, "possible_tax", &out.PossibleTax, 0),
	}
	err := clausewitz.DecodeBinObject(d, "Location", false, fields)
	return out, err
}

// Locations is the `locations` section.
type Locations struct {
	Locations map[int32]Location
}

func decodeLocations(d *clausewitz.BinDecoder) (Locations, error) {
	var out Locations
	fields := []clausewitz.BinField{
		{
			Name:    "locations",
			TokenID: d.TokenID("locations"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinMap(d,
					(*clausewitz.BinDecoder).ParseI32,
					decodeLocation)
				if err != nil {
					return err
				}
				out.Locations = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "Locations", false, fields)
	return out, err
}

// PreviousPlayedItem records who played which country.
type PreviousPlayedItem struct {
	// IDType is the country id.
	IDType uint32
	// Name is the player name.
	Name string
}

func decodePreviousPlayedItem(d *clausewitz.BinDecoder) (PreviousPlayedItem, error) {
	var out PreviousPlayedItem
	fields := []clausewitz.BinField{
		u32Field(d, "idtype", &out.IDType),
		stringField(d, "name", &out.Name),
	}
	err := clausewitz.DecodeBinObject(d, "PreviousPlayedItem", false, fields)
	return out, err
}

// RawGamestate is the decoded gamestate member. Its root is a bare KV
// sequence with no surrounding brackets.
type RawGamestate struct {
	Metadata       RawMeta
	Countries      Countries
	Locations      Locations
	PreviousPlayed []PreviousPlayedItem
	UnitManager    UnitManager
	SubunitManager SubunitManager
	WarManager     WarManager
	Diplomacy      DiplomacyManager
}

// DecodeGamestate decodes a gamestate member.
func DecodeGamestate(d *clausewitz.BinDecoder) (RawGamestate, error) {
	var out RawGamestate
	fields := []clausewitz.BinField{
		{
			Name:    "metadata",
			TokenID: d.TokenID("metadata"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeMeta(d, false)
				if err != nil {
					return err
				}
				out.Metadata = v
				return nil
			},
		},
		{
			Name:    "countries",
			TokenID: d.TokenID("countries"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeCountries(d)
				if err != nil {
					return err
				}
				out.Countries = v
				return nil
			},
		},
		{
			Name:    "locations",
			TokenID: d.TokenID("locations"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeLocations(d)
				if err != nil {
					return err
				}
				out.Locations = v
				return nil
			},
		},
		{
			Name:    "previous_played",
			TokenID: d.TokenID("previous_played"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinList(d, decodePreviousPlayedItem)
				if err != nil {
					return err
				}
				out.PreviousPlayed = v
				return nil
			},
		},
		{
			Name:    "unit_manager",
			TokenID: d.TokenID("unit_manager"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeUnitManager(d)
				if err != nil {
					return err
				}
				out.UnitManager = v
				return nil
			},
		},
		{
			Name:    "subunit_manager",
			TokenID: d.TokenID("subunit_manager"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeSubunitManager(d)
				if err != nil {
					return err
				}
				out.SubunitManager = v
				return nil
			},
		},
		{
			Name:    "war_manager",
			TokenID: d.TokenID("war_manager"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeWarManager(d)
				if err != nil {
					return err
				}
				out.WarManager = v
				return nil
			},
		},
		{
			Name:    "diplomacy_manager",
			TokenID: d.TokenID("diplomacy_manager"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeDiplomacyManager(d)
				if err != nil {
					return err
				}
				out.Diplomacy = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "RawGamestate", true, fields)
	return out, err
}

// MilitarySize tallies a country's forces from the unit and subunit
// databases. Armies count troops, navies count ships; levies only
// include raised ones.
type MilitarySize struct {
	RegularArmy uint64
	RegularNavy uint64
	LevyArmy    uint64
	LevyNavy    uint64
}

func (g *RawGamestate) MilitarySize(country *RawCountry) (MilitarySize, error) {
	var out MilitarySize
	for _, subunitID := range country.OwnedSubunits {
		subunit, ok := g.SubunitManager.Database[subunitID]
		if !ok {
			return MilitarySize{}, fmt.Errorf("failed to find subunit %d", subunitID)
		}
		if subunit == nil {
			return MilitarySize{}, fmt.Errorf("subunit %d was none", subunitID)
		}
		unit, ok := g.UnitManager.Database[subunit.Unit]
		if !ok {
			return MilitarySize{}, fmt.Errorf("failed to find unit %d for subunit %d", subunit.Unit, subunitID)
		}
		if unit == nil {
			return MilitarySize{}, fmt.Errorf("unit %d for subunit %d was none", subunit.Unit, subunitID)
		}

		switch {
		case unit.IsArmy && !subunit.IsLevy:
			out.RegularArmy += uint64(subunit.Strength * 1000.0)
		case !unit.IsArmy && !subunit.IsLevy:
			out.RegularNavy++
		case unit.IsArmy && subunit.IsLevy:
			out.LevyArmy += uint64(subunit.Strength * 1000.0)
		default:
			out.LevyNavy++
		}
	}
	return out, nil
}
