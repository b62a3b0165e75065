package eu5

import (
	"fmt"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
	"github.com/cartograf/pdxsave/pkg/gamedate"
)

// WarParticipantSide is which side of a war a participant joined.
type WarParticipantSide uint8

const (
	SideAttacker WarParticipantSide = iota
	SideDefender
)

func decodeWarParticipantSide(d *clausewitz.BinDecoder) (WarParticipantSide, error) {
	tag, err := d.ParseString()
	if err != nil {
		return 0, err
	}
	switch tag {
	case "Attacker":
		return SideAttacker, nil
	case "Defender":
		return SideDefender, nil
	}
	return 0, fmt.Errorf("unknown war participant side %q", tag)
}

// WarParticipantRequest records how a participant was brought in.
type WarParticipantRequest struct {
	// CalledAlly is who called them into the war; nil for the original
	// attacker and defender.
	CalledAlly *uint32
	Side       WarParticipantSide
}

func decodeWarParticipantRequest(d *clausewitz.BinDecoder) (WarParticipantRequest, error) {
	var out WarParticipantRequest
	fields := []clausewitz.BinField{
		optU32Field(d, "called_ally", &out.CalledAlly),
		{
			Name:    "side",
			TokenID: d.TokenID("side"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeWarParticipantSide(d)
				if err != nil {
					return err
				}
				out.Side = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "WarParticipantRequest", false, fields)
	return out, err
}

// WarParticipantEvent is a dated join/refuse/leave record.
type WarParticipantEvent struct {
	Date gamedate.EU5Date
}

func decodeWarParticipantEvent(typeName string) func(*clausewitz.BinDecoder) (WarParticipantEvent, error) {
	return func(d *clausewitz.BinDecoder) (WarParticipantEvent, error) {
		var out WarParticipantEvent
		fields := []clausewitz.BinField{
			skipField(d, "reason"),
			dateField(d, "date", &out.Date),
		}
		err := clausewitz.DecodeBinObject(d, typeName, false, fields)
		return out, err
	}
}

// WarParticipantHistory tracks a participant's lifecycle in the war.
type WarParticipantHistory struct {
	Request WarParticipantRequest
	Joined  *WarParticipantEvent
	Refused *WarParticipantEvent
	Left    *WarParticipantEvent
}

func optEventField(d *clausewitz.BinDecoder, name, typeName string, dst **WarParticipantEvent) clausewitz.BinField {
	decode := decodeWarParticipantEvent(typeName)
	return clausewitz.BinField{
		Name:       name,
		TokenID:    d.TokenID(name),
		Quantifier: clausewitz.Optional,
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := decode(d)
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func decodeWarParticipantHistory(d *clausewitz.BinDecoder) (WarParticipantHistory, error) {
	var out WarParticipantHistory
	fields := []clausewitz.BinField{
		{
			Name:    "request",
			TokenID: d.TokenID("request"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeWarParticipantRequest(d)
				if err != nil {
					return err
				}
				out.Request = v
				return nil
			},
		},
		optEventField(d, "joined", "WarParticipantJoined", &out.Joined),
		optEventField(d, "refused", "WarParticipantRefused", &out.Refused),
		optEventField(d, "left", "WarParticipantLeft", &out.Left),
	}
	err := clausewitz.DecodeBinObject(d, "WarParticipantHistory", false, fields)
	return out, err
}

// WarParticipant is one country's involvement in a war.
type WarParticipant struct {
	Country uint32
	History WarParticipantHistory
	// Status is "Active" or "Left".
	Status string
}

func decodeWarParticipant(d *clausewitz.BinDecoder) (WarParticipant, error) {
	var out WarParticipant
	fields := []clausewitz.BinField{
		u32Field(d, "country", &out.Country),
		{
			Name:    "history",
			TokenID: d.TokenID("history"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeWarParticipantHistory(d)
				if err != nil {
					return err
				}
				out.History = v
				return nil
			},
		},
		stringField(d, "status", &out.Status),
	}
	err := clausewitz.DecodeBinObject(d, "WarParticipant", false, fields)
	return out, err
}

// BattleWho is one country's contribution to a side of a battle.
// Sizes are in thousands.
type BattleWho struct {
	Size      float64
	Levy      float64
	Mercenary float64
	Country   uint32
}

func decodeBattleWho(d *clausewitz.BinDecoder) (BattleWho, error) {
	var out BattleWho
	fields := []clausewitz.BinField{
		f64Field(d, "size", &out.Size, 0),
		f64Field(d, "levy", &out.Levy, 0),
		f64Field(d, "mercenary", &out.Mercenary, 0),
		u32Field(d, "country", &out.Country),
	}
	err := clausewitz.DecodeBinObject(d, "BattleWho", false, fields)
	return out, err
}

// BattleParticipation is one side of a battle. Counts are in
// thousands.
type BattleParticipation struct {
	Imprisoned []float64
	Losses     []float64
	Total      []float64
	Who        []BattleWho
	NonLevy    float64
}

func decodeBattleParticipation(d *clausewitz.BinDecoder) (BattleParticipation, error) {
	var out BattleParticipation
	fields := []clausewitz.BinField{
		f64ListField(d, "imprisoned", &out.Imprisoned),
		f64ListField(d, "losses", &out.Losses),
		f64ListField(d, "total", &out.Total),
		{
			Name:       "who",
			TokenID:    d.TokenID("who"),
			Quantifier: clausewitz.Multiple,
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeBattleWho(d)
				if err != nil {
					return err
				}
				out.Who = append(out.Who, v)
				return nil
			},
		},
		f64Field(d, "non_levy", &out.NonLevy, 0),
	}
	err := clausewitz.DecodeBinObject(d, "BattleParticipation", false, fields)
	return out, err
}

// Battle is a single dated engagement of a war.
type Battle struct {
	Location int32
	Date     gamedate.EU5Date
	Attacker BattleParticipation
	Defender BattleParticipation
}

func decodeBattle(d *clausewitz.BinDecoder) (Battle, error) {
	var out Battle
	fields := []clausewitz.BinField{
		i32Field(d, "location", &out.Location),
		dateField(d, "date", &out.Date),
		{
			Name:    "attacker",
			TokenID: d.TokenID("attacker"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeBattleParticipation(d)
				if err != nil {
					return err
				}
				out.Attacker = v
				return nil
			},
		},
		{
			Name:    "defender",
			TokenID: d.TokenID("defender"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeBattleParticipation(d)
				if err != nil {
					return err
				}
				out.Defender = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "Battle", false, fields)
	return out, err
}

// RawWar is one entry of the wars database.
type RawWar struct {
	All       []WarParticipant
	StartDate gamedate.EU5Date
	EndDate   *gamedate.EU5Date
	Battles   []Battle
}

func decodeWar(d *clausewitz.BinDecoder) (RawWar, error) {
	var out RawWar
	fields := []clausewitz.BinField{
		{
			Name:    "all",
			TokenID: d.TokenID("all"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinList(d, decodeWarParticipant)
				if err != nil {
					return err
				}
				out.All = v
				return nil
			},
		},
		skipField(d, "war_name"),
		dateField(d, "start_date", &out.StartDate),
		optDateField(d, "end_date", &out.EndDate),
		{
			Name:       "battle",
			TokenID:    d.TokenID("battle"),
			Quantifier: clausewitz.Multiple,
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeBattle(d)
				if err != nil {
					return err
				}
				out.Battles = append(out.Battles, v)
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "RawWar", false, fields)
	return out, err
}

func decodeWarEntry(d *clausewitz.BinDecoder) (*RawWar, error) {
	none, err := decodeNoneOr(d)
	if err != nil || none {
		return nil, err
	}
	war, err := decodeWar(d)
	if err != nil {
		return nil, err
	}
	return &war, nil
}

// WarManager is the `war_manager` section.
type WarManager struct {
	Database map[uint32]*RawWar
}

func decodeWarManager(d *clausewitz.BinDecoder) (WarManager, error) {
	var out WarManager
	fields := []clausewitz.BinField{
		skipField(d, "names"),
		{
			Name:    "database",
			TokenID: d.TokenID("database"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinMap(d,
					(*clausewitz.BinDecoder).ParseU32,
					decodeWarEntry)
				if err != nil {
					return err
				}
				out.Database = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "WarManager", false, fields)
	return out, err
}
