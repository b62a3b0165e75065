// Package eu5 holds typed record decoders for EU5 saves, built on the
// schema engine in pkg/clausewitz. The field sets are deliberately
// partial: only reverse-engineered fields are captured, and everything
// else rides through the generic skip.
package eu5

import (
	"github.com/cartograf/pdxsave/pkg/clausewitz"
	"github.com/cartograf/pdxsave/pkg/gamedate"
)

// RawCompatibility is the `compatibility` block of the metadata.
type RawCompatibility struct {
	Version int32
	// Locations, indexed by their id in the save file.
	Locations []string
}

// RawMeta is the decoded metadata member of a save.
type RawMeta struct {
	Date          gamedate.EU5Date
	PlaythroughID string
	Version       string
	Compatibility RawCompatibility
}

func decodeCompatibility(d *clausewitz.BinDecoder) (RawCompatibility, error) {
	var out RawCompatibility
	fields := []clausewitz.BinField{
		i32Field(d, "version", &out.Version),
		stringListField(d, "locations", &out.Locations),
	}
	err := clausewitz.DecodeBinObject(d, "RawCompatibility", false, fields)
	return out, err
}

func decodeMeta(d *clausewitz.BinDecoder, noBrackets bool) (RawMeta, error) {
	var out RawMeta
	fields := []clausewitz.BinField{
		dateField(d, "date", &out.Date),
		stringField(d, "playthrough_id", &out.PlaythroughID),
		stringField(d, "version", &out.Version),
		{
			Name:    "compatibility",
			TokenID: d.TokenID("compatibility"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeCompatibility(d)
				if err != nil {
					return err
				}
				out.Compatibility = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "RawMeta", noBrackets, fields)
	return out, err
}

// DecodeMeta decodes a standalone metadata member. Its root is a bare
// KV sequence with no surrounding brackets.
func DecodeMeta(d *clausewitz.BinDecoder) (RawMeta, error) {
	return decodeMeta(d, true)
}

// DecodeMetaText decodes the metadata member of a text-format save.
func DecodeMetaText(d *clausewitz.TextDecoder) (RawMeta, error) {
	var out RawMeta
	fields := []clausewitz.TextField{
		{
			Name: "date",
			Decode: func(d *clausewitz.TextDecoder) error {
				text, err := d.ParseString()
				if err != nil {
					return err
				}
				date, err := gamedate.ParseEU5Date(text)
				if err != nil {
					return err
				}
				out.Date = date
				return nil
			},
		},
		{
			Name: "playthrough_id",
			Decode: func(d *clausewitz.TextDecoder) error {
				v, err := d.ParseString()
				if err != nil {
					return err
				}
				out.PlaythroughID = v
				return nil
			},
		},
		{
			Name: "version",
			Decode: func(d *clausewitz.TextDecoder) error {
				v, err := d.ParseString()
				if err != nil {
					return err
				}
				out.Version = v
				return nil
			},
		},
		{
			Name: "compatibility",
			Decode: func(d *clausewitz.TextDecoder) error {
				return decodeCompatibilityText(d, &out.Compatibility)
			},
		},
	}
	err := clausewitz.DecodeTextObject(d, "RawMeta", true, fields)
	return out, err
}

func decodeCompatibilityText(d *clausewitz.TextDecoder, out *RawCompatibility) error {
	fields := []clausewitz.TextField{
		{
			Name: "version",
			Decode: func(d *clausewitz.TextDecoder) error {
				v, err := d.ParseI32()
				if err != nil {
					return err
				}
				out.Version = v
				return nil
			},
		},
		{
			Name: "locations",
			Decode: func(d *clausewitz.TextDecoder) error {
				v, err := clausewitz.DecodeTextList(d, (*clausewitz.TextDecoder).ParseString)
				if err != nil {
					return err
				}
				out.Locations = v
				return nil
			},
		},
	}
	return clausewitz.DecodeTextObject(d, "RawCompatibility", false, fields)
}
