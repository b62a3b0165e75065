package eu5

import (
	"github.com/cartograf/pdxsave/pkg/clausewitz"
	"github.com/cartograf/pdxsave/pkg/gamedate"
)

// Schema-row constructors. Each binds a save-file key to a Go
// destination, resolving the key's fixed dictionary id through the
// decoder so an incomplete dictionary degrades to string matching.

func f64Field(d *clausewitz.BinDecoder, name string, dst *float64, def float64) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseF64()
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
		Default: func() { *dst = def },
	}
}

func boolField(d *clausewitz.BinDecoder, name string, dst *bool, def bool) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseBool()
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
		Default: func() { *dst = def },
	}
}

func i32Field(d *clausewitz.BinDecoder, name string, dst *int32) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseI32()
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	}
}

func u32Field(d *clausewitz.BinDecoder, name string, dst *uint32) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseU32()
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	}
}

func stringField(d *clausewitz.BinDecoder, name string, dst *string) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseString()
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	}
}

func dateField(d *clausewitz.BinDecoder, name string, dst *gamedate.EU5Date) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := decodeDate(d)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	}
}

func optU32Field(d *clausewitz.BinDecoder, name string, dst **uint32) clausewitz.BinField {
	return clausewitz.BinField{
		Name:       name,
		TokenID:    d.TokenID(name),
		Quantifier: clausewitz.Optional,
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseU32()
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func optI32Field(d *clausewitz.BinDecoder, name string, dst **int32) clausewitz.BinField {
	return clausewitz.BinField{
		Name:       name,
		TokenID:    d.TokenID(name),
		Quantifier: clausewitz.Optional,
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseI32()
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func optStringField(d *clausewitz.BinDecoder, name string, dst **string) clausewitz.BinField {
	return clausewitz.BinField{
		Name:       name,
		TokenID:    d.TokenID(name),
		Quantifier: clausewitz.Optional,
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := d.ParseString()
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func optDateField(d *clausewitz.BinDecoder, name string, dst **gamedate.EU5Date) clausewitz.BinField {
	return clausewitz.BinField{
		Name:       name,
		TokenID:    d.TokenID(name),
		Quantifier: clausewitz.Optional,
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := decodeDate(d)
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func u32ListField(d *clausewitz.BinDecoder, name string, dst *[]uint32) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := clausewitz.DecodeBinList(d, (*clausewitz.BinDecoder).ParseU32)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
		Default: func() { *dst = nil },
	}
}

func f64ListField(d *clausewitz.BinDecoder, name string, dst *[]float64) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := clausewitz.DecodeBinList(d, (*clausewitz.BinDecoder).ParseF64)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
		Default: func() { *dst = nil },
	}
}

func stringListField(d *clausewitz.BinDecoder, name string, dst *[]string) clausewitz.BinField {
	return clausewitz.BinField{
		Name:    name,
		TokenID: d.TokenID(name),
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := clausewitz.DecodeBinList(d, (*clausewitz.BinDecoder).ParseString)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	}
}

// skipField consumes a key's value without capturing it. Used for
// sections that are known to exist but not yet reverse-engineered.
func skipField(d *clausewitz.BinDecoder, name string) clausewitz.BinField {
	return clausewitz.BinField{
		Name:       name,
		TokenID:    d.TokenID(name),
		Quantifier: clausewitz.Optional,
		Decode:     clausewitz.SkipBinValue,
	}
}

// decodeDate reads the packed signed-integer date encoding.
func decodeDate(d *clausewitz.BinDecoder) (gamedate.EU5Date, error) {
	raw, err := d.ParseI32()
	if err != nil {
		return gamedate.EU5Date{}, err
	}
	return gamedate.EU5DateFromPacked(raw)
}
