package eu5

import (
	"fmt"
	"math"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

// RGB is a color triple stored as a bracketed list of three values.
type RGB struct {
	R, G, B uint8
}

func decodeRGB(d *clausewitz.BinDecoder) (RGB, error) {
	values, err := clausewitz.DecodeBinList(d, (*clausewitz.BinDecoder).ParseU8)
	if err != nil {
		return RGB{}, err
	}
	if len(values) != 3 {
		return RGB{}, &clausewitz.UnexpectedLengthError{Want: 3, Got: len(values)}
	}
	return RGB{R: values[0], G: values[1], B: values[2]}, nil
}

func optRGBField(d *clausewitz.BinDecoder, name string, dst **RGB) clausewitz.BinField {
	return clausewitz.BinField{
		Name:       name,
		TokenID:    d.TokenID(name),
		Quantifier: clausewitz.Optional,
		Decode: func(d *clausewitz.BinDecoder) error {
			v, err := decodeRGB(d)
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

// CountryBasisType says what a country is anchored to.
type CountryBasisType uint8

const (
	BasisLocation CountryBasisType = iota
	BasisBuilding
	BasisArmy
	BasisNavy
	BasisPop
)

func decodeCountryBasisType(d *clausewitz.BinDecoder) (CountryBasisType, error) {
	tag, err := d.ParseString()
	if err != nil {
		return 0, err
	}
	switch tag {
	case "location":
		return BasisLocation, nil
	case "building":
		return BasisBuilding, nil
	case "army":
		return BasisArmy, nil
	case "navy":
		return BasisNavy, nil
	case "pop":
		return BasisPop, nil
	}
	return 0, fmt.Errorf("unknown country basis type %q", tag)
}

// CountryType classifies a country, with unknown tags preserved
// verbatim rather than failing the decode.
type CountryType struct {
	tag string
}

var (
	CountryPirates     = CountryType{tag: "pirates"}
	CountryMercenaries = CountryType{tag: "mercenaries"}
	CountryReal        = CountryType{tag: "real"}
)

func (t CountryType) Tag() string { return t.tag }

// Known reports whether the tag is one of the recognized variants.
func (t CountryType) Known() bool {
	switch t {
	case CountryPirates, CountryMercenaries, CountryReal:
		return true
	}
	return false
}

func decodeCountryType(d *clausewitz.BinDecoder) (CountryType, error) {
	tag, err := d.ParseString()
	if err != nil {
		return CountryType{}, err
	}
	return CountryType{tag: tag}, nil
}

// CountryCurrencyData is the per-country stockpile block. Absent
// currencies default to zero.
type CountryCurrencyData struct {
	Gold     float64
	Manpower float64
	Sailors  float64
}

func decodeCurrencyData(d *clausewitz.BinDecoder) (CountryCurrencyData, error) {
	var out CountryCurrencyData
	fields := []clausewitz.BinField{
		f64Field(d, "gold", &out.Gold, 0),
		f64Field(d, "manpower", &out.Manpower, 0),
		f64Field(d, "sailors", &out.Sailors, 0),
	}
	err := clausewitz.DecodeBinObject(d, "CountryCurrencyData", false, fields)
	return out, err
}

// CountryEconomy is the per-country cashflow block.
type CountryEconomy struct {
	Expense float64
	Income  float64
}

func decodeEconomy(d *clausewitz.BinDecoder) (CountryEconomy, error) {
	var out CountryEconomy
	fields := []clausewitz.BinField{
		f64Field(d, "expense", &out.Expense, 0),
		f64Field(d, "income", &out.Income, 0),
	}
	err := clausewitz.DecodeBinObject(d, "CountryEconomy", false, fields)
	return out, err
}

// RawCountry is one entry of the countries database.
type RawCountry struct {
	Definition             *string
	BasisType              CountryBasisType
	Type                   CountryType
	CurrencyData           CountryCurrencyData
	EstimatedMonthlyIncome float64
	CurrentTaxBase         float64
	MaxManpower            float64
	MaxSailors             float64
	Economy                CountryEconomy
	Color                  *RGB
	Color2                 *RGB
	Color3                 *RGB
	GreatPowerRank         *int32
	Capital                *int32
	// Total population last month, in thousands. NaN when the save
	// predates the field.
	LastMonthsPopulation float64
	Units                []uint32
	OwnedSubunits        []uint32
}

func decodeCountry(d *clausewitz.BinDecoder) (RawCountry, error) {
	var out RawCountry
	fields := []clausewitz.BinField{
		optStringField(d, "definition", &out.Definition),
		{
			// spelled `type` in the save
			Name:    "type",
			TokenID: d.TokenID("type"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeCountryBasisType(d)
				if err != nil {
					return err
				}
				out.BasisType = v
				return nil
			},
		},
		{
			Name:    "country_type",
			TokenID: d.TokenID("country_type"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeCountryType(d)
				if err != nil {
					return err
				}
				out.Type = v
				return nil
			},
		},
		{
			Name:    "currency_data",
			TokenID: d.TokenID("currency_data"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeCurrencyData(d)
				if err != nil {
					return err
				}
				out.CurrencyData = v
				return nil
			},
		},
		f64Field(d, "estimated_monthly_income", &out.EstimatedMonthlyIncome, 0),
		f64Field(d, "current_tax_base", &out.CurrentTaxBase, 0),
		f64Field(d, "max_manpower", &out.MaxManpower, 0),
		f64Field(d, "max_sailors", &out.MaxSailors, 0),
		{
			Name:    "economy",
			TokenID: d.TokenID("economy"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := decodeEconomy(d)
				if err != nil {
					return err
				}
				out.Economy = v
				return nil
			},
		},
		optRGBField(d, "color", &out.Color),
		optRGBField(d, "color2", &out.Color2),
		optRGBField(d, "color3", &out.Color3),
		optI32Field(d, "great_power_rank", &out.GreatPowerRank),
		optI32Field(d, "capital", &out.Capital),
		f64Field(d, "last_months_population", &out.LastMonthsPopulation, math.NaN()),
		u32ListField(d, "units", &out.Units),
		u32ListField(d, "owned_subunits", &out.OwnedSubunits),
	}
	err := clausewitz.DecodeBinObject(d, "RawCountry", false, fields)
	return out, err
}

// decodeCountryEntry reads a database entry that is either a country
// object or the literal `none`.
func decodeCountryEntry(d *clausewitz.BinDecoder) (*RawCountry, error) {
	none, err := decodeNoneOr(d)
	if err != nil || none {
		return nil, err
	}
	country, err := decodeCountry(d)
	if err != nil {
		return nil, err
	}
	return &country, nil
}

// decodeNoneOr consumes a `none` literal and reports whether it did.
// When it reports false the cursor is untouched and an object follows.
func decodeNoneOr(d *clausewitz.BinDecoder) (bool, error) {
	peek, ok := d.PeekID()
	if !ok {
		return false, clausewitz.ErrEOF
	}
	if peek == clausewitz.BinIDOpenBracket {
		return false, nil
	}
	if noneID := d.TokenID("none"); noneID != 0 && peek == noneID {
		d.EatToken()
		return true, nil
	}
	// lookup- or inline-string encoded `none`
	fork := *d
	if tag, err := fork.ParseString(); err == nil && tag == "none" {
		*d = fork
		return true, nil
	}
	return false, fmt.Errorf("expecting an object or none: %w", clausewitz.ErrUnknownToken)
}

// Countries is the `countries` section: the tag index and the country
// database, both keyed by country id.
type Countries struct {
	Tags     map[uint32]string
	Database map[uint32]*RawCountry
}

func decodeCountries(d *clausewitz.BinDecoder) (Countries, error) {
	var out Countries
	fields := []clausewitz.BinField{
		{
			Name:    "tags",
			TokenID: d.TokenID("tags"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinMap(d,
					(*clausewitz.BinDecoder).ParseU32,
					(*clausewitz.BinDecoder).ParseString)
				if err != nil {
					return err
				}
				out.Tags = v
				return nil
			},
		},
		{
			Name:    "database",
			TokenID: d.TokenID("database"),
			Decode: func(d *clausewitz.BinDecoder) error {
				v, err := clausewitz.DecodeBinMap(d,
					(*clausewitz.BinDecoder).ParseU32,
					decodeCountryEntry)
				if err != nil {
					return err
				}
				out.Database = v
				return nil
			},
		},
	}
	err := clausewitz.DecodeBinObject(d, "Countries", false, fields)
	return out, err
}
