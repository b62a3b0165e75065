package clausewitz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treasuryField(d *BinDecoder, dst *float64) BinField {
	return BinField{
		Name: "treasury",
		Decode: func(d *BinDecoder) error {
			v, err := d.ParseF64()
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	}
}

func TestDecodeBinObject(t *testing.T) {
	// { treasury = <f64 fixed-u8 150> }
	var b binBuf
	b.open().kv("treasury").f64Fixed(1, 150).close()

	var treasury float64
	d := b.decoder()
	err := DecodeBinObject(&d, "Country", false, []BinField{treasuryField(&d, &treasury)})
	require.NoError(t, err)
	assert.InDelta(t, 0.0015, treasury, 1e-9)
	assert.True(t, d.Empty())
}

func TestDecodeBinObjectMissingField(t *testing.T) {
	var b binBuf
	b.open().close()

	var treasury float64
	d := b.decoder()
	err := DecodeBinObject(&d, "Country", false, []BinField{treasuryField(&d, &treasury)})
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Country", missing.Struct)
	assert.Equal(t, "treasury", missing.Field)
}

func TestDecodeBinObjectDefaults(t *testing.T) {
	var b binBuf
	b.open().close()

	treasury := -1.0
	d := b.decoder()
	fields := []BinField{{
		Name:    "treasury",
		Decode:  func(d *BinDecoder) error { _, err := d.ParseF64(); return err },
		Default: func() { treasury = 0 },
	}}
	require.NoError(t, DecodeBinObject(&d, "Country", false, fields))
	assert.Equal(t, 0.0, treasury)
}

func TestDecodeBinObjectDuplicatesLastWriteWins(t *testing.T) {
	var b binBuf
	b.open().kv("treasury").f64(1).kv("treasury").f64(2).close()

	var treasury float64
	d := b.decoder()
	err := DecodeBinObject(&d, "Country", false, []BinField{treasuryField(&d, &treasury)})
	require.NoError(t, err)
	assert.Equal(t, 2.0, treasury)
}

func TestDecodeBinObjectMultiple(t *testing.T) {
	var b binBuf
	b.open().kv("unit").u32(1).kv("other").i32(0).kv("unit").u32(2).close()

	var units []uint32
	d := b.decoder()
	fields := []BinField{{
		Name:       "unit",
		Quantifier: Multiple,
		Decode: func(d *BinDecoder) error {
			v, err := d.ParseU32()
			if err != nil {
				return err
			}
			units = append(units, v)
			return nil
		},
	}}
	require.NoError(t, DecodeBinObject(&d, "UnitList", false, fields))
	assert.Equal(t, []uint32{1, 2}, units)
}

func TestDecodeBinObjectNoBrackets(t *testing.T) {
	var b binBuf
	b.kv("treasury").f64(1.5)

	var treasury float64
	d := b.decoder()
	err := DecodeBinObject(&d, "Root", true, []BinField{treasuryField(&d, &treasury)})
	require.NoError(t, err)
	assert.Equal(t, 1.5, treasury)

	// a stray close bracket is an error at the root
	b = binBuf{}
	b.close()
	d = b.decoder()
	err = DecodeBinObject(&d, "Root", true, nil)
	var tokenErr *UnexpectedTokenError
	require.ErrorAs(t, err, &tokenErr)
}

func TestDecodeBinObjectSkipsUnknownKeys(t *testing.T) {
	var b binBuf
	b.open()
	b.kv("mystery").open().i32(1).i32(2).close()
	b.kv("treasury").f64(7)
	b.id(0x2a4b).equal().quoted("opaque keyed value")
	b.id(0x2a4c) // opaque id with no value at all
	b.close()

	var treasury float64
	d := b.decoder()
	err := DecodeBinObject(&d, "Country", false, []BinField{treasuryField(&d, &treasury)})
	require.NoError(t, err)
	assert.Equal(t, 7.0, treasury)
	assert.True(t, d.Empty())
}

func TestDecodeBinObjectBareStringValues(t *testing.T) {
	// strings not followed by '=' are bare values, not keys
	var b binBuf
	b.open().str("loner").kv("treasury").f64(1).str("another").close()

	var treasury float64
	d := b.decoder()
	err := DecodeBinObject(&d, "Country", false, []BinField{treasuryField(&d, &treasury)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, treasury)
}

func TestDecodeBinObjectTokenFastPath(t *testing.T) {
	const treasuryID = 0x2a4b
	dict := NewDictionary(map[uint16]string{treasuryID: "treasury"})

	var b binBuf
	b.open().id(treasuryID).equal().f64(3).close()

	var treasury float64
	d := b.decoderWith(nil, dict)
	fields := []BinField{{
		Name:    "treasury",
		TokenID: d.TokenID("treasury"),
		Decode: func(d *BinDecoder) error {
			v, err := d.ParseF64()
			if err != nil {
				return err
			}
			treasury = v
			return nil
		},
	}}
	require.NoError(t, DecodeBinObject(&d, "Country", false, fields))
	assert.Equal(t, 3.0, treasury)
}

func TestDecodeBinObjectTokenFieldIgnoresStringKey(t *testing.T) {
	// a field bound to a fixed id does not match its spelled-out key
	var b binBuf
	b.open().kv("treasury").f64(3).close()

	var treasury float64
	d := b.decoder()
	fields := []BinField{{
		Name:       "treasury",
		TokenID:    0x2a4b,
		Quantifier: Optional,
		Decode: func(d *BinDecoder) error {
			v, err := d.ParseF64()
			if err != nil {
				return err
			}
			treasury = v
			return nil
		},
	}}
	require.NoError(t, DecodeBinObject(&d, "Country", false, fields))
	assert.Equal(t, 0.0, treasury)
}

func TestDecodeBinObjectLeadingEqual(t *testing.T) {
	var b binBuf
	b.open().equal().i32(1).close()
	d := b.decoder()
	err := DecodeBinObject(&d, "Country", false, nil)
	var tokenErr *UnexpectedTokenError
	require.ErrorAs(t, err, &tokenErr)
}

func TestDecodeBinObjectUnterminated(t *testing.T) {
	var b binBuf
	b.open().kv("treasury").f64(1)
	var treasury float64
	d := b.decoder()
	err := DecodeBinObject(&d, "Country", false, []BinField{treasuryField(&d, &treasury)})
	require.ErrorIs(t, err, ErrEOF)
}

func TestDecodeBinList(t *testing.T) {
	var b binBuf
	b.open().u32(1).u32(2).u32(3).close()
	d := b.decoder()
	out, err := DecodeBinList(&d, (*BinDecoder).ParseU32)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, out)

	// an '=' inside a strict list is an error
	b = binBuf{}
	b.open().u32(1).equal().u32(2).close()
	d = b.decoder()
	_, err = DecodeBinList(&d, (*BinDecoder).ParseU32)
	require.ErrorIs(t, err, ErrUnexpectedKV)
}

func TestDecodeBinMap(t *testing.T) {
	var b binBuf
	b.open().u32(1).equal().str("one").u32(2).equal().str("two").close()
	d := b.decoder()
	out, err := DecodeBinMap(&d, (*BinDecoder).ParseU32, (*BinDecoder).ParseString)
	require.NoError(t, err)
	assert.Equal(t, map[uint32]string{1: "one", 2: "two"}, out)
}

func TestDecodeTextObject(t *testing.T) {
	d := NewTextDecoder(`treasury = 1.5 mystery = { 1 2 } 42 extra = x`)
	var treasury float64
	fields := []TextField{{
		Name: "treasury",
		Decode: func(d *TextDecoder) error {
			v, err := d.ParseF64()
			if err != nil {
				return err
			}
			treasury = v
			return nil
		},
	}}
	require.NoError(t, DecodeTextObject(&d, "Country", true, fields))
	assert.Equal(t, 1.5, treasury)
}

func TestDecodeTextObjectMissingField(t *testing.T) {
	d := NewTextDecoder(`{ }`)
	fields := []TextField{{
		Name:   "treasury",
		Decode: func(d *TextDecoder) error { _, err := d.ParseF64(); return err },
	}}
	err := DecodeTextObject(&d, "Country", false, fields)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "treasury", missing.Field)
}

func TestDecodeTextListAndMap(t *testing.T) {
	d := NewTextDecoder(`{ a b c }`)
	list, err := DecodeTextList(&d, (*TextDecoder).ParseString)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, list)

	d = NewTextDecoder(`{ 1 = x 2 = y }`)
	m, err := DecodeTextMap(&d, (*TextDecoder).ParseU32, (*TextDecoder).ParseString)
	require.NoError(t, err)
	assert.Equal(t, map[uint32]string{1: "x", 2: "y"}, m)

	d = NewTextDecoder(`{ a = b }`)
	_, err = DecodeTextList(&d, (*TextDecoder).ParseString)
	require.ErrorIs(t, err, ErrUnexpectedKV)
}
