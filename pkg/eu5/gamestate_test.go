package eu5

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

// countryBuf appends a minimal country object with the required
// sections present.
func countryBuf(b *binBuf) {
	b.open()
	b.kv("type").str("location")
	b.kv("country_type").str("real")
	b.kv("currency_data").open().kv("gold").f64(12.5).close()
	b.kv("economy").open().kv("income").f64(3.25).close()
	b.kv("color").open().u32(10).u32(20).u32(30).close()
	b.kv("capital").i32(100)
	b.kv("units").open().u32(1).u32(2).close()
	b.kv("owned_subunits").open().u32(10).u32(11).u32(12).close()
	b.close()
}

func gamestateBuf() *binBuf {
	var b binBuf

	b.kv("metadata")
	b.open()
	b.kv("date").date(testDate(1444))
	b.kv("playthrough_id").quoted("b8e3-4d2a")
	b.kv("version").quoted("1.0.2")
	b.kv("compatibility").open().kv("version").i32(3).kv("locations").open().close().close()
	b.close()

	b.kv("countries").open()
	b.kv("tags").open().u32(1).equal().str("FRA").u32(2).equal().str("CAS").close()
	b.kv("database").open()
	b.u32(1).equal()
	countryBuf(&b)
	b.u32(2).equal().str("none")
	b.close()
	b.close()

	b.kv("locations").open()
	b.kv("locations").open()
	b.i32(100).equal().open()
	b.kv("owner").u32(1)
	b.kv("rank").str("city")
	b.kv("tax").f64(4.5)
	b.close()
	b.close()
	b.close()

	b.kv("previous_played").open()
	b.open().kv("idtype").u32(1).kv("name").quoted("Player One").close()
	b.close()

	b.kv("unit_manager").open()
	b.kv("database").open()
	b.u32(1).equal().open().kv("is_army").boolean(true).close()
	b.u32(2).equal().open().close() // defaults to navy
	b.close()
	b.close()

	b.kv("subunit_manager").open()
	b.kv("database").open()
	b.u32(10).equal().open().kv("unit").u32(1).kv("strength").f64(2.5).close()
	b.u32(11).equal().open().kv("unit").u32(1).kv("levies").open().close().close()
	b.u32(12).equal().open().kv("unit").u32(2).close()
	b.close()
	b.close()

	b.kv("war_manager").open()
	b.kv("database").open()
	b.u32(5).equal().open()
	b.kv("all").open()
	b.open()
	b.kv("country").u32(1)
	b.kv("history").open()
	b.kv("request").open().kv("side").str("Attacker").close()
	b.kv("joined").open().kv("date").date(testDate(1445)).close()
	b.close()
	b.kv("status").quoted("Active")
	b.close()
	b.close()
	b.kv("start_date").date(testDate(1445))
	b.kv("battle").open()
	b.kv("location").i32(100)
	b.kv("date").date(testDate(1446))
	b.kv("attacker").open().kv("non_levy").f64(5).close()
	b.kv("defender").open().close()
	b.close()
	b.close()
	b.close()
	b.close()

	b.kv("diplomacy_manager").open()
	b.kv("dependency").open()
	b.kv("first").u32(1)
	b.kv("second").u32(2)
	b.kv("subject_type").quoted("vassal")
	b.close()
	b.close()

	return &b
}

func TestDecodeGamestate(t *testing.T) {
	b := gamestateBuf()
	d := b.decoder()
	g, err := DecodeGamestate(&d)
	require.NoError(t, err)

	assert.Equal(t, testDate(1444), g.Metadata.Date)
	assert.Equal(t, "1.0.2", g.Metadata.Version)

	assert.Equal(t, map[uint32]string{1: "FRA", 2: "CAS"}, g.Countries.Tags)
	require.Len(t, g.Countries.Database, 2)
	assert.Nil(t, g.Countries.Database[2], "none entries decode to nil")

	country := g.Countries.Database[1]
	require.NotNil(t, country)
	assert.Equal(t, BasisLocation, country.BasisType)
	assert.Equal(t, CountryReal, country.Type)
	assert.True(t, country.Type.Known())
	assert.Equal(t, 12.5, country.CurrencyData.Gold)
	assert.Equal(t, 0.0, country.CurrencyData.Manpower)
	assert.Equal(t, 3.25, country.Economy.Income)
	require.NotNil(t, country.Color)
	assert.Equal(t, RGB{R: 10, G: 20, B: 30}, *country.Color)
	assert.Nil(t, country.Color2)
	require.NotNil(t, country.Capital)
	assert.Equal(t, int32(100), *country.Capital)
	assert.True(t, math.IsNaN(country.LastMonthsPopulation),
		"absent population defaults to NaN")
	assert.Nil(t, country.Definition)

	location, ok := g.Locations.Locations[100]
	require.True(t, ok)
	require.NotNil(t, location.Owner)
	assert.Equal(t, uint32(1), *location.Owner)
	require.NotNil(t, location.Rank)
	assert.Equal(t, RankCity, *location.Rank)
	assert.Equal(t, 4.5, location.Tax)
	assert.Equal(t, 0.0, location.PossibleTax)

	require.Len(t, g.PreviousPlayed, 1)
	assert.Equal(t, PreviousPlayedItem{IDType: 1, Name: "Player One"}, g.PreviousPlayed[0])

	require.NotNil(t, g.UnitManager.Database[1])
	assert.True(t, g.UnitManager.Database[1].IsArmy)
	require.NotNil(t, g.UnitManager.Database[2])
	assert.False(t, g.UnitManager.Database[2].IsArmy)

	subunit := g.SubunitManager.Database[11]
	require.NotNil(t, subunit)
	assert.True(t, subunit.IsLevy)
	assert.Equal(t, 1.0, subunit.Strength, "strength defaults to one")

	war := g.WarManager.Database[5]
	require.NotNil(t, war)
	require.Len(t, war.All, 1)
	assert.Equal(t, uint32(1), war.All[0].Country)
	assert.Equal(t, SideAttacker, war.All[0].History.Request.Side)
	require.NotNil(t, war.All[0].History.Joined)
	assert.Equal(t, testDate(1445), war.All[0].History.Joined.Date)
	assert.Nil(t, war.All[0].History.Left)
	assert.Equal(t, "Active", war.All[0].Status)
	assert.Equal(t, testDate(1445), war.StartDate)
	assert.Nil(t, war.EndDate)
	require.Len(t, war.Battles, 1)
	assert.Equal(t, int32(100), war.Battles[0].Location)
	assert.Equal(t, 5.0, war.Battles[0].Attacker.NonLevy)
	assert.Empty(t, war.Battles[0].Defender.Who)

	dep, ok := g.Diplomacy.Overlords[2]
	require.True(t, ok)
	assert.Equal(t, Dependency{First: 1, Second: 2, SubjectType: "vassal"}, dep)
}

func TestMilitarySize(t *testing.T) {
	b := gamestateBuf()
	d := b.decoder()
	g, err := DecodeGamestate(&d)
	require.NoError(t, err)

	country := g.Countries.Database[1]
	require.NotNil(t, country)

	size, err := g.MilitarySize(country)
	require.NoError(t, err)
	assert.Equal(t, MilitarySize{
		RegularArmy: 2500, // subunit 10: 2.5 thousand troops
		LevyArmy:    1000, // subunit 11: default strength, raised levy
		RegularNavy: 1,    // subunit 12: one ship
	}, size)
}

func TestMilitarySizeMissingSubunit(t *testing.T) {
	g := RawGamestate{
		SubunitManager: SubunitManager{Database: map[uint32]*RawSubunit{}},
	}
	country := RawCountry{OwnedSubunits: []uint32{99}}
	_, err := g.MilitarySize(&country)
	assert.ErrorContains(t, err, "failed to find subunit 99")
}

func TestMilitarySizeNoneEntries(t *testing.T) {
	g := RawGamestate{
		SubunitManager: SubunitManager{Database: map[uint32]*RawSubunit{7: nil}},
	}
	country := RawCountry{OwnedSubunits: []uint32{7}}
	_, err := g.MilitarySize(&country)
	assert.ErrorContains(t, err, "was none")
}

func TestDecodeRGBWrongLength(t *testing.T) {
	var b binBuf
	b.open().u32(1).u32(2).close()
	d := b.decoder()
	_, err := decodeRGB(&d)
	var lengthErr *clausewitz.UnexpectedLengthError
	require.ErrorAs(t, err, &lengthErr)
}

func TestDecodeNoneOr(t *testing.T) {
	// an inline `none` string is consumed
	var b binBuf
	b.str("none").i32(7)
	d := b.decoder()
	none, err := decodeNoneOr(&d)
	require.NoError(t, err)
	assert.True(t, none)
	n, err := d.ParseI32()
	require.NoError(t, err)
	assert.Equal(t, int32(7), n)

	// an open bracket leaves the cursor untouched
	b = binBuf{}
	b.open().close()
	d = b.decoder()
	none, err = decodeNoneOr(&d)
	require.NoError(t, err)
	assert.False(t, none)
	require.NoError(t, clausewitz.SkipBinValue(&d))

	// a registered `none` token id is consumed
	dict := clausewitz.NewDictionary(map[uint16]string{0x2c00: "none"})
	b = binBuf{}
	b.id(0x2c00)
	d = clausewitz.NewBinDecoder(b.data, nil, dict)
	none, err = decodeNoneOr(&d)
	require.NoError(t, err)
	assert.True(t, none)

	// anything else is an unknown token
	b = binBuf{}
	b.i32(1)
	d = b.decoder()
	_, err = decodeNoneOr(&d)
	require.ErrorIs(t, err, clausewitz.ErrUnknownToken)
}

func TestDecodeCountryBasisType(t *testing.T) {
	for tag, want := range map[string]CountryBasisType{
		"location": BasisLocation,
		"building": BasisBuilding,
		"army":     BasisArmy,
		"navy":     BasisNavy,
		"pop":      BasisPop,
	} {
		var b binBuf
		b.str(tag)
		d := b.decoder()
		got, err := decodeCountryBasisType(&d)
		require.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}

	var b binBuf
	b.str("fleet")
	d := b.decoder()
	_, err := decodeCountryBasisType(&d)
	assert.ErrorContains(t, err, "unknown country basis type")
}

func TestCountryTypeUnknownTagPreserved(t *testing.T) {
	var b binBuf
	b.str("rebels")
	d := b.decoder()
	got, err := decodeCountryType(&d)
	require.NoError(t, err)
	assert.Equal(t, "rebels", got.Tag())
	assert.False(t, got.Known())
}
