package clausewitz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextBasic(t *testing.T) {
	obj, err := ParseText(`
		date = "1444.11.11"
		emperor = HAB
		players = { FRA CAS }
		fun = yes
	`)
	require.NoError(t, err)

	s, ok := obj.GetFirstString("date")
	require.True(t, ok)
	assert.Equal(t, "1444.11.11", s)

	s, ok = obj.GetFirstString("emperor")
	require.True(t, ok)
	assert.Equal(t, "HAB", s)

	players, ok := obj.GetFirstObject("players")
	require.True(t, ok)
	values := players.BareValues()
	require.Len(t, values, 2)
	assert.Equal(t, Scalar("FRA"), values[0])
	assert.Equal(t, Scalar("CAS"), values[1])

	fun, ok := obj.GetFirstBool("fun")
	require.True(t, ok)
	assert.True(t, fun)
}

func TestParseTextNesting(t *testing.T) {
	obj, err := ParseText(`a = { b = { c = 3 } }`)
	require.NoError(t, err)
	v, ok := obj.ScalarAt("a", "b", "c")
	require.True(t, ok)
	got, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(3), got)
}

func TestParseTextImplicitEqual(t *testing.T) {
	// some files write `key{...}` with neither '=' nor whitespace
	obj, err := ParseText(`history{1444.11.11{monarch=3}}`)
	require.NoError(t, err)
	history, ok := obj.GetFirstObject("history")
	require.True(t, ok)
	entry, ok := history.GetFirstObject("1444.11.11")
	require.True(t, ok)
	monarch, ok := entry.GetFirstInt("monarch")
	require.True(t, ok)
	assert.Equal(t, int64(3), monarch)
}

func TestParseTextSeparatedBrace(t *testing.T) {
	// with whitespace before '{' the scalar stays a bare value
	obj, err := ParseText(`tag { 1 2 }`)
	require.NoError(t, err)
	require.Len(t, obj.Items, 2)
	assert.False(t, obj.Items[0].KV)
	assert.Equal(t, Scalar("tag"), obj.Items[0].Value)
	assert.False(t, obj.Items[1].KV)
}

func TestParseTextDuplicateKeys(t *testing.T) {
	obj, err := ParseText(`army = a army = b`)
	require.NoError(t, err)
	all := obj.GetAll("army")
	require.Len(t, all, 2)
	assert.Equal(t, Scalar("a"), all[0])
	assert.Equal(t, Scalar("b"), all[1])

	first, ok := obj.GetFirst("army")
	require.True(t, ok)
	assert.Equal(t, Scalar("a"), first)
}

func TestParseTextQuotedScalarKeepsQuotes(t *testing.T) {
	obj, err := ParseText(`name = "Das Reich"`)
	require.NoError(t, err)
	s, ok := obj.GetFirstScalar("name")
	require.True(t, ok)
	assert.Equal(t, Scalar(`"Das Reich"`), s)
	assert.Equal(t, "Das Reich", s.AsString())
}

func TestParseTextUnterminated(t *testing.T) {
	// an object left open at end of input closes there
	obj, err := ParseText(`a = { b = 1`)
	require.NoError(t, err)
	n, ok := obj.ObjectAt("a")
	require.True(t, ok)
	got, ok := n.GetFirstInt("b")
	require.True(t, ok)
	assert.Equal(t, int64(1), got)

	// an unterminated quoted string cannot
	_, err = ParseText(`a = "never`)
	require.ErrorIs(t, err, ErrEOF)
}

func TestScalarAccessors(t *testing.T) {
	b, ok := Scalar("yes").AsBool()
	require.True(t, ok)
	assert.True(t, b)
	_, ok = Scalar("maybe").AsBool()
	assert.False(t, ok)

	n, ok := Scalar("-7").AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(-7), n)

	f, ok := Scalar("1.25").AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1.25, f)

	d, ok := Scalar("1444.11.11").AsEU4Date()
	require.True(t, ok)
	assert.Equal(t, uint16(1444), d.Year)
}

func TestObjectColor(t *testing.T) {
	obj, err := ParseText(`color = { 12 34 56 }`)
	require.NoError(t, err)
	colorObj, ok := obj.GetFirstObject("color")
	require.True(t, ok)
	color, err := colorObj.Color()
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{12, 34, 56}, color)

	short, err := ParseText(`{ 1 2 }`)
	require.NoError(t, err)
	inner, ok := short.BareValues()[0].(*Object)
	require.True(t, ok)
	_, err = inner.Color()
	var lengthErr *UnexpectedLengthError
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, 3, lengthErr.Want)
	assert.Equal(t, 2, lengthErr.Got)

	wide, err := ParseText(`{ 1 2 300 }`)
	require.NoError(t, err)
	inner, ok = wide.BareValues()[0].(*Object)
	require.True(t, ok)
	_, err = inner.Color()
	require.ErrorIs(t, err, ErrIntegerOverflow)
}
