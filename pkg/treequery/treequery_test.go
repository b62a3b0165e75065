package treequery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

func parseTree(t *testing.T, input string) *clausewitz.Object {
	t.Helper()
	tree, err := clausewitz.ParseText(input)
	require.NoError(t, err)
	return tree
}

func TestFromObjectShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{
			name:  "bare values become a list",
			input: `colors = { 1 2 3 }`,
			want: map[string]any{
				"colors": []any{int64(1), int64(2), int64(3)},
			},
		},
		{
			name:  "kv pairs become a map",
			input: `country = { tag = FRA treasury = 12.5 ai = no }`,
			want: map[string]any{
				"country": map[string]any{
					"tag":      "FRA",
					"treasury": 12.5,
					"ai":       false,
				},
			},
		},
		{
			name:  "duplicate keys accumulate",
			input: `army = 1 army = 2 army = 3`,
			want: map[string]any{
				"army": []any{int64(1), int64(2), int64(3)},
			},
		},
		{
			name:  "bare values of a mixed object collect under _values",
			input: `tag = FRA 42 43`,
			want: map[string]any{
				"tag":     "FRA",
				"_values": []any{int64(42), int64(43)},
			},
		},
		{
			name:  "quoted scalars lose their quotes",
			input: `name = "New France" id = "12"`,
			want: map[string]any{
				"name": "New France",
				"id":   "12",
			},
		},
		{
			name:  "empty object is an empty list",
			input: `wars = {}`,
			want: map[string]any{
				"wars": []any{},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromObject(parseTree(t, tc.input))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromObjectScalarPrecedence(t *testing.T) {
	// yes/no before numbers, ints before floats, strings last
	got := FromObject(parseTree(t, `a = yes b = 7 c = 7.5 d = word`))
	assert.Equal(t, map[string]any{
		"a": true,
		"b": int64(7),
		"c": 7.5,
		"d": "word",
	}, got)
}

func TestQueryEval(t *testing.T) {
	query, err := New()
	require.NoError(t, err)

	tree := parseTree(t, `
		countries = {
			FRA = { treasury = 1200.5 capital = 183 }
			CAS = { treasury = 80 capital = 219 }
		}
		date = "1444.11.11"
	`)

	got, err := query.Eval(tree, `save.countries["FRA"].treasury > 1000.0`)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = query.Eval(tree, `save.countries["CAS"].capital`)
	require.NoError(t, err)
	assert.EqualValues(t, 219, got)

	got, err = query.Eval(tree, `save.date`)
	require.NoError(t, err)
	assert.Equal(t, "1444.11.11", got)
}

func TestQueryEvalNumberHelper(t *testing.T) {
	query, err := New()
	require.NoError(t, err)

	// treasury arrives as an int here but as a float elsewhere;
	// number() papers over the difference
	tree := parseTree(t, `treasury = 80`)
	got, err := query.Eval(tree, `number(save.treasury) < 100.0`)
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestQueryEvalErrors(t *testing.T) {
	query, err := New()
	require.NoError(t, err)
	tree := parseTree(t, `a = 1`)

	_, err = query.Eval(tree, `save.a ==`)
	assert.ErrorContains(t, err, "failed to compile")

	_, err = query.Eval(tree, `save.missing.deeper`)
	assert.ErrorContains(t, err, "failed to evaluate")
}

func TestQueryEvalData(t *testing.T) {
	query, err := New()
	require.NoError(t, err)

	data := FromObject(parseTree(t, `provinces = { 1 2 3 }`))
	got, err := query.EvalData(data, `size(save.provinces)`)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got)
}
