package clausewitz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableSetDefineAndResolve(t *testing.T) {
	vars := NewVariableSet()
	require.NoError(t, vars.Define("base", TextToken{Kind: TextUint, Uint: 10}))
	require.NoError(t, vars.Define("name", TextToken{Kind: TextStringQuoted, Text: "FRA"}))

	tok, err := vars.Resolve(TextToken{Kind: TextVariable, Text: "base"})
	require.NoError(t, err)
	assert.Equal(t, TextToken{Kind: TextUint, Uint: 10}, tok)

	tok, err = vars.Resolve(TextToken{Kind: TextVariable, Text: "name"})
	require.NoError(t, err)
	assert.Equal(t, TextToken{Kind: TextStringUnquoted, Text: "FRA"}, tok)

	_, err = vars.Resolve(TextToken{Kind: TextVariable, Text: "missing"})
	assert.Error(t, err)

	// plain scalars pass through untouched
	scalar := TextToken{Kind: TextFloat, Float: 1.5}
	tok, err = vars.Resolve(scalar)
	require.NoError(t, err)
	assert.Equal(t, scalar, tok)
}

func TestVariableSetEvalExpr(t *testing.T) {
	vars := NewVariableSet()
	require.NoError(t, vars.Define("base", TextToken{Kind: TextUint, Uint: 10}))
	require.NoError(t, vars.Define("bonus", TextToken{Kind: TextFloat, Float: 0.5}))

	tok, err := vars.Resolve(TextToken{Kind: TextExpr, Text: "base * 2"})
	require.NoError(t, err)
	assert.Equal(t, TextUint, tok.Kind)
	assert.Equal(t, uint64(20), tok.Uint)

	tok, err = vars.Resolve(TextToken{Kind: TextExpr, Text: "bonus + 1.0"})
	require.NoError(t, err)
	assert.Equal(t, TextFloat, tok.Kind)
	assert.Equal(t, 1.5, tok.Float)

	_, err = vars.EvalExpr("base +")
	assert.Error(t, err)
}

func TestVariableSetExprSeesLaterDefinitions(t *testing.T) {
	vars := NewVariableSet()
	require.NoError(t, vars.Define("x", TextToken{Kind: TextUint, Uint: 1}))

	// compile once, then redefine; the cached program must see the
	// fresh value on the next evaluation
	out, err := vars.EvalExpr("x + 1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, out)

	require.NoError(t, vars.Define("x", TextToken{Kind: TextUint, Uint: 5}))
	out, err = vars.EvalExpr("x + 1")
	require.NoError(t, err)
	assert.EqualValues(t, 6, out)
}

func TestVariableSetRejectsControlTokens(t *testing.T) {
	vars := NewVariableSet()
	err := vars.Define("x", TextToken{Kind: TextOpenBracket})
	assert.Error(t, err)
}
