package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbols_VarDeclarationsNotDeduplicated(t *testing.T) {
	syms := Symbols("var total: number\nLog(total)\nvar total: string")
	require.Len(t, syms, 2)
	assert.Equal(t, Symbol{Name: "total", Type: "number", Line: 0, Character: 4}, syms[0])
	assert.Equal(t, Symbol{Name: "total", Type: "string", Line: 2, Character: 4}, syms[1])
}

func TestSymbols_PropertyFirstAssignmentWins(t *testing.T) {
	syms := Symbols("Data.x = 1\nData.x = 2\nif Data.x == 2 then\nend\nobj.a.b = 3")
	require.Len(t, syms, 2)
	assert.Equal(t, Symbol{Name: "Data.x", Type: TypeProperty, Line: 0, Character: 0}, syms[0])
	assert.Equal(t, Symbol{Name: "obj.a.b", Type: TypeProperty, Line: 4, Character: 0}, syms[1])
}

func TestSymbols_Iterators(t *testing.T) {
	syms := Symbols("foreach item in items do\nend\nfor i = 1 to 3 do\nend\nfor k in keys do\nend")
	require.Len(t, syms, 3)
	assert.Equal(t, Symbol{Name: "item", Type: TypeIterator, Line: 0, Character: 8}, syms[0])
	assert.Equal(t, Symbol{Name: "i", Type: TypeIterator, Line: 2, Character: 4}, syms[1])
	assert.Equal(t, Symbol{Name: "k", Type: TypeIterator, Line: 4, Character: 4}, syms[2])
}

func TestSymbols_LambdaParams(t *testing.T) {
	syms := Symbols("var f = (a, b) => a + b\nvar g = x => x * 2")
	require.Len(t, syms, 5)
	assert.Equal(t, Symbol{Name: "f", Line: 0, Character: 4}, syms[0])
	assert.Equal(t, Symbol{Name: "a", Type: TypeLambdaParam, Line: 0, Character: 9}, syms[1])
	assert.Equal(t, Symbol{Name: "b", Type: TypeLambdaParam, Line: 0, Character: 12}, syms[2])
	assert.Equal(t, Symbol{Name: "g", Line: 1, Character: 4}, syms[3])
	assert.Equal(t, Symbol{Name: "x", Type: TypeLambdaParam, Line: 1, Character: 8}, syms[4])
}

func TestSymbols_BareLambdaDedupedAgainstParens(t *testing.T) {
	syms := Symbols("var f = (v) => v => v")
	var params []Symbol
	for _, s := range syms {
		if s.Type == TypeLambdaParam {
			params = append(params, s)
		}
	}
	require.Len(t, params, 1)
	assert.Equal(t, 9, params[0].Character)
}

func TestSymbols_IgnoresStringsAndComments(t *testing.T) {
	syms := Symbols("var s = \"var hidden\" # var alsoHidden\nLog('a.b = 1')")
	require.Len(t, syms, 1)
	assert.Equal(t, "s", syms[0].Name)
}

func TestSymbol_RangeAndKind(t *testing.T) {
	s := Symbol{Name: "Data.x", Type: TypeProperty, Line: 3, Character: 2}
	assert.Equal(t, 8, s.Range().End.Col)
	assert.Equal(t, "property", s.Kind())
	assert.Equal(t, "variable", Symbol{Name: "a"}.Kind())
}
