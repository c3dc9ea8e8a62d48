package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		expr  string
		table SymbolTable
		want  float64
	}{
		{"A1+B2", SymbolTable{"A1": 5, "B2": 3}, 8},
		{"A1-B2", SymbolTable{"A1": 5, "B2": 3}, 2},
		{"A1*B2", SymbolTable{"A1": 5, "B2": 3}, 15},
		{"A1/B2", SymbolTable{"A1": 6, "B2": 3}, 2},
		{"A1+B2*2", SymbolTable{"A1": 5, "B2": 3}, 11},
		{"(A1+B2)*2", SymbolTable{"A1": 5, "B2": 3}, 16},
		{"-A1+10", SymbolTable{"A1": 4}, 6},
		{"2.5*4", nil, 10},
		{"100", nil, 100},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr, tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_MissingTokenDefaultsToZero(t *testing.T) {
	// C1 is absent from the table; it must contribute 0, not fail.
	got, err := Eval("A1+C1", SymbolTable{"A1": 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	got, err = Eval("Z9*100", SymbolTable{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEval_Functions(t *testing.T) {
	table := SymbolTable{"A1": 2, "A2": 4, "A3": 9}
	tests := []struct {
		expr string
		want float64
	}{
		{"SUM(A1,A2,A3)", 15},
		{"AVERAGE(A1,A2,A3)", 5},
		{"MIN(A1,A2,A3)", 2},
		{"MAX(A1,A2,A3)", 9},
		{"SUM(A1,A2)+MAX(A2,A3)", 15},
		{"IF(A1>1,100,0)", 100},
		{"IF(A1>5,100,0)", 0},
		{"IF(A1=2,50)", 50},
		{"IF(A1<>2,50)", 0},
		{"IF(A2>=4,IF(A3<10,7,8),9)", 7},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr, table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_Comparisons(t *testing.T) {
	table := SymbolTable{"A1": 5, "B1": 3}
	tests := []struct {
		expr string
		want float64
	}{
		{"A1>B1", 1},
		{"A1<B1", 0},
		{"A1>=5", 1},
		{"A1<=4", 0},
		{"A1=5", 1},
		{"A1<>5", 0},
	}
	for _, tt := range tests {
		got, err := Eval(tt.expr, table)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.expr)
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	_, err := Eval("A1/B1", SymbolTable{"A1": 5})
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, CodeDivisionByZero, evalErr.Code)
}

func TestEval_IfIsLazy(t *testing.T) {
	// The untaken branch divides by zero; laziness keeps it from running.
	got, err := Eval("IF(A1>0,A1,1/B1)", SymbolTable{"A1": 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		code string
	}{
		{"unbalanced parens", "(A1+B2", CodeParse},
		{"trailing operator", "A1+", CodeParse},
		{"empty", "", CodeParse},
		{"lowercase garbage", "a1+b2", CodeParse},
		{"unknown function", "COUNT(A1)", CodeParse},
		{"if missing args", "IF(A1)", CodeBadCall},
		{"if too many args", "IF(A1,1,2,3)", CodeBadCall},
		{"sum no args", "SUM()", CodeBadCall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			var evalErr *EvalError
			require.ErrorAs(t, err, &evalErr)
			assert.Equal(t, tt.code, evalErr.Code)
		})
	}
}

func TestCompile_Vars(t *testing.T) {
	compiled, err := Compile("A1+SUM(B2,B3)*IF(C1>0,1,0)")
	require.NoError(t, err)

	vars := compiled.Vars()
	assert.Equal(t, 4, vars.Cardinality())
	for _, tag := range []string{"A1", "B2", "B3", "C1"} {
		assert.True(t, vars.Contains(tag), tag)
	}
}

func TestCompile_ReusableAcrossTables(t *testing.T) {
	compiled, err := Compile("A1*10")
	require.NoError(t, err)

	for _, tt := range []struct {
		table SymbolTable
		want  float64
	}{
		{SymbolTable{"A1": 1}, 10},
		{SymbolTable{"A1": 2.5}, 25},
		{SymbolTable{}, 0},
	} {
		got, err := compiled.Eval(tt.table)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestEval_Whitespace(t *testing.T) {
	got, err := Eval("  A1 + B2 ", SymbolTable{"A1": 5, "B2": 3})
	require.NoError(t, err)
	assert.Equal(t, 8.0, got)
}
