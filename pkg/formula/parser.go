// Package formula parses and evaluates section scoring formulas.
//
// Formulas are externally authored spreadsheet-style expressions over
// sub-tag symbols, e.g. "A1+A2*0.5" or "IF(SUM(A1,A2)>10,100,0)". They are
// untrusted input: parsing produces an expression tree that is interpreted
// against an explicit symbol table, and a formula string never reaches a
// code-execution path of any kind.
package formula

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// formulaLexer tokenizes expressions. Symbols are one uppercase letter
// followed by digits; the fixed function names are matched first so that
// "IF(" lexes as a function and "I1" as a symbol.
var formulaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]+)?`},
	{Name: "Func", Pattern: `SUM|AVERAGE|MIN|MAX|IF`},
	{Name: "Symbol", Pattern: `[A-Z][0-9]+`},
	{Name: "Op", Pattern: `<>|<=|>=|[-+*/=<>(),]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Parse tree. Precedence is encoded in the grammar: comparison is loosest,
// then additive, then multiplicative, then unary minus.

type expression struct {
	Left  *sum   `parser:"@@"`
	Op    string `parser:"[ @('<>' | '<=' | '>=' | '=' | '<' | '>')"`
	Right *sum   `parser:"  @@ ]"`
}

type sum struct {
	Left *product `parser:"@@"`
	Rest []*sumOp `parser:"@@*"`
}

type sumOp struct {
	Op   string   `parser:"@('+' | '-')"`
	Term *product `parser:"@@"`
}

type product struct {
	Left *unary    `parser:"@@"`
	Rest []*prodOp `parser:"@@*"`
}

type prodOp struct {
	Op   string `parser:"@('*' | '/')"`
	Term *unary `parser:"@@"`
}

type unary struct {
	Neg  bool  `parser:"@'-'?"`
	Atom *atom `parser:"@@"`
}

type atom struct {
	Number *float64    `parser:"@Number"`
	Call   *call       `parser:"| @@"`
	Symbol *string     `parser:"| @Symbol"`
	Group  *expression `parser:"| '(' @@ ')'"`
}

type call struct {
	Name string        `parser:"@Func"`
	Args []*expression `parser:"'(' ( @@ (',' @@)* )? ')'"`
}

var formulaParser = participle.MustBuild[expression](
	participle.Lexer(formulaLexer),
	participle.UseLookahead(2),
)

// parse runs the participle parser over an expression string.
func parse(expr string) (*expression, error) {
	return formulaParser.ParseString("", expr)
}
