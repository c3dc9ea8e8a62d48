package formula

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// SymbolTable maps sub-tags to their aggregated numeric values for one
// branch. Tags absent from the table resolve to zero.
type SymbolTable map[string]float64

// Compiled is a parsed formula ready for repeated evaluation. It is
// immutable and safe for concurrent use.
type Compiled struct {
	Expression string
	root       Node
	vars       mapset.Set[string]
}

// Compile parses an expression string into an evaluation tree. A malformed
// expression, unknown function, or bad argument count yields an *EvalError.
func Compile(expr string) (*Compiled, error) {
	tree, err := parse(expr)
	if err != nil {
		return nil, parseError(expr, err)
	}
	root, err := lowerExpression(tree, expr)
	if err != nil {
		return nil, err
	}
	vars := mapset.NewThreadUnsafeSet[string]()
	collectVars(root, vars)
	return &Compiled{Expression: expr, root: root, vars: vars}, nil
}

// Vars returns the set of sub-tags the formula references.
func (c *Compiled) Vars() mapset.Set[string] {
	return c.vars
}

// Eval evaluates the formula against a symbol table. A division by zero
// yields an *EvalError; missing symbols evaluate to zero.
func (c *Compiled) Eval(table SymbolTable) (float64, error) {
	return c.evalNode(c.root, table)
}

// Eval is a convenience that compiles and evaluates in one step. Callers
// evaluating the same formula for many branches should Compile once instead.
func Eval(expr string, table SymbolTable) (float64, error) {
	compiled, err := Compile(expr)
	if err != nil {
		return 0, err
	}
	return compiled.Eval(table)
}

func (c *Compiled) evalNode(node Node, table SymbolTable) (float64, error) {
	switch n := node.(type) {
	case Literal:
		return n.Value, nil
	case SymbolRef:
		return table[n.Tag], nil
	case BinaryOp:
		return c.evalBinary(n, table)
	case FunctionCall:
		return c.evalCall(n, table)
	}
	return 0, badCallError(c.Expression, "unknown node type %T", node)
}

func (c *Compiled) evalBinary(op BinaryOp, table SymbolTable) (float64, error) {
	left, err := c.evalNode(op.Left, table)
	if err != nil {
		return 0, err
	}
	right, err := c.evalNode(op.Right, table)
	if err != nil {
		return 0, err
	}
	switch op.Op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, &EvalError{
				Code:       CodeDivisionByZero,
				Expression: c.Expression,
				Message:    "division by zero",
			}
		}
		return left / right, nil
	case "=":
		return boolValue(left == right), nil
	case "<>":
		return boolValue(left != right), nil
	case "<":
		return boolValue(left < right), nil
	case "<=":
		return boolValue(left <= right), nil
	case ">":
		return boolValue(left > right), nil
	case ">=":
		return boolValue(left >= right), nil
	}
	return 0, badCallError(c.Expression, "unknown operator %q", op.Op)
}

func (c *Compiled) evalCall(call FunctionCall, table SymbolTable) (float64, error) {
	// IF evaluates lazily: only the taken branch runs, so an error in the
	// untaken branch does not poison the result.
	if call.Name == "IF" {
		cond, err := c.evalNode(call.Args[0], table)
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return c.evalNode(call.Args[1], table)
		}
		if len(call.Args) == 3 {
			return c.evalNode(call.Args[2], table)
		}
		return 0, nil
	}

	values := make([]float64, 0, len(call.Args))
	for _, arg := range call.Args {
		v, err := c.evalNode(arg, table)
		if err != nil {
			return 0, err
		}
		values = append(values, v)
	}

	switch call.Name {
	case "SUM":
		total := 0.0
		for _, v := range values {
			total += v
		}
		return total, nil
	case "AVERAGE":
		total := 0.0
		for _, v := range values {
			total += v
		}
		return total / float64(len(values)), nil
	case "MIN":
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, nil
	case "MAX":
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, nil
	}
	return 0, badCallError(c.Expression, "unknown function %s", call.Name)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
