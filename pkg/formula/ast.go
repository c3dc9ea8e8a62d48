package formula

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Node is one vertex of the lowered expression tree. The concrete variants
// are Literal, SymbolRef, BinaryOp, and FunctionCall.
type Node interface {
	isNode()
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
}

// SymbolRef references a question's sub-tag. An unresolved reference
// evaluates to zero everywhere; this is the fixed missing-token contract.
type SymbolRef struct {
	Tag string
}

// BinaryOp applies an arithmetic or comparison operator. Comparison results
// are 1 for true and 0 for false, spreadsheet style.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

// FunctionCall applies one of the whitelisted aggregate functions.
type FunctionCall struct {
	Name string
	Args []Node
}

func (Literal) isNode()      {}
func (SymbolRef) isNode()    {}
func (BinaryOp) isNode()     {}
func (FunctionCall) isNode() {}

// Argument count bounds for the whitelisted functions; -1 means unbounded.
var functionArity = map[string][2]int{
	"SUM":     {1, -1},
	"AVERAGE": {1, -1},
	"MIN":     {1, -1},
	"MAX":     {1, -1},
	"IF":      {2, 3},
}

// lower converts the parse tree into the evaluation tree, validating
// function names and arities along the way. expr is carried for error
// reporting only.
func lowerExpression(e *expression, expr string) (Node, error) {
	left, err := lowerSum(e.Left, expr)
	if err != nil {
		return nil, err
	}
	if e.Op == "" {
		return left, nil
	}
	right, err := lowerSum(e.Right, expr)
	if err != nil {
		return nil, err
	}
	return BinaryOp{Op: e.Op, Left: left, Right: right}, nil
}

func lowerSum(s *sum, expr string) (Node, error) {
	node, err := lowerProduct(s.Left, expr)
	if err != nil {
		return nil, err
	}
	for _, op := range s.Rest {
		right, err := lowerProduct(op.Term, expr)
		if err != nil {
			return nil, err
		}
		node = BinaryOp{Op: op.Op, Left: node, Right: right}
	}
	return node, nil
}

func lowerProduct(p *product, expr string) (Node, error) {
	node, err := lowerUnary(p.Left, expr)
	if err != nil {
		return nil, err
	}
	for _, op := range p.Rest {
		right, err := lowerUnary(op.Term, expr)
		if err != nil {
			return nil, err
		}
		node = BinaryOp{Op: op.Op, Left: node, Right: right}
	}
	return node, nil
}

func lowerUnary(u *unary, expr string) (Node, error) {
	node, err := lowerAtom(u.Atom, expr)
	if err != nil {
		return nil, err
	}
	if u.Neg {
		return BinaryOp{Op: "-", Left: Literal{Value: 0}, Right: node}, nil
	}
	return node, nil
}

func lowerAtom(a *atom, expr string) (Node, error) {
	switch {
	case a.Number != nil:
		return Literal{Value: *a.Number}, nil
	case a.Call != nil:
		return lowerCall(a.Call, expr)
	case a.Symbol != nil:
		return SymbolRef{Tag: *a.Symbol}, nil
	case a.Group != nil:
		return lowerExpression(a.Group, expr)
	}
	return nil, badCallError(expr, "empty expression atom")
}

func lowerCall(c *call, expr string) (Node, error) {
	bounds, ok := functionArity[c.Name]
	if !ok {
		return nil, badCallError(expr, "unknown function %s", c.Name)
	}
	if len(c.Args) < bounds[0] || (bounds[1] >= 0 && len(c.Args) > bounds[1]) {
		return nil, badCallError(expr, "%s called with %d arguments", c.Name, len(c.Args))
	}
	args := make([]Node, 0, len(c.Args))
	for _, arg := range c.Args {
		node, err := lowerExpression(arg, expr)
		if err != nil {
			return nil, err
		}
		args = append(args, node)
	}
	return FunctionCall{Name: c.Name, Args: args}, nil
}

// collectVars walks the tree adding every referenced sub-tag to vars.
func collectVars(node Node, vars mapset.Set[string]) {
	switch n := node.(type) {
	case SymbolRef:
		vars.Add(n.Tag)
	case BinaryOp:
		collectVars(n.Left, vars)
		collectVars(n.Right, vars)
	case FunctionCall:
		for _, arg := range n.Args {
			collectVars(arg, vars)
		}
	}
}
