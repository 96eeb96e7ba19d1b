package mathexpr

import "strings"

// Node is a parsed expression.
type Node interface {
	// String renders the node back to plain infix text.
	String() string
	// TeX renders the node as TeX math (without delimiters).
	TeX() string
	// Eval evaluates the node with the given variable binding.
	Eval(env Env) (float64, error)
}

// Number is a numeric literal kept in its source spelling.
type Number struct {
	Text string
}

// Symbol is a variable or named constant.
type Symbol struct {
	Name string
}

// Subscript is an identifier with a bracket subscript, such as α[GW].
type Subscript struct {
	Name  string
	Index string
}

// Call is an application of a known function.
type Call struct {
	Name string
	Args []Node
}

// Unary is a prefix sign.
type Unary struct {
	Op string
	X  Node
}

// Binary is an infix operation. Implicit marks juxtaposed factors (2n).
type Binary struct {
	Op       string
	L, R     Node
	Implicit bool
}

// Paren preserves source parentheses.
type Paren struct {
	X Node
}

// Factorial is a postfix !.
type Factorial struct {
	X Node
}

// Equation is a top-level relation L = R.
type Equation struct {
	L, R Node
}

func (n *Number) String() string    { return n.Text }
func (n *Symbol) String() string    { return n.Name }
func (n *Subscript) String() string { return n.Name + "[" + n.Index + "]" }
func (n *Paren) String() string     { return "(" + n.X.String() + ")" }
func (n *Factorial) String() string { return n.X.String() + "!" }
func (n *Equation) String() string  { return n.L.String() + " = " + n.R.String() }
func (n *Unary) String() string     { return n.Op + n.X.String() }

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

func (n *Binary) String() string {
	switch {
	case n.Implicit:
		return n.L.String() + " " + n.R.String()
	case n.Op == "+" || n.Op == "-":
		return n.L.String() + " " + n.Op + " " + n.R.String()
	default:
		return n.L.String() + n.Op + n.R.String()
	}
}

// Walk calls fn for n and every node below it, depth first.
func Walk(n Node, fn func(Node)) {
	fn(n)
	switch v := n.(type) {
	case *Call:
		for _, a := range v.Args {
			Walk(a, fn)
		}
	case *Unary:
		Walk(v.X, fn)
	case *Binary:
		Walk(v.L, fn)
		Walk(v.R, fn)
	case *Paren:
		Walk(v.X, fn)
	case *Factorial:
		Walk(v.X, fn)
	case *Equation:
		Walk(v.L, fn)
		Walk(v.R, fn)
	}
}

// FreeSymbols returns the distinct symbol names in n that are not built-in
// constants, in order of first appearance.
func FreeSymbols(n Node) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(n, func(node Node) {
		s, ok := node.(*Symbol)
		if !ok || seen[s.Name] || isBuiltinConstant(s.Name) {
			return
		}
		seen[s.Name] = true
		out = append(out, s.Name)
	})
	return out
}

func unparen(n Node) Node {
	for {
		p, ok := n.(*Paren)
		if !ok {
			return n
		}
		n = p.X
	}
}
