package mathexpr

import "fmt"

// functions maps recognised call names to their arity; -1 means variadic.
// An identifier followed by "(" that is not listed here is read as an
// implicit product, so n(n+1) means n*(n+1).
var functions = map[string]int{
	"sqrt": 1, "cbrt": 1, "nthRoot": 2,
	"ln": 1, "log": -1, "log10": 1, "exp": 1,
	"sin": 1, "cos": 1, "tan": 1, "asin": 1, "acos": 1, "atan": 1,
	"sinh": 1, "cosh": 1, "tanh": 1,
	"abs": 1, "floor": 1, "ceil": 1,
	"gamma": 1, "Γ": 1, "zeta": 1, "ζ": 1, "∆": 1,
}

// IsFunction reports whether name is parsed as a function call.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

type parser struct {
	toks []token
	pos  int
}

// Parse parses src into an expression tree.
func Parse(src string) (Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	n, err := p.parseEquation()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

func (p *parser) expect(op string) error {
	t := p.next()
	if t.kind != tokOp || t.text != op {
		return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected %q", op)}
	}
	return nil
}

func (p *parser) parseEquation() (Node, error) {
	l, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if !p.isOp("=") {
		return l, nil
	}
	p.next()
	r, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Equation{L: l, R: r}, nil
}

func (p *parser) parseAdditive() (Node, error) {
	l, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		r, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: op, L: l, R: r}
	}
	return l, nil
}

func (p *parser) parseMultiplicative() (Node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("*") || p.isOp("/"):
			op := p.next().text
			r, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			l = &Binary{Op: op, L: l, R: r}
		case p.startsPrimary():
			r, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			l = &Binary{Op: "*", L: l, R: r, Implicit: true}
		default:
			return l, nil
		}
	}
}

func (p *parser) startsPrimary() bool {
	t := p.peek()
	return t.kind == tokNumber || t.kind == tokIdent || (t.kind == tokOp && t.text == "(")
}

func (p *parser) parseUnary() (Node, error) {
	if p.isOp("-") || p.isOp("+") {
		op := p.next().text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	// right associative; the exponent may carry its own sign
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: "^", L: base, R: exp}, nil
}

func (p *parser) parsePostfix() (Node, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.isOp("!") {
		p.next()
		x = &Factorial{X: x}
	}
	return x, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &Number{Text: t.text}, nil

	case tokIdent:
		if t.hasSub {
			return &Subscript{Name: t.text, Index: t.sub}, nil
		}
		if arity, ok := functions[t.text]; ok && p.isOp("(") {
			return p.parseCall(t, arity)
		}
		return &Symbol{Name: t.text}, nil

	case tokOp:
		if t.text == "(" {
			x, err := p.parseEquation()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return &Paren{X: x}, nil
		}
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected end of expression"}
}

func (p *parser) parseCall(name token, arity int) (Node, error) {
	p.next() // (
	var args []Node
	if !p.isOp(")") {
		for {
			a, err := p.parseEquation()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.isOp(",") {
				break
			}
			p.next()
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if arity >= 0 && len(args) != arity {
		return nil, &SyntaxError{Pos: name.pos, Msg: fmt.Sprintf("%s expects %d argument(s), got %d", name.text, arity, len(args))}
	}
	if arity < 0 && len(args) == 0 {
		return nil, &SyntaxError{Pos: name.pos, Msg: name.text + " expects arguments"}
	}
	return &Call{Name: name.text, Args: args}, nil
}
