// Package fraction renders the opening terms of a polynomial continued
// fraction a(0) ± b(1)/(a(1) ± b(2)/(a(2) ± b(3)/(a(3) + …))).
package fraction

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pcfscope/server/mathexpr"
)

// Ellipsis closes the rendered fraction.
const Ellipsis = "…"

// placeholder stands in for the ellipsis while parsing, since the parser
// has no token for it. It cannot collide with a user variable because the
// composed expression only contains numbers.
const placeholder = "ellipsis"

// Terms is the number of partial denominators shown.
const Terms = 3

var ErrNonFinite = errors.New("term is not finite")

// Result is a rendered continued fraction.
type Result struct {
	// Plain is the composed infix text, ending in the ellipsis glyph.
	Plain string `json:"plain"`
	// TeX is the display-math rendering. Empty when rendering failed.
	TeX string `json:"tex,omitempty"`
	// A holds a(0)..a(Terms) and B holds b(1)..b(Terms).
	A []float64 `json:"a"`
	B []float64 `json:"b"`
}

// Display returns the TeX rendering, falling back to the plain text.
func (r Result) Display() string {
	if r.TeX != "" {
		return r.TeX
	}
	return r.Plain
}

// Format evaluates a and b at the first few indices of symbol and composes
// the nested fraction. An empty symbol means both expressions are
// constant. It fails only when a term cannot be evaluated.
func Format(a, b, symbol string) (Result, error) {
	a = strings.ReplaceAll(a, "**", "^")
	b = strings.ReplaceAll(b, "**", "^")

	var res Result
	for k := 0; k <= Terms; k++ {
		v, err := evalAt(a, symbol, k)
		if err != nil {
			return Result{}, fmt.Errorf("a(%d): %w", k, err)
		}
		res.A = append(res.A, v)
	}
	for k := 1; k <= Terms; k++ {
		v, err := evalAt(b, symbol, k)
		if err != nil {
			return Result{}, fmt.Errorf("b(%d): %w", k, err)
		}
		res.B = append(res.B, v)
	}

	composed := compose(res.A, res.B)
	res.Plain = strings.ReplaceAll(composed, placeholder, Ellipsis)

	expr, err := mathexpr.Parse(composed)
	if err != nil {
		// keep the plain form
		return res, nil
	}
	tex := strings.ReplaceAll(expr.TeX(), `\mathrm{`+placeholder+`}`, Ellipsis)
	res.TeX = "$$" + tex + "$$"
	return res, nil
}

func evalAt(src, symbol string, k int) (float64, error) {
	env := mathexpr.Env{}
	if symbol != "" {
		env[symbol] = float64(k)
	}
	v, err := mathexpr.Evaluate(src, env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

// compose builds the nested text from the inside out. The operator before
// each b term is + only when that term is positive; its magnitude is shown.
func compose(a, b []float64) string {
	inner := number(a[len(a)-1]) + " + " + placeholder
	for k := len(b) - 1; k >= 0; k-- {
		op := "-"
		if b[k] > 0 {
			op = "+"
		}
		inner = fmt.Sprintf("%s %s %s/(%s)", number(a[k]), op, number(math.Abs(b[k])), inner)
	}
	return inner
}

func number(v float64) string {
	return decimal.NewFromFloat(v).String()
}
