package mathexpr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Env binds symbol names to values.
type Env map[string]float64

var (
	// ErrUnbound is returned when a symbol has no value.
	ErrUnbound = errors.New("unbound symbol")
	// ErrUnsupported is returned for nodes that have no numeric evaluation.
	ErrUnsupported = errors.New("unsupported in evaluation")
)

var builtinConstants = map[string]float64{
	"pi":       math.Pi,
	"π":        math.Pi,
	"e":        math.E,
	"Infinity": math.Inf(1),
	"∞":        math.Inf(1),
}

func isBuiltinConstant(name string) bool {
	_, ok := builtinConstants[name]
	return ok
}

// Evaluate parses src and evaluates it with env.
func Evaluate(src string, env Env) (float64, error) {
	n, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return n.Eval(env)
}

func (n *Number) Eval(Env) (float64, error) {
	v, err := strconv.ParseFloat(n.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", n.Text, err)
	}
	return v, nil
}

func (n *Symbol) Eval(env Env) (float64, error) {
	if v, ok := env[n.Name]; ok {
		return v, nil
	}
	if v, ok := builtinConstants[n.Name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnbound, n.Name)
}

func (n *Subscript) Eval(env Env) (float64, error) {
	if v, ok := env[n.String()]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnbound, n.String())
}

func (n *Paren) Eval(env Env) (float64, error) {
	return n.X.Eval(env)
}

func (n *Equation) Eval(env Env) (float64, error) {
	// residual of the relation
	l, err := n.L.Eval(env)
	if err != nil {
		return 0, err
	}
	r, err := n.R.Eval(env)
	if err != nil {
		return 0, err
	}
	return l - r, nil
}

func (n *Unary) Eval(env Env) (float64, error) {
	x, err := n.X.Eval(env)
	if err != nil {
		return 0, err
	}
	if n.Op == "-" {
		return -x, nil
	}
	return x, nil
}

func (n *Factorial) Eval(env Env) (float64, error) {
	x, err := n.X.Eval(env)
	if err != nil {
		return 0, err
	}
	return math.Gamma(x + 1), nil
}

func (n *Binary) Eval(env Env) (float64, error) {
	l, err := n.L.Eval(env)
	if err != nil {
		return 0, err
	}
	r, err := n.R.Eval(env)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		return l / r, nil
	case "^":
		return math.Pow(l, r), nil
	}
	return 0, fmt.Errorf("%w: operator %s", ErrUnsupported, n.Op)
}

var unaryFuncs = map[string]func(float64) float64{
	"sqrt": math.Sqrt, "cbrt": math.Cbrt,
	"ln": math.Log, "log10": math.Log10, "exp": math.Exp,
	"sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
	"asin": math.Asin, "acos": math.Acos, "atan": math.Atan,
	"sinh": math.Sinh, "cosh": math.Cosh, "tanh": math.Tanh,
	"abs": math.Abs, "floor": math.Floor, "ceil": math.Ceil,
	"gamma": math.Gamma, "Γ": math.Gamma,
}

func (n *Call) Eval(env Env) (float64, error) {
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	if fn, ok := unaryFuncs[n.Name]; ok && len(args) == 1 {
		return fn(args[0]), nil
	}
	switch n.Name {
	case "nthRoot":
		return math.Pow(args[0], 1/args[1]), nil
	case "log":
		if len(args) == 1 {
			return math.Log(args[0]), nil
		}
		return math.Log(args[0]) / math.Log(args[1]), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupported, n.Name)
}
