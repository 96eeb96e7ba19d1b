package analysis

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pcfscope/server/mathexpr"
	"github.com/pcfscope/server/settings"
)

var (
	ErrEmptyExpression   = errors.New("a value is required")
	ErrExpressionTooLong = errors.New("expression too long")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrMultipleVariables = errors.New("more than one variable")
	ErrInvalidDepth      = errors.New("depth must be at least 1")
)

// Request is what the backend receives to start one analysis. It is not
// changed after construction.
type Request struct {
	A      string `json:"a" yaml:"a"`
	B      string `json:"b" yaml:"b"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Depth  int    `json:"i" yaml:"depth"`
}

// Limits bounds user input.
type Limits struct {
	MaxExpressionLength int
	MaxDepth            int
}

func LimitsFrom(s settings.Settings) Limits {
	return Limits{MaxExpressionLength: s.MaxExpressionLength, MaxDepth: s.MaxDepth}
}

// NewRequest validates the two recurrence polynomials and infers their
// variable. Depths above the limit are clamped rather than rejected.
func NewRequest(a, b string, depth int, limits Limits) (Request, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	for _, f := range []struct{ name, src string }{{"a", a}, {"b", b}} {
		if err := ValidateExpression(f.src, limits.MaxExpressionLength); err != nil {
			return Request{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if depth < 1 {
		return Request{}, fmt.Errorf("%w, got %d", ErrInvalidDepth, depth)
	}
	if limits.MaxDepth > 0 {
		depth = min(depth, limits.MaxDepth)
	}

	symbol, err := InferSymbol(a, b)
	if err != nil {
		return Request{}, err
	}
	return Request{A: a, B: b, Symbol: symbol, Depth: depth}, nil
}

// ValidateExpression checks a single polynomial against the input limits
// and the parser.
func ValidateExpression(src string, maxLen int) error {
	if src == "" {
		return ErrEmptyExpression
	}
	if maxLen > 0 && len([]rune(src)) > maxLen {
		return fmt.Errorf("%w: %d characters, limit %d", ErrExpressionTooLong, len([]rune(src)), maxLen)
	}
	if _, err := mathexpr.Parse(strings.ReplaceAll(src, "**", "^")); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	return nil
}

// InferSymbol returns the single free variable used across both
// expressions, or "" when both are constant.
func InferSymbol(a, b string) (string, error) {
	var vars []string
	for _, src := range []string{a, b} {
		expr, err := mathexpr.Parse(strings.ReplaceAll(src, "**", "^"))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidExpression, err)
		}
		for _, name := range mathexpr.FreeSymbols(expr) {
			if !slices.Contains(vars, name) {
				vars = append(vars, name)
			}
		}
	}
	switch len(vars) {
	case 0:
		return "", nil
	case 1:
		return vars[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrMultipleVariables, strings.Join(vars, ", "))
}

// InputRule names the validation rule err violated, or "" when err did not
// come from request validation.
func InputRule(err error) string {
	switch {
	case errors.Is(err, ErrEmptyExpression):
		return "empty"
	case errors.Is(err, ErrExpressionTooLong):
		return "too_long"
	case errors.Is(err, ErrInvalidExpression):
		return "unparseable"
	case errors.Is(err, ErrMultipleVariables):
		return "multiple_variables"
	case errors.Is(err, ErrInvalidDepth):
		return "depth"
	}
	return ""
}
