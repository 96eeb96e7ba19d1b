package fraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pcfscope/server/mathexpr"
	"github.com/pcfscope/server/normalize"
)

var ErrRelationSyntax = errors.New("malformed relation")

// SeeAlso is a related continued fraction reported by the relation finder
// together with the closed form it is equal to.
type SeeAlso struct {
	Raw        string           `json:"raw"`
	A          string           `json:"a"`
	B          string           `json:"b"`
	Fraction   Result           `json:"fraction"`
	Expression normalize.Result `json:"expression"`
	OK         bool             `json:"ok"`
}

// Display renders "fraction = expression", or the raw relation when either
// side could not be rendered.
func (s SeeAlso) Display() string {
	if !s.OK || s.Fraction.TeX == "" || !s.Expression.OK {
		return s.Raw
	}
	return strings.TrimSuffix(s.Fraction.TeX, "$$") + "=" + strings.TrimPrefix(s.Expression.TeX, "$$")
}

// SplitRelation splits "PCF[a, b] = expression" into its three parts.
// Commas nested in brackets or parentheses stay with their operand.
func SplitRelation(relation string) (a, b, rhs string, err error) {
	s := strings.TrimSpace(relation)
	open := strings.Index(s, "[")
	if open < 0 || !strings.EqualFold(strings.TrimSpace(s[:open]), "PCF") {
		return "", "", "", fmt.Errorf("%w: missing PCF[...] in %q", ErrRelationSyntax, relation)
	}

	depth, comma, end := 0, -1, -1
scan:
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ')':
			depth--
		case ']':
			depth--
			if depth == 0 {
				end = i
				break scan
			}
		case ',':
			if depth == 1 && comma < 0 {
				comma = i
			}
		}
	}
	if end < 0 || comma < 0 {
		return "", "", "", fmt.Errorf("%w: unbalanced or missing comma in %q", ErrRelationSyntax, relation)
	}

	rest := strings.TrimSpace(s[end+1:])
	if !strings.HasPrefix(rest, "=") {
		return "", "", "", fmt.Errorf("%w: missing '=' in %q", ErrRelationSyntax, relation)
	}
	a = strings.TrimSpace(s[open+1 : comma])
	b = strings.TrimSpace(s[comma+1 : end])
	rhs = strings.TrimSpace(rest[1:])
	if a == "" || b == "" || rhs == "" {
		return "", "", "", fmt.Errorf("%w: empty operand in %q", ErrRelationSyntax, relation)
	}
	return a, b, rhs, nil
}

// FormatSeeAlso renders one "see also" relation. It never fails; parts that
// cannot be rendered fall back to their raw text.
func FormatSeeAlso(relation string, n *normalize.Normalizer, opts normalize.Options) SeeAlso {
	out := SeeAlso{Raw: relation}
	a, b, rhs, err := SplitRelation(relation)
	if err != nil {
		return out
	}
	out.A, out.B = a, b
	out.Expression = n.Normalize(rhs, normalize.SourceRelationFinder, opts)

	symbol, err := relationSymbol(a, b)
	if err != nil {
		return out
	}
	frac, err := Format(a, b, symbol)
	if err != nil {
		return out
	}
	out.Fraction = frac
	out.OK = true
	return out
}

func relationSymbol(a, b string) (string, error) {
	var names []string
	seen := make(map[string]bool)
	for _, src := range []string{a, b} {
		expr, err := mathexpr.Parse(strings.ReplaceAll(src, "**", "^"))
		if err != nil {
			return "", err
		}
		for _, name := range mathexpr.FreeSymbols(expr) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	switch len(names) {
	case 0:
		return "", nil
	case 1:
		return names[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrRelationSyntax, strings.Join(names, ", "))
}
