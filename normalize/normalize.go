// Package normalize turns raw closed-form expressions, as reported by the
// relation finder or by the external verification service, into cleaned
// expressions and display-math TeX.
package normalize

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/mathexpr"
	"github.com/pcfscope/server/metadata"
)

// Source identifies who produced a raw expression.
type Source string

const (
	// SourceRelationFinder is the internal relation finder. Its output uses
	// ** for powers, catalog keys for constants, and a trailing precision.
	SourceRelationFinder Source = "lirec"
	// SourceExternal is the symbolic-computation service. Its output is
	// closer to prose ("root of", "≈", possessives).
	SourceExternal Source = "wolfram"
)

func (s Source) Valid() bool {
	return s == SourceRelationFinder || s == SourceExternal
}

// Options tune a single normalization.
type Options struct {
	// Prefix is prepended before parsing, e.g. "a[n] = " when showing the
	// user's own polynomials.
	Prefix string
	// Metadata receives the definitions of every substituted constant.
	Metadata *metadata.Deduper
}

// Result is the outcome of a normalization.
type Result struct {
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`
	TeX     string `json:"tex,omitempty"`
	OK      bool   `json:"ok"`
}

// Display returns the TeX rendering, or the raw input when parsing failed.
func (r Result) Display() string {
	if r.OK {
		return r.TeX
	}
	return r.Raw
}

// Normalizer is safe for concurrent use; per-analysis state lives in the
// metadata deduper passed through Options.
type Normalizer struct {
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Normalizer {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Normalizer{catalog: cat}
}

var (
	// " = 0", optionally followed by the precision annotation, which may
	// sit directly against the zero.
	trailingZeroRHS = regexp.MustCompile(`\s*=\s*0(?:\s*\(-?\d+\))?\s*$`)
	// Needs leading space so sqrt(2) keeps its argument.
	precision       = regexp.MustCompile(`\s+\(-?\d+\)\s*$`)
	approxMarker    = regexp.MustCompile(`\s*(?:≈|\bapprox(?:imately)?\b)`)
	rootOfParen     = regexp.MustCompile(`\broot of\s*\(`)
	rootOfBare      = regexp.MustCompile(`\broot of\s+(.+)$`)
	underscoreIdent = regexp.MustCompile(`_([\p{L}\p{N}]+)`)
	possessive      = regexp.MustCompile(`(\p{L})['’]s$`)
)

// Normalize runs the cleaning pipeline on raw and renders the result. It
// never fails: when the cleaned text does not parse, Result.OK is false and
// Display falls back to raw.
func (n *Normalizer) Normalize(raw string, src Source, opts Options) Result {
	res := Result{Raw: raw}
	res.Cleaned = n.Clean(raw, src, opts.Metadata)

	expr, err := mathexpr.Parse(opts.Prefix + res.Cleaned)
	if err != nil {
		slog.Debug("expression fallback", "source", src, "raw", raw, "error", err)
		return res
	}
	res.TeX = "$$" + expr.TeX() + "$$"
	res.OK = true
	return res
}

// Clean applies the textual rewrites without parsing. Substituted catalog
// constants are registered with md when it is non-nil.
func (n *Normalizer) Clean(raw string, src Source, md *metadata.Deduper) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "**", "^")
	s = trailingZeroRHS.ReplaceAllString(s, "")
	s = precision.ReplaceAllString(s, "")

	if src == SourceExternal {
		s = cleanExternal(s)
	}

	var onMatch func(catalog.Definition)
	if md != nil {
		onMatch = md.Register
	}
	s = n.catalog.Substitute(s, onMatch)
	return strings.TrimSpace(s)
}

func cleanExternal(s string) string {
	if loc := approxMarker.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = rewriteRootOf(s)
	s = underscoreIdent.ReplaceAllString(s, "[$1]")
	s = strings.TrimSpace(s)
	return possessive.ReplaceAllString(s, "${1}s")
}

// rewriteRootOf turns "root of (X) rest" into "sqrt(X) rest". Without a
// parenthesised argument the whole remainder becomes the argument.
func rewriteRootOf(s string) string {
	for {
		loc := rootOfParen.FindStringIndex(s)
		if loc == nil {
			break
		}
		open := loc[1] - 1
		end := matchingParen(s, open)
		if end < 0 {
			break
		}
		s = s[:loc[0]] + "sqrt" + s[open:end+1] + s[end+1:]
	}
	return rootOfBare.ReplaceAllString(s, "sqrt($1)")
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
