// Package catalog holds the table of named mathematical constants that the
// relation finder reports by short key (for example alpha_GW), together with
// their display names, typesetting substitutions and reference links.
package catalog

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Definition describes one named constant.
type Definition struct {
	Key          string `json:"key"`
	Name         string `json:"name,omitempty"`
	Substitution string `json:"substitution,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Replacement returns the text that stands in for the key in a cleaned
// expression. Keys without a substitution are kept verbatim.
func (d Definition) Replacement() string {
	if d.Substitution == "" {
		return d.Key
	}
	return d.Substitution
}

// HasMetadata reports whether the constant carries a display name worth
// listing next to a result.
func (d Definition) HasMetadata() bool {
	return d.Name != ""
}

// Catalog is an immutable set of definitions. Resolution order is fixed at
// construction: longer keys first, so alpha_GW is always tried before alpha.
type Catalog struct {
	declared []Definition
	ordered  []Definition
	byKey    map[string]Definition
}

// New builds a catalog. Later duplicates of a key are ignored.
func New(defs []Definition) *Catalog {
	c := &Catalog{byKey: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if d.Key == "" {
			continue
		}
		if _, dup := c.byKey[d.Key]; dup {
			continue
		}
		c.byKey[d.Key] = d
		c.declared = append(c.declared, d)
	}

	c.ordered = make([]Definition, len(c.declared))
	copy(c.ordered, c.declared)
	sort.SliceStable(c.ordered, func(i, j int) bool {
		li, lj := len(c.ordered[i].Key), len(c.ordered[j].Key)
		if li != lj {
			return li > lj
		}
		return c.ordered[i].Key < c.ordered[j].Key
	})
	return c
}

var defaultCatalog = New(builtin)

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Lookup returns the definition for an exact key.
func (c *Catalog) Lookup(key string) (Definition, bool) {
	d, ok := c.byKey[key]
	return d, ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.declared)
}

// Definitions returns the definitions in declaration order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.declared))
	copy(out, c.declared)
	return out
}

// ResolutionOrder returns the definitions in the order keys are tried.
func (c *Catalog) ResolutionOrder() []Definition {
	out := make([]Definition, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// FindByName returns the first definition whose display name equals name,
// ignoring case.
func (c *Catalog) FindByName(name string) (Definition, bool) {
	for _, d := range c.declared {
		if d.Name != "" && strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Definition{}, false
}

// Substitute replaces every whole-token occurrence of a catalog key in s with
// the key's replacement and calls onMatch once per occurrence. The input is
// scanned once, left to right, so replacement text is never matched again.
func (c *Catalog) Substitute(s string, onMatch func(Definition)) string {
	var b strings.Builder
	b.Grow(len(s))

	prevIdent := false
	for i := 0; i < len(s); {
		if !prevIdent {
			if d, ok := c.matchAt(s, i); ok {
				b.WriteString(d.Replacement())
				if onMatch != nil {
					onMatch(d)
				}
				i += len(d.Key)
				// the key itself ends on an identifier character
				prevIdent = true
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		prevIdent = IsIdentRune(r)
		i += size
	}
	return b.String()
}

func (c *Catalog) matchAt(s string, i int) (Definition, bool) {
	rest := s[i:]
	for _, d := range c.ordered {
		if !strings.HasPrefix(rest, d.Key) {
			continue
		}
		end := i + len(d.Key)
		if end < len(s) {
			next, _ := utf8.DecodeRuneInString(s[end:])
			if IsIdentRune(next) {
				continue
			}
		}
		return d, true
	}
	return Definition{}, false
}

// IsIdentRune reports whether r can be part of an identifier token.
// Brackets are not, so a key followed by a subscript such as C[1] still
// ends on a token boundary.
func IsIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
