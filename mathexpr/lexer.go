// Package mathexpr parses infix math expressions as they appear in user input
// and in relation-finder output, evaluates them at a variable binding, and
// renders them as TeX.
//
// The accepted language covers numbers, identifiers (including Greek letters),
// bracket subscripts (α[GW]), calls to known functions, the operators
// + - * / ^ and postfix !, implicit multiplication, parentheses and a single
// top-level = relation.
package mathexpr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind   tokenKind
	text   string // number text, identifier name or operator
	sub    string // bracket subscript of an identifier, if any
	hasSub bool
	pos    int
}

// SyntaxError reports why and where an expression failed to parse.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || r == '∞' || r == '∆'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// operator aliases found in typeset output
var opAliases = map[rune]string{
	'−': "-",
	'×': "*",
	'·': "*",
	'÷': "/",
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size

		case unicode.IsDigit(r) || (r == '.' && i+1 < len(src) && isDigitByte(src[i+1])):
			end := scanNumber(src, i)
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end

		case isIdentStart(r):
			start := i
			i += size
			for i < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r2) {
					break
				}
				i += s2
			}
			tok := token{kind: tokIdent, text: src[start:i], pos: start}
			if i < len(src) && src[i] == '[' {
				closeIdx := strings.IndexByte(src[i:], ']')
				if closeIdx < 0 {
					return nil, &SyntaxError{Pos: i, Msg: "unterminated subscript"}
				}
				sub := strings.TrimSpace(src[i+1 : i+closeIdx])
				if sub == "" {
					return nil, &SyntaxError{Pos: i, Msg: "empty subscript"}
				}
				tok.sub = sub
				tok.hasSub = true
				i += closeIdx + 1
			}
			toks = append(toks, tok)

		case strings.ContainsRune("+-*/^(),=!", r):
			op := string(r)
			if r == '*' && i+1 < len(src) && src[i+1] == '*' {
				op = "^"
				size = 2
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += size

		default:
			if alias, ok := opAliases[r]; ok {
				toks = append(toks, token{kind: tokOp, text: alias, pos: i})
				i += size
				continue
			}
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanNumber returns the end offset of the number starting at i. Scientific
// notation is only taken when the exponent marker is followed by digits, so
// 2e stays an implicit product with e.
func scanNumber(src string, i int) int {
	j := i
	for j < len(src) && isDigitByte(src[j]) {
		j++
	}
	if j < len(src) && src[j] == '.' {
		j++
		for j < len(src) && isDigitByte(src[j]) {
			j++
		}
	}
	if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
		k := j + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		if k < len(src) && isDigitByte(src[k]) {
			for k < len(src) && isDigitByte(src[k]) {
				k++
			}
			j = k
		}
	}
	return j
}
