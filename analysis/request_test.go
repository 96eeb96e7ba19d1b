package analysis

import (
	"errors"
	"strings"
	"testing"
)

var testLimits = Limits{MaxExpressionLength: 100, MaxDepth: 10000}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(" n**2 + 1 ", "3*n - 1", 20000, testLimits)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if req.A != "n**2 + 1" {
		t.Errorf("expected trimmed a, got %q", req.A)
	}
	if req.Symbol != "n" {
		t.Errorf("expected symbol n, got %q", req.Symbol)
	}
	if req.Depth != 10000 {
		t.Errorf("expected depth clamped to 10000, got %d", req.Depth)
	}
}

func TestNewRequest_Errors(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		depth int
		want  error
		rule  string
	}{
		{"empty a", "", "1", 10, ErrEmptyExpression, "empty"},
		{"blank b", "1", "   ", 10, ErrEmptyExpression, "empty"},
		{"too long", strings.Repeat("1+", 60) + "1", "1", 10, ErrExpressionTooLong, "too_long"},
		{"unparseable", "n +* 2", "1", 10, ErrInvalidExpression, "unparseable"},
		{"two variables", "n + 1", "k", 10, ErrMultipleVariables, "multiple_variables"},
		{"zero depth", "1", "1", 0, ErrInvalidDepth, "depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.a, tt.b, tt.depth, testLimits)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if got := InputRule(err); got != tt.rule {
				t.Errorf("InputRule = %q, want %q", got, tt.rule)
			}
		})
	}
}

func TestInputRule_Unrelated(t *testing.T) {
	if got := InputRule(errors.New("boom")); got != "" {
		t.Errorf("expected no rule, got %q", got)
	}
	if got := InputRule(nil); got != "" {
		t.Errorf("expected no rule for nil, got %q", got)
	}
}

func TestInferSymbol(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{"4", "1", ""},
		{"n + 5", "-n", "n"},
		{"2*k + 1", "k**2", "k"},
		{"pi*x", "e", "x"},
		{"sqrt(2)", "x", "x"},
	}
	for _, tt := range tests {
		got, err := InferSymbol(tt.a, tt.b)
		if err != nil {
			t.Errorf("InferSymbol(%q, %q) error: %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("InferSymbol(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(Request{A: "4", B: "1", Depth: 5})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got := string(data); got != `{"a":"4","b":"1","symbol":"","i":5}` {
		t.Errorf("unexpected encoding %s", got)
	}
}
