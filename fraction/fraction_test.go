package fraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
)

func TestFormat_NegativeDenominatorFlipsSign(t *testing.T) {
	res, err := Format("n+5", "-n", "n")
	require.NoError(t, err)

	assert.Equal(t, "5 - 1/(6 - 2/(7 - 3/(8 + …)))", res.Plain)
	assert.Equal(t, `$$5-\frac{1}{6-\frac{2}{7-\frac{3}{8+…}}}$$`, res.TeX)
	assert.Equal(t, []float64{5, 6, 7, 8}, res.A)
	assert.Equal(t, []float64{-1, -2, -3}, res.B)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		symbol string
		plain  string
	}{
		{"constant", "4", "1", "", "4 + 1/(4 + 1/(4 + 1/(4 + …)))"},
		{"power notation", "3*n**2 + 1", "n**3", "n", "1 + 1/(4 + 8/(13 + 27/(28 + …)))"},
		{"zero denominator shows minus", "1", "n - 1", "n", "1 - 0/(1 + 1/(1 + 2/(1 + …)))"},
		{"negative numerator", "-2*k", "k", "k", "0 + 1/(-2 + 2/(-4 + 3/(-6 + …)))"},
		{"fractional terms", "n/2", "1", "n", "0 + 1/(0.5 + 1/(1 + 1/(1.5 + …)))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Format(tt.a, tt.b, tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.plain, res.Plain)
			assert.NotEmpty(t, res.TeX)
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	_, err := Format("n+", "1", "n")
	assert.Error(t, err)

	_, err = Format("n", "m", "n")
	assert.Error(t, err)

	_, err = Format("1/(n-1)", "1", "n")
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestResult_Display(t *testing.T) {
	assert.Equal(t, "x", Result{Plain: "x"}.Display())
	assert.Equal(t, "$$x$$", Result{Plain: "x", TeX: "$$x$$"}.Display())
}

func TestSplitRelation(t *testing.T) {
	a, b, rhs, err := SplitRelation("PCF[n**2 + 1, nthRoot(n, 3)] = 4/(pi - 2) (12)")
	require.NoError(t, err)
	assert.Equal(t, "n**2 + 1", a)
	assert.Equal(t, "nthRoot(n, 3)", b)
	assert.Equal(t, "4/(pi - 2) (12)", rhs)

	for _, bad := range []string{
		"",
		"n + 1 = 2",
		"PCF[n] = 2",
		"PCF[n, 1 = 2",
		"PCF[n, 1] 2",
		"PCF[n, 1] = ",
		"XYZ[n, 1] = 2",
	} {
		_, _, _, err := SplitRelation(bad)
		assert.ErrorIs(t, err, ErrRelationSyntax, bad)
	}
}

func TestFormatSeeAlso(t *testing.T) {
	md := metadata.New(catalog.Default())
	n := normalize.New(nil)

	out := FormatSeeAlso("PCF[2*n + 1, n**2] = 4/pi (20)", n, normalize.Options{Metadata: md})

	require.True(t, out.OK)
	assert.Equal(t, "2*n + 1", out.A)
	assert.Equal(t, "n**2", out.B)
	assert.Equal(t, "1 + 1/(3 + 4/(5 + 9/(7 + …)))", out.Fraction.Plain)
	assert.Equal(t, `$$\frac{4}{\pi}$$`, out.Expression.TeX)
	assert.Equal(t, `$$1+\frac{1}{3+\frac{4}{5+\frac{9}{7+…}}}=\frac{4}{\pi}$$`, out.Display())
}

func TestFormatSeeAlso_FallsBackToRaw(t *testing.T) {
	n := normalize.New(nil)

	out := FormatSeeAlso("not a relation", n, normalize.Options{})
	assert.False(t, out.OK)
	assert.Equal(t, "not a relation", out.Display())

	out = FormatSeeAlso("PCF[n, m] = 1", n, normalize.Options{})
	assert.False(t, out.OK)
	assert.True(t, out.Expression.OK)
	assert.Equal(t, "PCF[n, m] = 1", out.Display())
}
