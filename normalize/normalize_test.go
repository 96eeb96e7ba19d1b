package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/metadata"
)

func TestNormalize_RelationFinderOutput(t *testing.T) {
	n := New(nil)
	md := metadata.New(catalog.Default())

	res := n.Normalize("alpha_GW**2 = 0 (15)", SourceRelationFinder, Options{Metadata: md})

	assert.Equal(t, "α[GW]^2", res.Cleaned)
	assert.True(t, res.OK)
	assert.Equal(t, `$${\alpha_{\mathrm{GW}}}^{2}$$`, res.TeX)
	require.Equal(t, 1, md.Len())
	assert.Equal(t, metadata.Entry{Label: "Goemans Williamson Constant"}, md.Entries()[0])
}

func TestClean(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name string
		raw  string
		src  Source
		want string
	}{
		{"general key does not touch specific key", "alpha_GW**2", SourceRelationFinder, "α[GW]^2"},
		{"general then specific", "alpha**2 + alpha_GW", SourceRelationFinder, "α^2 + α[GW]"},
		{"trivial equation", "alpha**2 = 0", SourceRelationFinder, "α^2"},
		{"negative precision", "4/(pi - 2) (-12)", SourceRelationFinder, "4/(pi - 2)"},
		{"precision against zero", "pi**2 = 0(15)", SourceRelationFinder, "pi^2"},
		{"non-trivial equation kept", "x = 2", SourceRelationFinder, "x = 2"},
		{"approximation marker", "sqrt(2) ≈ 1.41421", SourceExternal, "sqrt(2)"},
		{"approx word", "pi/4 approx 0.785", SourceExternal, "pi/4"},
		{"root of parenthesised", "root of (5) + 1", SourceExternal, "sqrt(5) + 1"},
		{"root of nested parens", "1/root of ((x+1)*2) - 3", SourceExternal, "1/sqrt((x+1)*2) - 3"},
		{"root of bare", "root of 2 + x", SourceExternal, "sqrt(2 + x)"},
		{"underscore subscript", "x_1 + x_2", SourceExternal, "x[1] + x[2]"},
		{"trailing possessive", "Apery's", SourceExternal, "Aperys"},
		{"inner possessives kept", "Catalan's constant + Apery's constant", SourceExternal, "Catalan's constant + Apery's constant"},
		{"external rewrites skipped for relation finder", "root of 2", SourceRelationFinder, "root of 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Clean(tt.raw, tt.src, nil))
		})
	}
}

func TestNormalize_TeX(t *testing.T) {
	n := New(nil)

	tests := []struct {
		raw  string
		want string
	}{
		{"4/(pi - 2) (-12)", `$$\frac{4}{\pi-2}$$`},
		{"Zeta3**-1 = 0 (20)", `$$\zeta\left(3\right)^{-1}$$`},
		{"sqrt2 + 1", `$$\sqrt{2}+1$$`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := n.Normalize(tt.raw, SourceRelationFinder, Options{})
			require.True(t, res.OK)
			assert.Equal(t, tt.want, res.TeX)
			assert.Equal(t, tt.want, res.Display())
		})
	}
}

func TestNormalize_Prefix(t *testing.T) {
	n := New(nil)

	res := n.Normalize("n**2 + 1", SourceRelationFinder, Options{Prefix: "a[n] = "})

	require.True(t, res.OK)
	assert.Equal(t, "$$a_{n}=n^{2}+1$$", res.TeX)
	assert.Equal(t, "n^2 + 1", res.Cleaned)
}

func TestNormalize_FallsBackToRaw(t *testing.T) {
	n := New(nil)

	res := n.Normalize("the limit of x as x → 0", SourceExternal, Options{})

	assert.False(t, res.OK)
	assert.Empty(t, res.TeX)
	assert.Equal(t, "the limit of x as x → 0", res.Display())
}

func TestNormalize_RegistersEverySubstitution(t *testing.T) {
	n := New(nil)
	md := metadata.New(catalog.Default())

	n.Normalize("C + C_HBM*phi + sqrt2", SourceRelationFinder, Options{Metadata: md})

	labels := make([]string, 0, md.Len())
	for _, e := range md.Entries() {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"Catalan Constant", "Heath-Brown–Moroz Constant", "Golden Ratio"}, labels)
}

func TestSource_Valid(t *testing.T) {
	assert.True(t, SourceRelationFinder.Valid())
	assert.True(t, SourceExternal.Valid())
	assert.False(t, Source("other").Valid())
}
