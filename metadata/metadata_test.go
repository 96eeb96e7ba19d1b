package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcfscope/server/catalog"
)

func TestRegister_FirstURLWins(t *testing.T) {
	d := New(nil)

	d.Register(catalog.Definition{Key: "x", Name: "Some Constant"})
	d.Register(catalog.Definition{Key: "x", Name: "Some Constant", URL: "https://first.example"})
	d.Register(catalog.Definition{Key: "x", Name: "Some Constant", URL: "https://second.example"})

	require.Equal(t, 1, d.Len())
	assert.Equal(t, Entry{Label: "Some Constant", URL: "https://first.example"}, d.Entries()[0])
}

func TestRegister_SkipsDefinitionsWithoutName(t *testing.T) {
	d := New(nil)
	d.Register(catalog.Definition{Key: "sqrt2", Substitution: "sqrt(2)"})
	assert.Zero(t, d.Len())
}

func TestRegister_KeepsInsertionOrder(t *testing.T) {
	d := New(nil)
	d.Register(catalog.Definition{Key: "b", Name: "Beta Thing"})
	d.Register(catalog.Definition{Key: "a", Name: "Alpha Thing"})
	d.Register(catalog.Definition{Key: "b", Name: "beta thing"})

	assert.Equal(t, []Entry{{Label: "Beta Thing"}, {Label: "Alpha Thing"}}, d.Entries())
}

func TestRegisterExternal_MergesWithCatalogLabel(t *testing.T) {
	cat := catalog.Default()
	d := New(cat)

	def, ok := cat.Lookup("C")
	require.True(t, ok)
	d.Register(def)
	d.RegisterExternal(External{Text: "C is Catalan's constant", URL: "https://mathworld.example/Catalan"})

	require.Equal(t, 1, d.Len())
	assert.Equal(t, "Catalan Constant", d.Entries()[0].Label)
	assert.Equal(t, def.URL, d.Entries()[0].URL)
}

func TestRegisterExternal_FillsMissingURL(t *testing.T) {
	cat := catalog.Default()
	d := New(cat)

	def, _ := cat.Lookup("alpha_GW")
	d.Register(def)
	d.RegisterExternal(External{Text: "Goemans Williamson constant", URL: "https://example.org/gw"})

	require.Equal(t, 1, d.Len())
	assert.Equal(t, Entry{Label: "Goemans Williamson Constant", URL: "https://example.org/gw"}, d.Entries()[0])
}

func TestRegisterExternal_UnknownConstantKeepsText(t *testing.T) {
	d := New(catalog.Default())
	d.RegisterExternal(External{Text: "Γ(x) is the gamma function", URL: "https://example.org/gamma"})
	d.RegisterExternal(External{Text: "  "})

	require.Equal(t, 1, d.Len())
	assert.Equal(t, "Γ(x) is the gamma function", d.Entries()[0].Label)
}

func TestReset(t *testing.T) {
	d := New(nil)
	d.Register(catalog.Definition{Key: "x", Name: "X"})
	d.Reset()
	assert.Zero(t, d.Len())
	assert.Empty(t, d.Entries())
}

func TestCanonicalLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Catalan Constant", "catalan constant"},
		{"C is Catalan's constant", "catalan constant"},
		{"Γ(x) is the gamma function", "gamma function"},
		{"Heath-Brown–Moroz Constant", "heath brown moroz constant"},
		{"  Golden   Ratio ", "golden ratio"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalLabel(tt.in))
		})
	}
}
