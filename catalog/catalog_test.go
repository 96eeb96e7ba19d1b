package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionOrder_LongerKeysFirst(t *testing.T) {
	order := Default().ResolutionOrder()
	require.NotEmpty(t, order)

	pos := make(map[string]int, len(order))
	for i, d := range order {
		pos[d.Key] = i
	}

	// every key that is a textual prefix of another must come later
	for _, general := range order {
		for _, specific := range order {
			if general.Key == specific.Key || len(specific.Key) <= len(general.Key) {
				continue
			}
			if specific.Key[:len(general.Key)] == general.Key {
				assert.Less(t, pos[specific.Key], pos[general.Key], "%s must be tried before %s", specific.Key, general.Key)
			}
		}
	}
}

func TestResolutionOrder_IndependentOfDeclarationOrder(t *testing.T) {
	c := New([]Definition{
		{Key: "A", Name: "General"},
		{Key: "A_Pi", Name: "Specific", Substitution: "A[π]"},
	})

	var matched []string
	got := c.Substitute("A_Pi+A", func(d Definition) { matched = append(matched, d.Name) })

	assert.Equal(t, "A[π]+A", got)
	assert.Equal(t, []string{"Specific", "General"}, matched)
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		matched []string
	}{
		{
			name:    "specific key",
			in:      "alpha_GW^2",
			want:    "α[GW]^2",
			matched: []string{"alpha_GW"},
		},
		{
			name:    "general key",
			in:      "alpha^2",
			want:    "α^2",
			matched: []string{"alpha"},
		},
		{
			name:    "general and specific together",
			in:      "alpha*alpha_GW - alpha_M/alpha",
			want:    "α*α[GW] - α[M]/α",
			matched: []string{"alpha", "alpha_GW", "alpha_M", "alpha"},
		},
		{
			name:    "key inside unrelated identifier is ignored",
			in:      "alphabet + Zeta3x",
			want:    "alphabet + Zeta3x",
			matched: nil,
		},
		{
			name:    "key followed by subscript bracket",
			in:      "C[1]",
			want:    "C[1]",
			matched: []string{"C"},
		},
		{
			name:    "replacement text is not rescanned",
			in:      "G_S",
			want:    "2^sqrt(2)",
			matched: []string{"G_S"},
		},
		{
			name:    "key without substitution is kept",
			in:      "2*gamma",
			want:    "2*gamma",
			matched: []string{"gamma"},
		},
		{
			name:    "numbers and operators untouched",
			in:      "(1 + 2)/3",
			want:    "(1 + 2)/3",
			matched: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var matched []string
			got := Default().Substitute(tt.in, func(d Definition) { matched = append(matched, d.Key) })
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestLookup(t *testing.T) {
	d, ok := Default().Lookup("alpha_GW")
	require.True(t, ok)
	assert.Equal(t, "Goemans Williamson Constant", d.Name)
	assert.Empty(t, d.URL)

	_, ok = Default().Lookup("not_a_constant")
	assert.False(t, ok)
}

func TestNew_IgnoresDuplicatesAndEmptyKeys(t *testing.T) {
	c := New([]Definition{
		{Key: "x", Name: "first"},
		{Key: "", Name: "empty"},
		{Key: "x", Name: "second"},
	})

	assert.Equal(t, 1, c.Len())
	d, _ := c.Lookup("x")
	assert.Equal(t, "first", d.Name)
}

func TestFindByName(t *testing.T) {
	d, ok := Default().FindByName("catalan constant")
	require.True(t, ok)
	assert.Equal(t, "C", d.Key)
}
