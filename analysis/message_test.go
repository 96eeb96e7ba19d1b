package analysis

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pcfscope/server/series"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Message
	}{
		{
			name: "limit",
			in:   `{"limit": "1.4142135623730950488"}`,
			want: Message{Kind: KindLimit, Limit: "1.4142135623730950488"},
		},
		{
			name: "infinite limit",
			in:   `{"limit": "Infinity"}`,
			want: Message{Kind: KindLimit, Limit: "Infinity"},
		},
		{
			name: "numeric limit",
			in:   `{"limit": 2.5}`,
			want: Message{Kind: KindLimit, Limit: "2.5"},
		},
		{
			name: "convergence",
			in:   `{"is_convergent": false}`,
			want: Message{Kind: KindConvergent, Convergent: boolPtr(false)},
		},
		{
			name: "convergence without verdict",
			in:   `{"is_convergent": null}`,
			want: Message{Kind: KindConvergent},
		},
		{
			name: "converges_to as embedded JSON",
			in:   `{"converges_to": "[\"alpha_GW**2 = 0 (15)\", \"C\"]"}`,
			want: Message{Kind: KindConvergesTo, Expressions: []string{"alpha_GW**2 = 0 (15)", "C"}},
		},
		{
			name: "see_also as array",
			in:   `{"see_also": ["PCF[1, n] = e"]}`,
			want: Message{Kind: KindSeeAlso, Expressions: []string{"PCF[1, n] = e"}},
		},
		{
			name: "error batch as embedded JSON",
			in:   `{"error": "[{\"x\": 1, \"y\": \"0.5\"}, {\"x\": 2, \"y\": \"1.25\"}]"}`,
			want: Message{Kind: KindError, Points: []series.Point{{X: 1, Y: "0.5"}, {X: 2, Y: "1.25"}}},
		},
		{
			name: "delta batch with numeric y",
			in:   `{"delta": [{"x": 25, "y": -0.75}]}`,
			want: Message{Kind: KindDelta, Points: []series.Point{{X: 25, Y: "-0.75"}}},
		},
		{
			name: "empty reduced delta batch",
			in:   `{"reduced_delta": "[]"}`,
			want: Message{Kind: KindReducedDelta, Points: []series.Point{}},
		},
		{
			name: "unknown fields ignored",
			in:   `{"limit": "1", "trace": "abc"}`,
			want: Message{Kind: KindLimit, Limit: "1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{
		`{`,
		`[]`,
		`{}`,
		`{"unknown": 1}`,
		`{"limit": "1", "is_convergent": true}`,
		`{"is_convergent": "yes"}`,
		`{"error": "not json"}`,
		`{"delta": [{"x": "one", "y": "1"}]}`,
		`{"converges_to": 5}`,
	} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%s) = %v, want ErrMalformed", in, err)
		}
	}
}

func TestMessage_Series(t *testing.T) {
	name, ok := Message{Kind: KindReducedDelta}.Series()
	if !ok || name != series.ReducedDelta {
		t.Errorf("got %q %v", name, ok)
	}
	if _, ok := (Message{Kind: KindLimit}).Series(); ok {
		t.Error("limit is not a series")
	}
}

func boolPtr(v bool) *bool { return &v }
