package series

import "github.com/shopspring/decimal"

// Summary describes the tail of a series.
type Summary struct {
	Name  Name   `json:"name"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Last  *Point `json:"last,omitempty"`
	// Value is Last.Y rounded for display. Empty when Y is not numeric.
	Value string `json:"value,omitempty"`
	// Numeric is false when the last value is a sentinel such as an
	// overflow marker.
	Numeric bool `json:"numeric"`
}

// Summarize reports the count and last point of each series, with the last
// value rounded to digits decimal places.
func (a *Accumulator) Summarize(digits int32) []Summary {
	out := make([]Summary, 0, len(Names))
	for _, n := range Names {
		s := Summary{Name: n, Label: n.Label(), Count: a.Len(n)}
		if s.Count > 0 {
			last := a.points[n][s.Count-1]
			s.Last = &last
			if d, err := last.Decimal(); err == nil {
				s.Numeric = true
				s.Value = d.Round(digits).String()
			}
		}
		out = append(out, s)
	}
	return out
}

// RoundValue rounds a decimal string to digits places, returning the input
// unchanged when it is not a plain decimal (for example "Infinity").
func RoundValue(v string, digits int32) string {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return v
	}
	return d.Round(digits).String()
}

// Numeric reports whether v parses as a plain decimal.
func Numeric(v string) bool {
	_, err := decimal.NewFromString(v)
	return err == nil
}
