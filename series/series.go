// Package series accumulates the numeric series streamed by the backend
// during an analysis.
package series

import (
	"fmt"
	"iter"
	"slices"

	"github.com/shopspring/decimal"
)

// Name identifies one of the streamed series.
type Name string

const (
	Error        Name = "error"
	Delta        Name = "delta"
	ReducedDelta Name = "reduced_delta"
)

// Names lists the series in display order.
var Names = []Name{Error, Delta, ReducedDelta}

func (n Name) Valid() bool {
	return slices.Contains(Names, n)
}

// Label is the axis label shown for the series.
func (n Name) Label() string {
	switch n {
	case Error:
		return "log of error"
	case Delta:
		return "error delta"
	case ReducedDelta:
		return "reduced delta"
	}
	return string(n)
}

// Point is one sample. Y is kept as the backend sent it since it may be a
// sentinel rather than a number.
type Point struct {
	X int    `json:"x"`
	Y string `json:"y"`
}

// Decimal parses Y.
func (p Point) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(p.Y)
}

// Accumulator holds the three series of one analysis. Appends only ever
// extend a series; existing points are never changed or reordered.
// It is not safe for concurrent use.
type Accumulator struct {
	points map[Name][]Point
}

func NewAccumulator() *Accumulator {
	return &Accumulator{points: make(map[Name][]Point, len(Names))}
}

// Append adds a batch to the end of the named series. Empty batches are
// ignored.
func (a *Accumulator) Append(name Name, batch []Point) error {
	if !name.Valid() {
		return fmt.Errorf("unknown series %q", name)
	}
	if len(batch) == 0 {
		return nil
	}
	a.points[name] = append(a.points[name], batch...)
	return nil
}

// Current returns a copy of the named series so far.
func (a *Accumulator) Current(name Name) []Point {
	return slices.Clone(a.points[name])
}

// All iterates over the named series so far. Each call starts from the
// first point, and points appended during iteration are not visited.
func (a *Accumulator) All(name Name) iter.Seq2[int, Point] {
	pts := a.points[name]
	return func(yield func(int, Point) bool) {
		for i, p := range pts {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Len returns the number of points in the named series.
func (a *Accumulator) Len(name Name) int {
	return len(a.points[name])
}

// Reset clears all series.
func (a *Accumulator) Reset() {
	clear(a.points)
}

// Snapshot copies every series, keyed by name.
func (a *Accumulator) Snapshot() map[Name][]Point {
	out := make(map[Name][]Point, len(Names))
	for _, n := range Names {
		out[n] = a.Current(n)
	}
	return out
}
