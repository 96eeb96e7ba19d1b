package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(xs ...int) []Point {
	out := make([]Point, len(xs))
	for i, x := range xs {
		out[i] = Point{X: x, Y: "1.5"}
	}
	return out
}

func TestAppend_ConcatenatesInCallOrder(t *testing.T) {
	a := NewAccumulator()
	batches := [][]Point{pts(1, 2, 3), nil, pts(3, 4), {}, pts(5)}

	var want []Point
	for _, b := range batches {
		require.NoError(t, a.Append(Error, b))
		want = append(want, b...)
	}

	assert.Equal(t, want, a.Current(Error))
	assert.Empty(t, a.Current(Delta))
}

func TestAppend_KeepsDuplicateX(t *testing.T) {
	a := NewAccumulator()
	require.NoError(t, a.Append(Delta, []Point{{X: 1, Y: "0.1"}}))
	require.NoError(t, a.Append(Delta, []Point{{X: 1, Y: "0.2"}}))

	assert.Equal(t, []Point{{X: 1, Y: "0.1"}, {X: 1, Y: "0.2"}}, a.Current(Delta))
}

func TestAppend_UnknownSeries(t *testing.T) {
	a := NewAccumulator()
	assert.Error(t, a.Append(Name("limit"), pts(1)))
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	a := NewAccumulator()
	require.NoError(t, a.Append(Error, pts(1, 2)))

	got := a.Current(Error)
	got[0].Y = "changed"

	assert.Equal(t, "1.5", a.Current(Error)[0].Y)
}

func TestAll_IsRestartable(t *testing.T) {
	a := NewAccumulator()
	require.NoError(t, a.Append(ReducedDelta, pts(1, 2, 3)))

	for range 2 {
		var xs []int
		for _, p := range a.All(ReducedDelta) {
			xs = append(xs, p.X)
		}
		assert.Equal(t, []int{1, 2, 3}, xs)
	}

	var first []int
	for _, p := range a.All(ReducedDelta) {
		first = append(first, p.X)
		break
	}
	assert.Equal(t, []int{1}, first)
}

func TestReset(t *testing.T) {
	a := NewAccumulator()
	for _, n := range Names {
		require.NoError(t, a.Append(n, pts(1)))
	}
	a.Reset()
	for _, n := range Names {
		assert.Zero(t, a.Len(n))
	}
}

func TestSummarize(t *testing.T) {
	a := NewAccumulator()
	require.NoError(t, a.Append(Error, []Point{{X: 1, Y: "0.123456"}, {X: 2, Y: "1.987654"}}))
	require.NoError(t, a.Append(Delta, []Point{{X: 1, Y: "overflow"}}))

	got := a.Summarize(2)
	require.Len(t, got, 3)

	assert.Equal(t, "log of error", got[0].Label)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, &Point{X: 2, Y: "1.987654"}, got[0].Last)
	assert.True(t, got[0].Numeric)
	assert.Equal(t, "1.99", got[0].Value)

	assert.False(t, got[1].Numeric)
	assert.Empty(t, got[1].Value)

	assert.Zero(t, got[2].Count)
	assert.Nil(t, got[2].Last)
}

func TestRoundValue(t *testing.T) {
	assert.Equal(t, "1.4142", RoundValue("1.41421356", 4))
	assert.Equal(t, "Infinity", RoundValue("Infinity", 4))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "error delta", Delta.Label())
	assert.Equal(t, "reduced delta", ReducedDelta.Label())
	assert.True(t, Error.Valid())
	assert.False(t, Name("x").Valid())
}
