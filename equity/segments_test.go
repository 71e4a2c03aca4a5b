package equity

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSegmentsOneSide(t *testing.T) {
	t.Parallel()

	pts := []XY{{0, 100}, {1, 110}, {2, 105}}
	s := SplitSegments(pts, 100)
	assert.Len(t, s.Above, 2)
	assert.Empty(t, s.Below)

	s = SplitSegments([]XY{{0, 90}, {1, 80}}, 100)
	assert.Empty(t, s.Above)
	assert.Equal(t, []Segment{{From: XY{0, 90}, To: XY{1, 80}}}, s.Below)
}

func TestSplitSegmentsCrossing(t *testing.T) {
	t.Parallel()

	s := SplitSegments([]XY{{0, 110}, {1, 90}}, 100)
	require.Len(t, s.Above, 1)
	require.Len(t, s.Below, 1)
	assert.Equal(t, XY{0, 110}, s.Above[0].From)
	assert.InDelta(t, 0.5, s.Above[0].To.X, 1e-12)
	assert.Equal(t, 100.0, s.Above[0].To.Y)
	assert.Equal(t, s.Above[0].To, s.Below[0].From)
	assert.Equal(t, XY{1, 90}, s.Below[0].To)

	// upward crossing at a quarter of the way
	s = SplitSegments([]XY{{2, 90}, {3, 130}}, 100)
	require.Len(t, s.Below, 1)
	require.Len(t, s.Above, 1)
	assert.InDelta(t, 2.25, s.Below[0].To.X, 1e-12)
	assert.Equal(t, s.Below[0].To, s.Above[0].From)
}

func TestSplitSegmentsOnReference(t *testing.T) {
	t.Parallel()

	s := SplitSegments([]XY{{0, 100}, {1, 100}}, 100)
	assert.Len(t, s.Above, 1)
	assert.Empty(t, s.Below)

	// touching from below stays below
	s = SplitSegments([]XY{{0, 90}, {1, 100}}, 100)
	assert.Empty(t, s.Above)
	assert.Len(t, s.Below, 1)
}

func TestSplitSegmentsShortInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Segments{}, SplitSegments(nil, 0))
	assert.Equal(t, Segments{}, SplitSegments([]XY{{0, 1}}, 0))
}

func TestSplitSegmentsContinuity(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	for n := 0; n < 100; n++ {
		pnls := make([]float64, 1+rng.Intn(40))
		for i := range pnls {
			pnls[i] = float64(rng.Intn(600) - 300)
		}
		pts := SeriesXY(seriesOf(1000, pnls...))
		s := SplitSegments(pts, 1000)

		all := append(append([]Segment{}, s.Above...), s.Below...)
		sort.SliceStable(all, func(i, j int) bool { return all[i].From.X < all[j].From.X })

		require.NotEmpty(t, all)
		assert.Equal(t, pts[0], all[0].From)
		assert.Equal(t, pts[len(pts)-1], all[len(all)-1].To)
		for i := 1; i < len(all); i++ {
			assert.InDelta(t, all[i-1].To.X, all[i].From.X, 1e-9)
			assert.InDelta(t, all[i-1].To.Y, all[i].From.Y, 1e-9)
		}
		for _, seg := range s.Above {
			assert.GreaterOrEqual(t, seg.From.Y, 1000.0)
			assert.GreaterOrEqual(t, seg.To.Y, 1000.0)
		}
		for _, seg := range s.Below {
			assert.LessOrEqual(t, seg.From.Y, 1000.0)
			assert.LessOrEqual(t, seg.To.Y, 1000.0)
		}
	}
}
