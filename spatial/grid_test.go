package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridCreation(t *testing.T) {
	empty := NewRegularGrid(0, 0, 0)
	require.True(t, empty.Resolution == 1)
	require.True(t, empty.FootprintCount == 0)
	require.True(t, empty.MergeCount == 0)
	require.True(t, empty.Min.Equal(Vector3{0, 0, 0}))
	require.True(t, empty.Max.Equal(Vector3{1, 0, 1}))
	require.True(t, len(empty.Grid) == 1)
	require.True(t, len(empty.Grid[0]) == 1)
}

func TestGridInsert(t *testing.T) {
	grid := NewRegularGrid(0, 0, 1)

	footprint := NewFootprint(1, Vector3{0, 0, 0}, Vector3{1, 0, 1})

	grid.Insert(footprint)
	require.True(t, grid.FootprintCount == 1)
	require.True(t, grid.MergeCount == 0)
	require.True(t, grid.Min.Equal(Vector3{-1, 0, -1}))
	require.True(t, grid.Max.Equal(Vector3{2, 0, 2}))
	require.True(t, len(grid.Grid) == 3)
	require.True(t, len(grid.Grid[0]) == 3)

	// inserting the same footprint again merges, not duplicates.
	grid.Insert(footprint)
	require.True(t, grid.FootprintCount == 1)
	require.True(t, grid.MergeCount == 1)

	other := NewFootprint(2, Vector3{2, 0, 0}, Vector3{0.1, 0, 0.1})
	grid.Insert(other)
	require.True(t, grid.FootprintCount == 2)
	require.True(t, grid.MergeCount == 1)
	require.True(t, len(grid.Grid[0]) == 4)
}

func TestGridIntersect(t *testing.T) {
	grid := NewRegularGrid(1, 1, 1)
	footprint := NewFootprint(7, Vector3{0, 0, 0}, Vector3{1, 0, 1})
	grid.Insert(footprint)

	t.Run("hit", func(t *testing.T) {
		ray := Ray{From: Vector3{0, 1, 0}, To: Vector3{0, -1, 0}}
		hit, t0 := grid.Intersect(ray)
		require.NotNil(t, hit)
		require.Equal(t, uint64(7), hit.TileID)
		require.Equal(t, float32(0.5), t0)
	})

	t.Run("miss", func(t *testing.T) {
		ray := Ray{From: Vector3{10, 1, 0}, To: Vector3{0, -1, 0}}
		hit, t0 := grid.Intersect(ray)
		require.Nil(t, hit)
		require.Equal(t, float32(-1), t0)
	})
}

func TestGridRegion(t *testing.T) {
	grid := NewRegularGrid(1, 1, 1)

	t.Run("the whole region", func(t *testing.T) {
		grid.Insert(NewFootprint(1, Vector3{-2, 0, -2}, Vector3{1, 0, 1}))
		footprints := grid.Region(Vector3{-10, -10, -10}, Vector3{10, 10, 10})
		require.Len(t, footprints, 1)
	})

	t.Run("half the region", func(t *testing.T) {
		grid.Insert(NewFootprint(2, Vector3{2, 0, 2}, Vector3{1, 0, 1}))
		footprints := grid.Region(Vector3{0, 0, 0}, Vector3{10, 10, 10})
		require.Len(t, footprints, 1)
	})
}

func TestGridMerging(t *testing.T) {
	grid := NewRegularGrid(1, 1, 1)

	grid.Insert(NewFootprint(1, Vector3{0, 0, 0}, Vector3{2, 0, 2}))
	require.True(t, grid.FootprintCount == 1)
	require.True(t, grid.MergeCount == 0)
	require.Len(t, grid.Grid[0][4], 1)

	grid.Insert(NewFootprint(2, Vector3{0, 0, 0}, Vector3{0.001, 0, 0.001}))
	require.True(t, grid.FootprintCount == 1)
	require.True(t, grid.MergeCount == 1)
	require.Len(t, grid.Grid[0][4], 0)
}

func TestEqualWithEpsilon(t *testing.T) {
	require.True(t, equalWithEpsilon(0.1, 0.2, 0.11))
}

func TestDotAndCross(t *testing.T) {
	xAxis := Vector3{1, 0, 0}
	yAxis := Vector3{0, 1, 0}
	zAxis := Vector3{0, 0, 1}

	require.Equal(t, float32(0), xAxis.Dot(yAxis))
	require.True(t, zAxis.Equal(Cross(xAxis, yAxis)))
}

func TestIntersectFootprint(t *testing.T) {
	ray := Ray{From: Vector3{0, 10, 0}, To: Vector3{0, -10, 0}}
	footprint := NewFootprint(1, Vector3{0, 0, 0}, Vector3{1, 0, 1})

	hit, _ := IntersectFootprint(ray, footprint)
	require.True(t, hit)
}

func TestVectorOps(t *testing.T) {
	zero := Vector3{0, 0, 0}
	one := Vector3{1, 1, 1}

	require.True(t, zero.Equal(Vector3{0, 0, 0}))
	require.True(t, one.EqualWithEpsilon(Vector3{0.9, 1.1, 1}, 0.11))
	require.True(t, one.Equal(Add(zero, one)))
	require.True(t, one.Equal(Sub(one, zero)))
	require.True(t, zero.Equal(Mul(one, 0)))

	unitX := Vector3{1, 0, 0}
	require.Equal(t, float64(1), unitX.Length())

	one.NormalizeInPlace()
	require.True(t, equalWithEpsilon(float32(one.Length()), 1, 0.001))
}

func TestFootprintsOverlap(t *testing.T) {
	a := NewFootprint(1, Vector3{0, 0, 0}, Vector3{1, 0, 1})
	require.True(t, doFootprintsOverlap(a, a))

	b := NewFootprint(2, Vector3{10, 0, 0}, Vector3{1, 0, 1})
	require.False(t, doFootprintsOverlap(a, b))
}

func TestCalculateNormal(t *testing.T) {
	normal := calculateNormal(Vector3{0, 0, 0}, Vector3{1, 0, 1})
	up := Vector3{0, 1, 0}
	require.True(t, up.EqualWithEpsilon(normal, 0.0001))
}
