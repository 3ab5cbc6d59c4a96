package spatial

import "math"

// mergeEpsilon is the vertical tolerance under which two footprints on the
// same horizontal band are considered mergeable.
const mergeEpsilon = float32(0.6)

// RegularGrid is a uniformly subdivided grid spatial index over tile
// footprints. It holds one horizontal plane per cell and merges adjacent,
// overlapping footprints the same way the source grid merges coplanar
// quads: the point of the structure is fast containment/intersection
// queries over a large, mostly-static set of tile footprints, not mutation
// under heavy churn.
type RegularGrid struct {
	Resolution  uint
	FootprintCount uint32
	MergeCount  uint32
	Min         Vector3
	Max         Vector3
	Grid        [][][]*Footprint
}

// NewRegularGrid builds a grid with numRows x numCols cells, each
// `resolution` units wide.
func NewRegularGrid(numCols, numRows, resolution uint) *RegularGrid {
	if numCols == 0 {
		numCols = 1
	}
	if numRows == 0 {
		numRows = 1
	}
	if resolution == 0 {
		resolution = 1
	}

	g := &RegularGrid{
		Resolution: resolution,
		Min:        Vector3{0, 0, 0},
		Max:        Vector3{float32(resolution), 0, float32(resolution)},
		Grid:       make([][][]*Footprint, numRows),
	}

	for i := 0; i < int(numRows); i++ {
		g.Grid[i] = make([][]*Footprint, numCols)
	}

	return g
}

// Insert adds a tile footprint to the grid, merging it into an existing
// footprint directly above or below it when they are coplanar and
// overlapping.
func (grid *RegularGrid) Insert(f Footprint) {
	minPoint := Sub(f.Center, f.Extents)
	maxPoint := Add(f.Center, f.Extents)

	grid.expandToFitPoint(&minPoint)
	grid.expandToFitPoint(&maxPoint)

	toMerge := &f
	for {
		upRay := Ray{
			From: toMerge.Center,
			To:   Vector3{toMerge.Center.X, toMerge.Center.Y + (mergeEpsilon + 1.0), toMerge.Center.Z},
		}
		hitUp, tUp := grid.Intersect(upRay)

		downRay := Ray{
			From: toMerge.Center,
			To:   Vector3{toMerge.Center.X, toMerge.Center.Y - (mergeEpsilon + 1.0), toMerge.Center.Z},
		}
		hitDown, tDown := grid.Intersect(downRay)

		if hitUp == nil && hitDown == nil {
			break
		}

		t := tUp
		hit := hitUp
		if tDown < t {
			t = tDown
			hit = hitDown
		}

		if equalWithEpsilon(hit.Center.Y, toMerge.Center.Y, float64(mergeEpsilon)) && doFootprintsOverlap(*hit, *toMerge) {
			grid.mergeFootprints(hit, toMerge)

			if hit.Center.Equal(toMerge.Center) {
				toMerge = nil
				break
			}

			toMerge = hit
		} else {
			break
		}
	}

	if toMerge == &f {
		minXGridCoord := uint(math.Floor(float64(minPoint.X-grid.Min.X) / float64(grid.Resolution)))
		minYGridCoord := uint(math.Floor(float64(minPoint.Z-grid.Min.Z) / float64(grid.Resolution)))
		maxXGridCoord := uint(math.Floor(float64(maxPoint.X-grid.Min.X) / float64(grid.Resolution)))
		maxYGridCoord := uint(math.Floor(float64(maxPoint.Z-grid.Min.Z) / float64(grid.Resolution)))

		for i := minYGridCoord; i <= uint(math.Min(float64(maxYGridCoord), float64(len(grid.Grid)-1))); i++ {
			for j := minXGridCoord; j <= uint(math.Min(float64(maxXGridCoord), float64(len(grid.Grid[i])-1))); j++ {
				grid.Grid[i][j] = append(grid.Grid[i][j], &f)
			}
		}

		grid.FootprintCount++
	}
}

// Intersect casts a ray through the grid, discarding the vertical
// component, and returns the nearest footprint it crosses.
func (grid *RegularGrid) Intersect(r Ray) (*Footprint, float32) {
	newRay := &Ray{
		From: Vector3{r.From.X, 0, r.From.Z},
		To:   Vector3{r.To.X, 0, r.To.Z},
	}
	rayDir := Sub(newRay.To, newRay.From)

	if rayDir.Length() == 0 {
		cellX := int(math.Floor(float64(newRay.From.X-grid.Min.X) / float64(grid.Resolution)))
		cellY := int(math.Floor(float64(newRay.From.Z-grid.Min.Z) / float64(grid.Resolution)))

		if cellX < 0 || cellX >= len(grid.Grid[0]) {
			return nil, -1
		}
		if cellY < 0 || cellY >= len(grid.Grid) {
			return nil, -1
		}

		return grid.nearestInCell(r, cellY, cellX)
	}

	var xt float32
	if newRay.From.X < grid.Min.X {
		xt = grid.Min.X - newRay.From.X
		if xt > rayDir.X {
			return nil, -1
		}
		xt /= rayDir.X
	} else if newRay.From.X > grid.Max.X {
		xt = grid.Max.X - newRay.From.X
		if xt < rayDir.X {
			return nil, -1
		}
		xt /= rayDir.X
	}

	var zt float32
	if newRay.From.Z < grid.Min.Z {
		zt = grid.Min.Z - newRay.From.Z
		if zt > rayDir.Z {
			return nil, -1
		}
		zt /= rayDir.Z
	} else if newRay.From.Z > grid.Max.Z {
		zt = grid.Max.Z - newRay.From.Z
		if zt < rayDir.Z {
			return nil, -1
		}
		zt /= rayDir.Z
	}

	tMinX := (grid.Min.X - newRay.From.X) / rayDir.X
	tMaxX := (grid.Max.X - newRay.From.X) / rayDir.X
	if tMinX > tMaxX {
		swap(&tMinX, &tMaxX)
	}
	deltaTX := (tMaxX - tMinX) / float32(len(grid.Grid[0]))

	tMinY := (grid.Min.Z - newRay.From.Z) / rayDir.Z
	tMaxY := (grid.Max.Z - newRay.From.Z) / rayDir.Z
	if tMinY > tMaxY {
		swap(&tMinY, &tMaxY)
	}
	deltaTY := (tMaxY - tMinY) / float32(len(grid.Grid))

	t := zt
	if xt > zt {
		t = xt
	}

	for {
		hitPoint := Add(newRay.From, Mul(rayDir, t))

		cellX := uint(math.Floor(float64(hitPoint.X-grid.Min.X) / float64(grid.Resolution)))
		cellY := uint(math.Floor(float64(hitPoint.Z-grid.Min.Z) / float64(grid.Resolution)))

		cellX = uint(math.Min(float64(cellX), float64(len(grid.Grid[0])-1)))
		cellY = uint(math.Min(float64(cellY), float64(len(grid.Grid)-1)))

		if hit, tHit := grid.nearestInCell(r, int(cellY), int(cellX)); hit != nil {
			return hit, tHit
		}

		if t+deltaTX < t+deltaTY {
			t += deltaTX
		} else {
			t += deltaTY
		}

		if t > 1 || math.IsInf(float64(t), 0) || math.IsNaN(float64(t)) {
			break
		}
	}

	return nil, -1
}

func (grid *RegularGrid) nearestInCell(r Ray, row, col int) (*Footprint, float32) {
	tMin := float32(math.Inf(1))
	var result *Footprint
	for _, f := range grid.Grid[row][col] {
		hit, t := IntersectFootprint(r, *f)
		if hit && t < tMin {
			tMin = t
			result = f
		}
	}
	return result, tMin
}

// Region returns every distinct footprint whose cell falls within [min,max).
func (grid *RegularGrid) Region(min, max Vector3) []*Footprint {
	min = Vector3{float32(math.Max(float64(min.X), float64(grid.Min.X))), 0, float32(math.Max(float64(min.Z), float64(grid.Min.Z)))}
	max = Vector3{float32(math.Min(float64(max.X), float64(grid.Max.X))), 0, float32(math.Min(float64(max.Z), float64(grid.Max.Z)))}

	minXGridCoord := uint(math.Floor(float64(min.X-grid.Min.X) / float64(grid.Resolution)))
	minYGridCoord := uint(math.Floor(float64(min.Z-grid.Min.Z) / float64(grid.Resolution)))
	maxXGridCoord := uint(math.Floor(float64(max.X-grid.Min.X) / float64(grid.Resolution)))
	maxYGridCoord := uint(math.Floor(float64(max.Z-grid.Min.Z) / float64(grid.Resolution)))

	seen := make(map[*Footprint]bool)
	for y := minYGridCoord; y < maxYGridCoord; y++ {
		for x := minXGridCoord; x < maxXGridCoord; x++ {
			for _, f := range grid.Grid[y][x] {
				seen[f] = true
			}
		}
	}

	footprints := make([]*Footprint, 0, len(seen))
	for f := range seen {
		footprints = append(footprints, f)
	}
	return footprints
}

// DebugInfo summarizes grid occupancy, exposed for the admin surface.
type DebugInfo struct {
	Resolution     uint32
	RowCount       uint32
	ColCount       uint32
	FootprintCount uint32
	MergeCount     uint32
	Min, Max       Vector3
	Occupancy      []uint32
}

func (grid *RegularGrid) DebugInfo() DebugInfo {
	info := DebugInfo{
		Resolution:     uint32(grid.Resolution),
		RowCount:       uint32(len(grid.Grid)),
		ColCount:       uint32(len(grid.Grid[0])),
		FootprintCount: grid.FootprintCount,
		MergeCount:     grid.MergeCount,
		Min:            grid.Min,
		Max:            grid.Max,
	}

	info.Occupancy = make([]uint32, info.RowCount*info.ColCount)
	for y := uint32(0); y < info.RowCount; y++ {
		for x := uint32(0); x < info.ColCount; x++ {
			info.Occupancy[y*info.ColCount+x] = uint32(len(grid.Grid[y][x]))
		}
	}

	return info
}

// expandToFitPoint grows the grid so that p falls within [Min, Max).
func (grid *RegularGrid) expandToFitPoint(p *Vector3) {
	if p.X >= grid.Min.X && p.Z >= grid.Min.Z && p.X < grid.Max.X && p.Z < grid.Max.Z {
		return
	}

	var xCount int
	if p.X >= grid.Min.X && p.X < grid.Max.X {
		xCount = 0
	} else if p.X < grid.Min.X {
		xCount = int(math.Abs(math.Floor(float64(p.X - grid.Min.X))))
	} else {
		xCount = int(math.Floor(math.Abs(float64(p.X-grid.Max.X))) + 1)
	}

	var yCount int
	if p.Z >= grid.Min.Z && p.Z < grid.Max.Z {
		yCount = 0
	} else if p.Z < grid.Min.Z {
		yCount = int(math.Abs(math.Floor(float64(p.Z - grid.Min.Z))))
	} else {
		yCount = int(math.Floor(math.Abs(float64(p.Z-grid.Max.Z))) + 1)
	}

	xCount = int(math.Ceil(float64(xCount) / float64(grid.Resolution)))
	yCount = int(math.Ceil(float64(yCount) / float64(grid.Resolution)))

	curColCount := len(grid.Grid)
	curRowCount := len(grid.Grid[0])

	if p.X < grid.Min.X {
		for i := 0; i < curColCount; i++ {
			grid.Grid[i] = append(make([][]*Footprint, xCount), grid.Grid[i]...)
		}
		grid.Min.X = grid.Min.X - float32(xCount*int(grid.Resolution))
	} else {
		for i := 0; i < curColCount; i++ {
			grid.Grid[i] = append(grid.Grid[i], make([][]*Footprint, xCount)...)
		}
		grid.Max.X = grid.Max.X + float32(xCount*int(grid.Resolution))
	}

	if p.Z < grid.Min.Z {
		grid.Grid = append(make([][][]*Footprint, yCount), grid.Grid...)
		for i := 0; i < yCount; i++ {
			grid.Grid[i] = make([][]*Footprint, xCount+curRowCount)
		}
		grid.Min.Z = grid.Min.Z - float32(yCount*int(grid.Resolution))
	} else {
		grid.Grid = append(grid.Grid, make([][][]*Footprint, yCount)...)
		for i := curColCount; i < curColCount+yCount; i++ {
			grid.Grid[i] = make([][]*Footprint, xCount+curRowCount)
		}
		grid.Max.Z = grid.Max.Z + float32(yCount*int(grid.Resolution))
	}
}

func (grid *RegularGrid) removeFromCell(toRemove *Footprint, x, y uint) {
	contains, index := arrayContains(grid.Grid[y][x], toRemove)
	if contains {
		grid.Grid[y][x][index] = grid.Grid[y][x][len(grid.Grid[y][x])-1]
		grid.Grid[y][x] = grid.Grid[y][x][:len(grid.Grid[y][x])-1]
	}
}

func (grid *RegularGrid) mergeFootprints(existing *Footprint, incoming *Footprint) {
	minPoint := Sub(existing.Center, existing.Extents)
	maxPoint := Add(existing.Center, existing.Extents)
	minXGridCoord0 := uint(math.Floor(float64(minPoint.X-grid.Min.X) / float64(grid.Resolution)))
	minYGridCoord0 := uint(math.Floor(float64(minPoint.Z-grid.Min.Z) / float64(grid.Resolution)))
	maxXGridCoord0 := uint(math.Floor(float64(maxPoint.X-grid.Min.X) / float64(grid.Resolution)))
	maxYGridCoord0 := uint(math.Floor(float64(maxPoint.Z-grid.Min.Z) / float64(grid.Resolution)))

	centerDiff := Sub(incoming.Center, existing.Center)
	extentsDiff := Sub(incoming.Extents, existing.Extents)
	existing.Center.Add(Mul(centerDiff, 0.2))
	existing.Extents.Add(Mul(extentsDiff, 0.2))

	minPoint = Sub(existing.Center, existing.Extents)
	maxPoint = Add(existing.Center, existing.Extents)
	minXGridCoord1 := uint(math.Floor(float64(minPoint.X-grid.Min.X) / float64(grid.Resolution)))
	minYGridCoord1 := uint(math.Floor(float64(minPoint.Z-grid.Min.Z) / float64(grid.Resolution)))
	maxXGridCoord1 := uint(math.Floor(float64(maxPoint.X-grid.Min.X) / float64(grid.Resolution)))
	maxYGridCoord1 := uint(math.Floor(float64(maxPoint.Z-grid.Min.Z) / float64(grid.Resolution)))

	minMinX := minXGridCoord0
	maxMinX := minXGridCoord1
	expandLeftEdge := false
	if minXGridCoord1 < minXGridCoord0 {
		minMinX = minXGridCoord1
		maxMinX = minXGridCoord0
		expandLeftEdge = true
	}

	minMaxX := maxXGridCoord0
	maxMaxX := maxXGridCoord1
	expandRightEdge := true
	if maxXGridCoord1 < maxXGridCoord0 {
		minMaxX = maxXGridCoord1
		maxMaxX = maxXGridCoord0
		expandRightEdge = false
	}

	minMinY := minYGridCoord0
	maxMinY := minYGridCoord1
	expandTopEdge := false
	if minYGridCoord1 < minYGridCoord0 {
		minMinY = minYGridCoord1
		maxMinY = minYGridCoord0
		expandTopEdge = true
	}

	minMaxY := maxYGridCoord0
	maxMaxY := maxYGridCoord1
	expandBottomEdge := true
	if maxYGridCoord1 < maxYGridCoord0 {
		minMaxY = maxYGridCoord1
		maxMaxY = maxYGridCoord0
		expandBottomEdge = false
	}

	for y := minMinY; y <= maxMaxY; y++ {
		for x := minMinX; x < maxMinX; x++ {
			if expandLeftEdge {
				grid.Grid[y][x] = append(grid.Grid[y][x], existing)
			} else {
				grid.removeFromCell(existing, x, y)
			}
		}
	}

	for y := minMinY; y <= maxMaxY; y++ {
		for x := maxMaxX; x > minMaxX; x-- {
			if expandRightEdge {
				grid.Grid[y][x] = append(grid.Grid[y][x], existing)
			} else {
				grid.removeFromCell(existing, x, y)
			}
		}
	}

	for y := minMinY; y < maxMinY; y++ {
		for x := maxMinX; x <= minMaxX; x++ {
			if expandTopEdge {
				grid.Grid[y][x] = append(grid.Grid[y][x], existing)
			} else {
				grid.removeFromCell(existing, x, y)
			}
		}
	}

	for y := maxMaxY; y > minMaxY; y-- {
		for x := maxMinX; x <= minMaxX; x++ {
			if expandBottomEdge {
				grid.Grid[y][x] = append(grid.Grid[y][x], existing)
			} else {
				grid.removeFromCell(existing, x, y)
			}
		}
	}

	existing.MergeCount++
	grid.MergeCount++
}
