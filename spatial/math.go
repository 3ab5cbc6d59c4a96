// Package spatial provides a broad-phase horizontal-plane index over tile
// footprints. The reference renderer inserts each tile's footprint as it is
// first frustum-tested; its in-view answer does not query the index.
package spatial

import "math"

func swap(a *float32, b *float32) {
	*a, *b = *b, *a
}

func equalWithEpsilon(a float32, b float32, epsilon float64) bool {
	return math.Abs(float64(a-b)) <= epsilon
}

func inRangeWithEpsilon(value float32, min float32, max float32, epsilon float32) bool {
	return value+epsilon >= min && value-epsilon <= max
}

// Vector3 is a minimal float32 3-vector used for footprint geometry.
type Vector3 struct {
	X, Y, Z float32
}

func NewVector3(x, y, z float32) Vector3 {
	return Vector3{x, y, z}
}

func (v Vector3) EqualWithEpsilon(o Vector3, epsilon float64) bool {
	return math.Abs(float64(v.X-o.X)) <= epsilon &&
		math.Abs(float64(v.Y-o.Y)) <= epsilon &&
		math.Abs(float64(v.Z-o.Z)) <= epsilon
}

func (v *Vector3) Equal(o Vector3) bool {
	return v.X == o.X && v.Y == o.Y && v.Z == o.Z
}

func (v *Vector3) Add(o Vector3) {
	v.X += o.X
	v.Y += o.Y
	v.Z += o.Z
}

func Add(a, b Vector3) Vector3 {
	return Vector3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func Sub(a, b Vector3) Vector3 {
	return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func Mul(a Vector3, s float32) Vector3 {
	return Vector3{a.X * s, a.Y * s, a.Z * s}
}

func (v *Vector3) Length() float64 {
	return math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
}

func (v *Vector3) NormalizeInPlace() {
	length := float32(v.Length())
	if length != 0 {
		v.X /= length
		v.Y /= length
		v.Z /= length
	}
}

func (v *Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func Cross(a, b Vector3) Vector3 {
	return Vector3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

// Footprint is the horizontal (XZ-plane) bounding rectangle of a tile,
// projected onto the ground plane, indexed by TileID for broad-phase lookup.
type Footprint struct {
	TileID  uint64
	Center  Vector3
	Extents Vector3 // half-extents

	// implicit
	Normal Vector3

	MergeCount uint32
}

func doFootprintsOverlap(a, b Footprint) bool {
	minA := Sub(a.Center, a.Extents)
	maxA := Add(a.Center, a.Extents)
	minB := Sub(b.Center, b.Extents)
	maxB := Add(b.Center, b.Extents)

	if minA.X >= maxB.X {
		return false
	}
	if maxA.X <= minB.X {
		return false
	}
	if minA.Z >= maxB.Z {
		return false
	}
	if maxA.Z <= minB.Z {
		return false
	}

	return true
}

func calculateNormal(c, e Vector3) Vector3 {
	pointA := Add(c, Vector3{e.X, e.Y, 0})
	pointB := Add(c, Vector3{0, e.Y, e.Z})
	vectorA := Sub(pointA, c)
	vectorB := Sub(pointB, c)
	normal := Cross(vectorB, vectorA)
	normal.NormalizeInPlace()
	return normal
}

// NewFootprint builds a Footprint from a center and half-extents, deriving
// its normal the same way the grid derives a plane's normal from its quad.
func NewFootprint(tileID uint64, center, extents Vector3) Footprint {
	return Footprint{
		TileID:  tileID,
		Center:  center,
		Extents: extents,
		Normal:  calculateNormal(center, extents),
	}
}

type Ray struct {
	From, To Vector3
}

func arrayContains(array []*Footprint, f *Footprint) (bool, uint) {
	for i := 0; i < len(array); i++ {
		if f == array[i] {
			return true, uint(i)
		}
	}
	return false, 0
}

// IntersectFootprint tests a ray against a single footprint's plane.
func IntersectFootprint(r Ray, f Footprint) (bool, float32) {
	rayDir := Sub(r.To, r.From)

	denominator := f.Normal.Dot(rayDir)
	if denominator != 0 {
		t := (f.Normal.Dot(f.Center) - f.Normal.Dot(r.From)) / denominator
		if t >= 0 && t <= 1 {
			hitPoint := Add(r.From, Mul(rayDir, t))

			minPoint := Sub(f.Center, f.Extents)
			maxPoint := Add(f.Center, f.Extents)
			if inRangeWithEpsilon(hitPoint.X, minPoint.X, maxPoint.X, 0.0001) &&
				inRangeWithEpsilon(hitPoint.Y, minPoint.Y, maxPoint.Y, 0.0001) &&
				inRangeWithEpsilon(hitPoint.Z, minPoint.Z, maxPoint.Z, 0.0001) {
				return true, t
			}
		}
	}
	return false, -1
}
