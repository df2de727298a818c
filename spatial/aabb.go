package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns an inverted box, which any ExpandByPoint turns valid
func EmptyAABB() AABB {
	return AABB{
		Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// IsEmpty reports whether no point was ever added to the box
func (a AABB) IsEmpty() bool {
	return a.Min.X() > a.Max.X() || a.Min.Y() > a.Max.Y() || a.Min.Z() > a.Max.Z()
}

// ContainsPoint reports whether point is inside the box, faces included
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if point[i] < a.Min[i] || point[i] > a.Max[i] {
			return false
		}
	}
	return true
}

// Contains reports whether other lies entirely inside the box. An empty box is inside any box.
func (a AABB) Contains(other AABB) bool {
	if other.IsEmpty() {
		return true
	}

	return a.ContainsPoint(other.Min) && a.ContainsPoint(other.Max)
}

// Union returns the smallest box enclosing both boxes
func (a AABB) Union(other AABB) AABB {
	if other.IsEmpty() {
		return a
	}

	return a.ExpandByPoint(other.Min).ExpandByPoint(other.Max)
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extents returns the half size of the box on each axis
func (a AABB) Extents() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// ExpandByPoint grows the box so it contains point
func (a AABB) ExpandByPoint(point mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], point[i])
		a.Max[i] = math.Max(a.Max[i], point[i])
	}
	return a
}

// Transform returns the world AABB enclosing the 8 transformed corners of the box
func (a AABB) Transform(m mgl64.Mat4) AABB {
	corners := [8]mgl64.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}

	out := EmptyAABB()
	for _, corner := range corners {
		out = out.ExpandByPoint(m.Mul4x1(corner.Vec4(1)).Vec3())
	}

	return out
}
