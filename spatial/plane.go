package spatial

import "github.com/go-gl/mathgl/mgl64"

// Plane is a half-space boundary.
// The plane is defined by the equation: Normal · p = Distance
// where Normal has unit length. Points with Normal · p > Distance are inside.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// NewPlane builds a plane passing through point, facing normal.
// The normal does not need to be normalized, but it must not be zero.
func NewPlane(point, normal mgl64.Vec3) Plane {
	n := normal.Normalize()

	return Plane{
		Normal:   n,
		Distance: point.Dot(n),
	}
}

// SignedDistance returns the distance from point to the plane,
// positive on the side the normal points to.
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return point.Dot(p.Normal) - p.Distance
}

// IsSphereOutside reports whether the whole sphere lies behind the plane
func (p Plane) IsSphereOutside(center mgl64.Vec3, radius float64) bool {
	return p.SignedDistance(center) < -radius
}
