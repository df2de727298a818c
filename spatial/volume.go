package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Volume is the interface that all bounding volumes must implement.
// Shapes are described in the local space of their owner; the transform brings them to world space.
type Volume interface {
	// IsOnFrustum reports whether the volume, placed by the transform's world matrix,
	// is at least partially inside the frustum
	IsOnFrustum(frustum *Frustum, transform *Transform) bool
	// Bounds returns the world-space axis-aligned box enclosing the volume
	Bounds(transform *Transform) AABB
}

// Sphere represents a spherical bounding volume
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// IsOnFrustum tests the world sphere against each plane. Under non-uniform scale the radius
// grows with the largest axis scale, so the test may keep a sphere that is slightly outside.
func (s *Sphere) IsOnFrustum(frustum *Frustum, transform *Transform) bool {
	center, radius := s.world(transform)

	return frustum.ContainsSphere(center, radius)
}

func (s *Sphere) Bounds(transform *Transform) AABB {
	center, radius := s.world(transform)
	radiusVec := mgl64.Vec3{radius, radius, radius}

	return AABB{
		Min: center.Sub(radiusVec),
		Max: center.Add(radiusVec),
	}
}

func (s *Sphere) world(transform *Transform) (mgl64.Vec3, float64) {
	world := transform.WorldMatrix()

	return transform.TransformPoint(s.Center), s.Radius * MaxScale(world)
}

// Box represents an oriented box bounding volume
// The box is defined by its half-extents (half-width, half-height, half-depth) around Center
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// IsOnFrustum projects the oriented box on each plane normal. The box is outside
// a plane when its center lies further behind it than the projected half size.
func (b *Box) IsOnFrustum(frustum *Frustum, transform *Transform) bool {
	world := transform.WorldMatrix()
	center := transform.TransformPoint(b.Center)
	axes := b.axes(world)

	for _, plane := range frustum.Planes() {
		r := math.Abs(axes[0].Dot(plane.Normal)) +
			math.Abs(axes[1].Dot(plane.Normal)) +
			math.Abs(axes[2].Dot(plane.Normal))

		if plane.SignedDistance(center) < -r {
			return false
		}
	}
	return true
}

func (b *Box) Bounds(transform *Transform) AABB {
	local := AABB{
		Min: b.Center.Sub(b.HalfExtents),
		Max: b.Center.Add(b.HalfExtents),
	}

	return local.Transform(transform.WorldMatrix())
}

// axes returns the world half-axes of the box, rotation and scale included
func (b *Box) axes(world mgl64.Mat4) [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		world.Col(0).Vec3().Mul(b.HalfExtents.X()),
		world.Col(1).Vec3().Mul(b.HalfExtents.Y()),
		world.Col(2).Vec3().Mul(b.HalfExtents.Z()),
	}
}

// Capsule represents a capsule bounding volume aligned on the local Y axis.
// HalfHeight is half the length of the inner segment, excluding the hemispherical caps.
type Capsule struct {
	Center     mgl64.Vec3
	HalfHeight float64
	Radius     float64
}

// IsOnFrustum rejects the capsule when both ends of its segment are further than
// the radius behind the same plane
func (c *Capsule) IsOnFrustum(frustum *Frustum, transform *Transform) bool {
	top, bottom, radius := c.world(transform)

	for _, plane := range frustum.Planes() {
		if plane.IsSphereOutside(top, radius) && plane.IsSphereOutside(bottom, radius) {
			return false
		}
	}
	return true
}

func (c *Capsule) Bounds(transform *Transform) AABB {
	top, bottom, radius := c.world(transform)
	radiusVec := mgl64.Vec3{radius, radius, radius}

	return EmptyAABB().
		ExpandByPoint(top.Add(radiusVec)).
		ExpandByPoint(top.Sub(radiusVec)).
		ExpandByPoint(bottom.Add(radiusVec)).
		ExpandByPoint(bottom.Sub(radiusVec))
}

func (c *Capsule) world(transform *Transform) (mgl64.Vec3, mgl64.Vec3, float64) {
	offset := mgl64.Vec3{0, c.HalfHeight, 0}
	top := transform.TransformPoint(c.Center.Add(offset))
	bottom := transform.TransformPoint(c.Center.Sub(offset))

	return top, bottom, c.Radius * MaxScale(transform.WorldMatrix())
}

// BoundingSphere returns the sphere circumscribing the box
func BoundingSphere(aabb AABB) *Sphere {
	return &Sphere{
		Center: aabb.Center(),
		Radius: aabb.Extents().Len(),
	}
}

// BoundingBox returns the box matching the AABB in local space
func BoundingBox(aabb AABB) *Box {
	return &Box{
		Center:      aabb.Center(),
		HalfExtents: aabb.Extents(),
	}
}
