package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FrustumPlane indexes the planes returned by Frustum.Planes
type FrustumPlane int

const (
	FrustumNear FrustumPlane = iota
	FrustumFar
	FrustumLeft
	FrustumRight
	FrustumTop
	FrustumBottom
)

// Frustum is the convex view volume of a camera, bounded by six planes
// whose normals all point inward.
type Frustum struct {
	Near   Plane
	Far    Plane
	Left   Plane
	Right  Plane
	Top    Plane
	Bottom Plane
}

// NewFrustum derives the six clipping planes from the camera.
// The result does not follow later camera changes: rebuild it every time the camera moves.
func NewFrustum(camera Camera) Frustum {
	halfVSide := camera.Far * math.Tan(camera.FovY/2)
	halfHSide := halfVSide * camera.Aspect
	frontMultFar := camera.Forward.Mul(camera.Far)

	return Frustum{
		Near: NewPlane(camera.Position.Add(camera.Forward.Mul(camera.Near)), camera.Forward),
		Far:  NewPlane(camera.Position.Add(frontMultFar), camera.Forward.Mul(-1)),
		// side planes go through the apex
		Left:   NewPlane(camera.Position, frontMultFar.Sub(camera.Right.Mul(halfHSide)).Cross(camera.Up)),
		Right:  NewPlane(camera.Position, frontMultFar.Add(camera.Right.Mul(halfHSide)).Cross(camera.Up.Mul(-1))),
		Top:    NewPlane(camera.Position, frontMultFar.Add(camera.Up.Mul(halfVSide)).Cross(camera.Right)),
		Bottom: NewPlane(camera.Position, camera.Right.Cross(frontMultFar.Sub(camera.Up.Mul(halfVSide)))),
	}
}

// Planes returns the planes indexed by FrustumPlane
func (f *Frustum) Planes() [6]Plane {
	return [6]Plane{f.Near, f.Far, f.Left, f.Right, f.Top, f.Bottom}
}

// ContainsPoint reports whether the point is inside all six half-spaces
func (f *Frustum) ContainsPoint(point mgl64.Vec3) bool {
	for _, plane := range f.Planes() {
		if plane.SignedDistance(point) < 0 {
			return false
		}
	}
	return true
}

// ContainsSphere reports whether a world-space sphere is at least partially inside
func (f *Frustum) ContainsSphere(center mgl64.Vec3, radius float64) bool {
	for _, plane := range f.Planes() {
		if plane.IsSphereOutside(center, radius) {
			return false
		}
	}
	return true
}
