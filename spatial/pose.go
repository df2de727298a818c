package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DEFAULT_SIZE_DIVISOR keeps a facing pose one third of its distance to the camera in size
	DEFAULT_SIZE_DIVISOR = 3.0
	// DEFAULT_PLACE_DISTANCE is the distance PlaceInView puts objects at, in front of the viewer
	DEFAULT_PLACE_DISTANCE = 2.0
)

// WorldUp is the vertical axis the pose helpers keep objects upright against
var WorldUp = mgl64.Vec3{0, 1, 0}

// facingAngle is the largest angle between the look direction and WorldUp for which
// PlaceInView turns the object toward the viewer instead of keeping it upright
var facingAngle = math.Acos(0.5)

// Pose places an object with a uniform scale
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    float64
}

// Mat4 composes the pose as translation * rotation * scale
func (p Pose) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(p.Position.Elem()).
		Mul4(p.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(p.Scale, p.Scale, p.Scale))
}

// FaceCamera returns the pose at position whose local +Z axis points to the camera, with the
// local Y axis as close to WorldUp as possible. The scale is the camera distance divided by
// sizeDivisor, so the object keeps the same apparent size whatever its distance.
// Straight above or below the camera, the Y axis falls back to lookAt × X.
func FaceCamera(position, cameraPosition mgl64.Vec3, sizeDivisor float64) Pose {
	offset := position.Sub(cameraPosition)
	lookAt := offset.Normalize()

	up := WorldUp.Sub(lookAt.Mul(lookAt.Dot(WorldUp)))
	if up.Len() < 1e-9 {
		up = lookAt.Cross(mgl64.Vec3{1, 0, 0})
	}

	return Pose{
		Position: position,
		Rotation: basisRotation(lookAt, up.Normalize()),
		Scale:    offset.Len() / sizeDivisor,
	}
}

// PlaceInView returns the pose distance units from head along lookAt.
// When lookAt is within 60 degrees of WorldUp, or points straight down, the object faces
// the viewer as with FaceCamera. Otherwise it stays upright, turned toward the viewer
// around WorldUp only, with a unit scale.
func PlaceInView(head, lookAt mgl64.Vec3, distance float64) Pose {
	direction := lookAt.Normalize()
	position := head.Add(direction.Mul(distance))

	vertical := direction.Dot(WorldUp)
	horizontal := direction.Sub(WorldUp.Mul(vertical))
	if math.Acos(mgl64.Clamp(vertical, -1, 1)) < facingAngle || horizontal.Len() < 1e-9 {
		return FaceCamera(position, head, DEFAULT_SIZE_DIVISOR)
	}

	return Pose{
		Position: position,
		Rotation: basisRotation(horizontal.Normalize(), WorldUp),
		Scale:    1,
	}
}

// basisRotation returns the rotation whose local -Z axis is lookAt and Y axis is up.
// Both must be unit length and orthogonal.
func basisRotation(lookAt, up mgl64.Vec3) mgl64.Quat {
	right := lookAt.Cross(up)
	basis := mgl64.Mat3FromCols(right, up, lookAt.Mul(-1))

	return mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
}

// SetPose replaces position, rotation and scale with the pose
func (t *Transform) SetPose(pose Pose) {
	t.position = pose.Position
	t.rotation = pose.Rotation.Normalize()
	t.scale = mgl64.Vec3{pose.Scale, pose.Scale, pose.Scale}
	t.dirty = true
}
