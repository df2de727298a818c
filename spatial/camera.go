package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera holds the view parameters a Frustum is built from.
// Forward, Right and Up must form an orthonormal right-handed basis (Right = Forward × Up).
// FovY is the vertical field of view, in radians.
type Camera struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Right    mgl64.Vec3
	Up       mgl64.Vec3

	FovY   float64
	Aspect float64
	Near   float64
	Far    float64
}

// NewCameraLookAt creates a camera at position looking at target
func NewCameraLookAt(position, target, worldUp mgl64.Vec3, fovY, aspect, near, far float64) Camera {
	c := Camera{
		Position: position,
		FovY:     fovY,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
	c.orient(target.Sub(position), worldUp)

	return c
}

// NewCameraYawPitch creates a camera oriented by Euler angles given in degrees.
// A yaw of -90 with a pitch of 0 looks down -Z.
func NewCameraYawPitch(position mgl64.Vec3, yaw, pitch float64, worldUp mgl64.Vec3, fovY, aspect, near, far float64) Camera {
	c := Camera{
		Position: position,
		FovY:     fovY,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
	c.SetYawPitch(yaw, pitch, worldUp)

	return c
}

// SetYawPitch re-orients the camera, keeping its position and projection
func (c *Camera) SetYawPitch(yaw, pitch float64, worldUp mgl64.Vec3) {
	yawRad := mgl64.DegToRad(yaw)
	pitchRad := mgl64.DegToRad(pitch)

	front := mgl64.Vec3{
		math.Cos(yawRad) * math.Cos(pitchRad),
		math.Sin(pitchRad),
		math.Sin(yawRad) * math.Cos(pitchRad),
	}
	c.orient(front, worldUp)
}

// YawPitch returns the Euler angles of Forward, in degrees, as taken by SetYawPitch
func (c Camera) YawPitch() (yaw, pitch float64) {
	yaw = mgl64.RadToDeg(math.Atan2(c.Forward.Z(), c.Forward.X()))
	pitch = mgl64.RadToDeg(math.Asin(mgl64.Clamp(c.Forward.Y(), -1, 1)))

	return yaw, pitch
}

func (c *Camera) orient(front, worldUp mgl64.Vec3) {
	c.Forward = front.Normalize()
	c.Right = c.Forward.Cross(worldUp).Normalize()
	c.Up = c.Right.Cross(c.Forward).Normalize()
}

// ViewMatrix returns the world-to-camera matrix
func (c Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Forward), c.Up)
}

// ProjectionMatrix returns the perspective projection matrix
func (c Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Frustum builds the view volume of the camera in its current state
func (c Camera) Frustum() Frustum {
	return NewFrustum(c)
}
