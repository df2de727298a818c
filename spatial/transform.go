package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a position, orientation and scale relative to a parent,
// plus the cached world matrix derived from them.
// Every mutation marks the transform dirty; the world matrix is only valid while it is clean.
type Transform struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3

	world mgl64.Mat4
	dirty bool
}

// NewTransform creates an identity transform, dirty until its first world computation
func NewTransform() Transform {
	return Transform{
		position: mgl64.Vec3{0, 0, 0},
		rotation: mgl64.QuatIdent(),
		scale:    mgl64.Vec3{1, 1, 1},
		world:    mgl64.Ident4(),
		dirty:    true,
	}
}

func (t *Transform) Position() mgl64.Vec3 {
	return t.position
}

func (t *Transform) Rotation() mgl64.Quat {
	return t.rotation
}

func (t *Transform) Scale() mgl64.Vec3 {
	return t.scale
}

func (t *Transform) SetPosition(position mgl64.Vec3) {
	t.position = position
	t.dirty = true
}

// SetRotation stores the normalized quaternion
func (t *Transform) SetRotation(rotation mgl64.Quat) {
	t.rotation = rotation.Normalize()
	t.dirty = true
}

func (t *Transform) SetScale(scale mgl64.Vec3) {
	t.scale = scale
	t.dirty = true
}

// Translate moves the transform by offset, in parent space
func (t *Transform) Translate(offset mgl64.Vec3) {
	t.SetPosition(t.position.Add(offset))
}

// Rotate applies an additional rotation of angle radians around axis
func (t *Transform) Rotate(angle float64, axis mgl64.Vec3) {
	t.SetRotation(mgl64.QuatRotate(angle, axis.Normalize()).Mul(t.rotation))
}

func (t *Transform) IsDirty() bool {
	return t.dirty
}

func (t *Transform) MarkDirty() {
	t.dirty = true
}

// LocalMatrix composes translation * rotation * scale (TRS)
func (t *Transform) LocalMatrix() mgl64.Mat4 {
	translate := mgl64.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
	rotate := t.rotation.Mat4()
	scale := mgl64.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// ComputeWorldMatrix caches parent * local as the world matrix and clears the dirty flag
func (t *Transform) ComputeWorldMatrix(parent mgl64.Mat4) {
	t.world = parent.Mul4(t.LocalMatrix())
	t.dirty = false
}

// ComputeLocalWorldMatrix is ComputeWorldMatrix for a transform without parent
func (t *Transform) ComputeLocalWorldMatrix() {
	t.world = t.LocalMatrix()
	t.dirty = false
}

// WorldMatrix returns the cached world matrix, stale while IsDirty is true
func (t *Transform) WorldMatrix() mgl64.Mat4 {
	return t.world
}

// WorldPosition returns the translation part of the cached world matrix
func (t *Transform) WorldPosition() mgl64.Vec3 {
	return t.world.Col(3).Vec3()
}

// TransformPoint maps a local-space point to world space with the cached world matrix
func (t *Transform) TransformPoint(point mgl64.Vec3) mgl64.Vec3 {
	return t.world.Mul4x1(point.Vec4(1)).Vec3()
}

// MaxScale returns the largest axis scale factor of m's upper 3x3 part.
// A radius multiplied by it bounds the transformed shape, even with non-uniform scale.
func MaxScale(m mgl64.Mat4) float64 {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()

	return math.Max(sx, math.Max(sy, sz))
}
