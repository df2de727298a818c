package spatial

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewTransform_Identity(t *testing.T) {
	transform := NewTransform()

	if !transform.IsDirty() {
		t.Error("new transform should be dirty")
	}
	if !mat4Equal(transform.LocalMatrix(), mgl64.Ident4(), 1e-12) {
		t.Errorf("LocalMatrix() = %v, want identity", transform.LocalMatrix())
	}
}

func TestTransform_MutationsMarkDirty(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(tr *Transform)
	}{
		{"SetPosition", func(tr *Transform) { tr.SetPosition(mgl64.Vec3{1, 2, 3}) }},
		{"SetRotation", func(tr *Transform) { tr.SetRotation(mgl64.QuatRotate(1, mgl64.Vec3{0, 1, 0})) }},
		{"SetScale", func(tr *Transform) { tr.SetScale(mgl64.Vec3{2, 2, 2}) }},
		{"Translate", func(tr *Transform) { tr.Translate(mgl64.Vec3{0, 0, 1}) }},
		{"Rotate", func(tr *Transform) { tr.Rotate(0.5, mgl64.Vec3{1, 0, 0}) }},
		{"MarkDirty", func(tr *Transform) { tr.MarkDirty() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transform := NewTransform()
			transform.ComputeLocalWorldMatrix()
			if transform.IsDirty() {
				t.Fatal("transform should be clean after computing its world matrix")
			}

			tt.mutate(&transform)

			if !transform.IsDirty() {
				t.Errorf("%s did not mark the transform dirty", tt.name)
			}
		})
	}
}

func TestTransform_LocalMatrixIsTRS(t *testing.T) {
	transform := NewTransform()
	transform.SetPosition(mgl64.Vec3{1, 2, 3})
	transform.SetRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	transform.SetScale(mgl64.Vec3{2, 3, 4})

	// scale first, then rotate 90° around Z, then translate
	got := transform.LocalMatrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	want := mgl64.Vec3{1, 4, 3}
	if !vec3Equal(got, want, 1e-9) {
		t.Errorf("LocalMatrix * (1,0,0) = %v, want %v", got, want)
	}
}

func TestTransform_ComputeWorldMatrix(t *testing.T) {
	parent := NewTransform()
	parent.SetPosition(mgl64.Vec3{10, 0, 0})
	parent.SetScale(mgl64.Vec3{2, 2, 2})
	parent.ComputeLocalWorldMatrix()

	child := NewTransform()
	child.SetPosition(mgl64.Vec3{1, 1, 1})
	child.ComputeWorldMatrix(parent.WorldMatrix())

	if child.IsDirty() {
		t.Error("child should be clean")
	}
	if !vec3Equal(child.WorldPosition(), mgl64.Vec3{12, 2, 2}, 1e-12) {
		t.Errorf("WorldPosition() = %v, want (12,2,2)", child.WorldPosition())
	}
	if !vec3Equal(child.TransformPoint(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{14, 2, 2}, 1e-12) {
		t.Errorf("TransformPoint() = %v, want (14,2,2)", child.TransformPoint(mgl64.Vec3{1, 0, 0}))
	}
}

func TestTransform_SetRotationNormalizes(t *testing.T) {
	transform := NewTransform()
	transform.SetRotation(mgl64.Quat{W: 2, V: mgl64.Vec3{0, 0, 0}})

	if !floatEqual(transform.Rotation().Len(), 1, 1e-12) {
		t.Errorf("rotation length = %v, want 1", transform.Rotation().Len())
	}
}

func TestMaxScale(t *testing.T) {
	tests := []struct {
		name string
		m    mgl64.Mat4
		want float64
	}{
		{"identity", mgl64.Ident4(), 1},
		{"uniform", mgl64.Scale3D(3, 3, 3), 3},
		{"non uniform", mgl64.Scale3D(1, 5, 2), 5},
		{"translation ignored", mgl64.Translate3D(100, 200, 300), 1},
		{"rotation ignored", mgl64.HomogRotate3DY(1.2).Mul4(mgl64.Scale3D(0.5, 0.25, 4)), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxScale(tt.m); !floatEqual(got, tt.want, 1e-12) {
				t.Errorf("MaxScale() = %v, want %v", got, tt.want)
			}
		})
	}
}
