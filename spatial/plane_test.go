package spatial

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// Helper functions
func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func mat4Equal(a, b mgl64.Mat4, tolerance float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) >= tolerance {
				return false
			}
		}
	}
	return true
}

func TestNewPlane_NormalizesNormal(t *testing.T) {
	tests := []struct {
		name   string
		point  mgl64.Vec3
		normal mgl64.Vec3
	}{
		{"unit normal", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{"long normal", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 10}},
		{"diagonal normal", mgl64.Vec3{-4, 5, 1}, mgl64.Vec3{1, 1, 1}},
		{"negative normal", mgl64.Vec3{0, 0, 100}, mgl64.Vec3{0, 0, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane := NewPlane(tt.point, tt.normal)

			if !floatEqual(plane.Normal.Len(), 1.0, 1e-12) {
				t.Errorf("Normal length = %v, want 1", plane.Normal.Len())
			}
			if plane.Normal.Dot(tt.normal) <= 0 {
				t.Errorf("Normal %v does not face %v", plane.Normal, tt.normal)
			}
			if !floatEqual(plane.Distance, tt.point.Dot(plane.Normal), 1e-12) {
				t.Errorf("Distance = %v, want %v", plane.Distance, tt.point.Dot(plane.Normal))
			}
		})
	}
}

func TestPlane_SignedDistanceOnPlane(t *testing.T) {
	plane := NewPlane(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{2, -1, 0.5})

	// any point p + t1*u + t2*v with u, v orthogonal to the normal lies on the plane
	u, v := tangents(plane.Normal)
	for _, t1 := range []float64{-100, -1, 0, 0.5, 42} {
		for _, t2 := range []float64{-7, 0, 3.25, 1000} {
			p := mgl64.Vec3{1, 2, 3}.Add(u.Mul(t1)).Add(v.Mul(t2))
			if d := plane.SignedDistance(p); !floatEqual(d, 0, 1e-9) {
				t.Errorf("SignedDistance(%v) = %v, want 0", p, d)
			}
		}
	}
}

func TestPlane_SignedDistanceSides(t *testing.T) {
	plane := NewPlane(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 1, 0})

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  float64
	}{
		{"above", mgl64.Vec3{3, 8, -2}, 3},
		{"below", mgl64.Vec3{0, 1, 0}, -4},
		{"on", mgl64.Vec3{100, 5, 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := plane.SignedDistance(tt.point); !floatEqual(d, tt.want, 1e-12) {
				t.Errorf("SignedDistance() = %v, want %v", d, tt.want)
			}
		})
	}
}

func TestPlane_IsSphereOutside(t *testing.T) {
	plane := NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})

	tests := []struct {
		name   string
		center mgl64.Vec3
		radius float64
		want   bool
	}{
		{"fully inside", mgl64.Vec3{5, 0, 0}, 1, false},
		{"straddling", mgl64.Vec3{-0.5, 0, 0}, 1, false},
		{"touching from behind", mgl64.Vec3{-1, 0, 0}, 1, false},
		{"fully behind", mgl64.Vec3{-1.5, 0, 0}, 1, true},
		{"zero radius behind", mgl64.Vec3{-0.001, 0, 0}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plane.IsSphereOutside(tt.center, tt.radius); got != tt.want {
				t.Errorf("IsSphereOutside() = %v, want %v", got, tt.want)
			}
		})
	}
}

func tangents(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var u mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		u = mgl64.Vec3{0, 1, 0}
	} else {
		u = mgl64.Vec3{1, 0, 0}
	}
	u = u.Sub(normal.Mul(u.Dot(normal))).Normalize()

	return u, normal.Cross(u).Normalize()
}
