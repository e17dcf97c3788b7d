package math3d

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestMulIdentity(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateX(0.3))
	if got := Identity().Mul(m); got != m {
		t.Errorf("I*m = %v, want %v", got, m)
	}
	if got := m.Mul(Identity()); got != m {
		t.Errorf("m*I = %v, want %v", got, m)
	}
}

func TestRotateY(t *testing.T) {
	got := RotateY(math.Pi / 2).MulVec3Dir(V3(1, 0, 0))
	if !vecNear(got, V3(0, 0, -1), 1e-9) {
		t.Errorf("RotateY(pi/2) * +X = %v, want (0, 0, -1)", got)
	}
}

func TestMulVec3DirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(5, 6, 7))
	got := m.MulVec3Dir(V3(0, 1, 0))
	if got != V3(0, 1, 0) {
		t.Errorf("MulVec3Dir = %v, want (0, 1, 0)", got)
	}
	if p := m.MulVec3(V3(0, 1, 0)); p != V3(5, 7, 7) {
		t.Errorf("MulVec3 = %v, want (5, 7, 7)", p)
	}
}

func TestLookAt(t *testing.T) {
	view := LookAt(V3(0, 0, 5), Zero3(), Up())
	got := view.MulVec3(Zero3())
	if !vecNear(got, V3(0, 0, -5), 1e-9) {
		t.Errorf("origin in view space = %v, want (0, 0, -5)", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.1, 100.0
	proj := Perspective(math.Pi/4, 1, near, far)

	tests := []struct {
		name string
		z    float64
		ndc  float64
	}{
		{"near plane", -near, -1},
		{"far plane", -far, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := proj.MulVec4(V4(0, 0, tc.z, 1))
			if clip.W <= 0 {
				t.Fatalf("w = %v, want > 0 in front of the eye", clip.W)
			}
			if z := clip.PerspectiveDivide().Z; math.Abs(z-tc.ndc) > 1e-9 {
				t.Errorf("ndc z = %v, want %v", z, tc.ndc)
			}
		})
	}

	behind := proj.MulVec4(V4(0, 0, 1, 1))
	if behind.W >= 0 {
		t.Errorf("point behind the eye has w = %v, want < 0", behind.W)
	}
}

func TestGet(t *testing.T) {
	m := Translate(V3(4, 5, 6))
	if m.Get(0, 3) != 4 || m.Get(1, 3) != 5 || m.Get(2, 3) != 6 {
		t.Errorf("translation column = %v, %v, %v", m.Get(0, 3), m.Get(1, 3), m.Get(2, 3))
	}
}

func TestBarycentric(t *testing.T) {
	a, b, c := V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)
	if got := Barycentric(a, b, c, 0.2, 0.3, 0.5); !vecNear(got, V3(0.2, 0.3, 0.5), 1e-12) {
		t.Errorf("Barycentric = %v", got)
	}
}
