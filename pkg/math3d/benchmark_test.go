package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMVP(b *testing.B) {
	// One vertex through model, view and projection, as the vertex stage does
	model := RotateY(0.5)
	view := LookAt(V3(0, 0, 3.5), Zero3(), Up())
	proj := Perspective(math.Pi/4, 4.0/3.0, 0.1, 100)
	v := V4(0.3, 0.4, 0.866, 1)

	for b.Loop() {
		_ = proj.MulVec4(view.MulVec4(model.MulVec4(v)))
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkLookAt(b *testing.B) {
	eye := V3(0, 0, 10)
	target := V3(0, 0, 0)
	up := V3(0, 1, 0)

	for b.Loop() {
		_ = LookAt(eye, target, up)
	}
}
