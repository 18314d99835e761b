package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	got := Translate(Vec3{10, 20, 30}).TransformPoint(Vec3{1, 2, 3})
	if want := (Vec3{11, 22, 33}); got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}

	got = Scale(Vec3{2, 2, 2}).TransformPoint(Vec3{1, 2, 3})
	if want := (Vec3{2, 4, 6}); got != want {
		t.Errorf("TransformPoint with scale: got %v, want %v", got, want)
	}
}

func TestQuatMatrixRotatesPoint(t *testing.T) {
	result := QuatFromAxisAngle(UnitY, math.Pi/2).ToMat4().TransformPoint(UnitX)

	// (1,0,0) turns to (0,0,-1)
	if math.Abs(result.X) > 1e-9 || math.Abs(result.Y) > 1e-9 || math.Abs(result.Z+1) > 1e-9 {
		t.Errorf("rotate Y 90: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspectiveMatchesMathGL(t *testing.T) {
	fov := math.Pi / 4
	m := Perspective(fov, 16.0/9.0, 0.1, 100)
	ref := mgl64.Perspective(fov, 16.0/9.0, 0.1, 100)

	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-ref[i]) > 1e-9 {
			t.Errorf("Perspective[%d] = %v, mathgl = %v", i, m[i], ref[i])
		}
	}
	if m[11] != -1 || m[15] != 0 {
		t.Errorf("Perspective should have [11]=-1 and [15]=0, got %v and %v", m[11], m[15])
	}
}

func TestLookAtMatchesMathGL(t *testing.T) {
	eye := Vec3{3, 4, 5}
	center := Vec3{0, 1, -2}
	up := UnitY

	m := LookAt(eye, center, up)
	ref := mgl64.LookAtV(mgl64.Vec3{eye.X, eye.Y, eye.Z}, mgl64.Vec3{center.X, center.Y, center.Z}, mgl64.Vec3{0, 1, 0})

	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-ref[i]) > 1e-9 {
			t.Errorf("LookAt[%d] = %v, mathgl = %v", i, m[i], ref[i])
		}
	}

	// Eye maps to the origin in view space
	if p := m.TransformPoint(eye); p.Length() > 1e-9 {
		t.Errorf("LookAt should map eye to origin, got %v", p)
	}
}

func TestMat3Inverse(t *testing.T) {
	m := QuatFromAxisAngle(UnitY, 1.1).ToMat4().Mul(Scale(Vec3{2, 1, 0.5})).Mat3()
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	p := m.Mul(inv)
	id := Identity3()
	for i := range p {
		if math.Abs(p[i]-id[i]) > 1e-9 {
			t.Fatalf("M3 * M3^-1 element %d = %v, want %v", i, p[i], id[i])
		}
	}

	if _, ok := (Mat3{}).Inverse(); ok {
		t.Error("zero matrix should not be invertible")
	}
}

func TestNormalMatrixKeepsNormalsPerpendicular(t *testing.T) {
	model := Scale(Vec3{4, 1, 1})
	tangent := Vec3{1, 1, 0}
	normal := Vec3{1, -1, 0}

	tt := model.Mat3().MulVec3(tangent)
	nn := NormalMatrix(model).MulVec3(normal)
	if d := tt.Dot(nn); math.Abs(d) > 1e-12 {
		t.Errorf("transformed normal not perpendicular to transformed tangent: dot = %v", d)
	}
}

func TestFloat32(t *testing.T) {
	f := Translate(Vec3{1, 2, 3}).Float32()
	if f[12] != 1 || f[13] != 2 || f[14] != 3 || f[15] != 1 {
		t.Errorf("Float32 translation column = %v", f[12:])
	}
}
