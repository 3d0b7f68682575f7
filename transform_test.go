package lumen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformInverse(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{10, 20, 30}
	tr.Rotation = mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0})
	tr.Scale = mgl32.Vec3{2, 3, 4}

	identity := tr.ObjectToWorld().Mul4(tr.WorldToObject())
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			want := float32(0)
			if row == col {
				want = 1
			}
			if !closeEnough(identity.At(row, col), want, 1e-4) {
				t.Errorf("identity[%d,%d] = %g, want %g", row, col, identity.At(row, col), want)
			}
		}
	}
}

func TestTransformPoint(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 0, 0}
	tr.Scale = mgl32.Vec3{0.5, 0.5, 0.5}

	p := tr.ObjectToWorld().Mul4x1(mgl32.Vec4{2, 0, 0, 1}).Vec3()
	if !vecCloseEnough(p, mgl32.Vec3{2, 0, 0}, 1e-6) {
		t.Errorf("transformed point = %v, want (2,0,0)", p)
	}
}

// Non-uniform scale must not skew normals: a normal transformed with the
// inverse transpose stays perpendicular to the transformed surface.
func TestNormalMatrixNonUniformScale(t *testing.T) {
	tr := NewTransform()
	tr.Scale = mgl32.Vec3{4, 1, 1}

	// Surface tangent along x, normal diagonal in xy.
	normal := mgl32.Vec3{1, 1, 0}.Normalize()
	tangent := mgl32.Vec3{1, -1, 0}.Normalize()

	worldNormal := tr.NormalMatrix().Mul4x1(normal.Vec4(0)).Vec3().Normalize()
	worldTangent := tr.ObjectToWorld().Mul4x1(tangent.Vec4(0)).Vec3()

	if !closeEnough(worldNormal.Dot(worldTangent), 0, 1e-5) {
		t.Errorf("normal not perpendicular after transform: dot = %g",
			worldNormal.Dot(worldTangent))
	}

	// The naive model-matrix transform would fail this.
	naive := tr.ObjectToWorld().Mul4x1(normal.Vec4(0)).Vec3()
	if closeEnough(naive.Dot(worldTangent), 0, 1e-5) {
		t.Errorf("test surface too easy: naive transform also perpendicular")
	}
}

func TestInstanceData(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{0, 0, 5}

	inst := tr.InstanceData()
	if inst.ModelMatrix != tr.ObjectToWorld() {
		t.Errorf("instance model matrix mismatch")
	}
	if inst.NormalMatrix != tr.NormalMatrix() {
		t.Errorf("instance normal matrix mismatch")
	}
}
