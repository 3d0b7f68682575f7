package lumen

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places a model in the world.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

func (t *Transform) WorldToObject() mgl32.Mat4 {
	// inv(M) = inv(S) * inv(R) * inv(T), each component inverted cheaply.
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// NormalMatrix is the inverse transpose of the model matrix. Normals must
// be transformed with it so non-uniform scale does not skew them.
func (t *Transform) NormalMatrix() mgl32.Mat4 {
	return t.WorldToObject().Transpose()
}

// InstanceData is the per-instance payload consumed by the vertex stage.
type InstanceData struct {
	ModelMatrix  mgl32.Mat4
	NormalMatrix mgl32.Mat4
}

func (t *Transform) InstanceData() InstanceData {
	return InstanceData{
		ModelMatrix:  t.ObjectToWorld(),
		NormalMatrix: t.NormalMatrix(),
	}
}
