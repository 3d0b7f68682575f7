package lumen

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Material is a metallic/roughness surface description. BaseColor is
// linear RGB; Metallic interpolates between dielectric and conductor
// response; Roughness is perceptual and squared before it reaches the
// microfacet terms.
type Material struct {
	BaseColor mgl32.Vec3
	Metallic  float32
	Roughness float32
}

var ErrMaterialRange = errors.New("lumen: material parameter out of range")

// Validate checks the [0,1] range contract on every parameter. The shading
// kernel itself performs no such checks; callers validate before a batch.
func (m Material) Validate() error {
	for i, c := range m.BaseColor {
		if c < 0 || c > 1 {
			return fmt.Errorf("%w: base color[%d] = %g", ErrMaterialRange, i, c)
		}
	}
	if m.Metallic < 0 || m.Metallic > 1 {
		return fmt.Errorf("%w: metallic = %g", ErrMaterialRange, m.Metallic)
	}
	if m.Roughness < 0 || m.Roughness > 1 {
		return fmt.Errorf("%w: roughness = %g", ErrMaterialRange, m.Roughness)
	}
	return nil
}

// DefaultMaterial is a fully rough white dielectric.
func DefaultMaterial() Material {
	return Material{
		BaseColor: mgl32.Vec3{1, 1, 1},
		Metallic:  0,
		Roughness: 1,
	}
}
