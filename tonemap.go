package lumen

import "github.com/go-gl/mathgl/mgl32"

// ToneMap compresses unbounded linear radiance into a displayable color
// with the Reinhard operator L/(1+L), applied per channel. Finite
// non-negative input lands in [0,1); alpha is always 1. NaN input (for
// example from a zero-distance point light) passes through unmasked.
func ToneMap(radiance mgl32.Vec3) mgl32.Vec4 {
	return mgl32.Vec4{
		radiance[0] / (1 + radiance[0]),
		radiance[1] / (1 + radiance[1]),
		radiance[2] / (1 + radiance[2]),
		1,
	}
}
