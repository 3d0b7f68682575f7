package lumen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SurfaceSample is the per-fragment input to the shading pipeline. It is
// built fresh for every fragment and never mutated afterwards.
type SurfaceSample struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3 // unit
	ViewDir  mgl32.Vec3 // unit, surface -> camera
	Material Material
}

// NewSurfaceSample renormalizes the interpolated normal and derives the
// view direction from the camera position.
func NewSurfaceSample(position, normal, cameraPos mgl32.Vec3, mat Material) SurfaceSample {
	return SurfaceSample{
		Position: position,
		Normal:   normal.Normalize(),
		ViewDir:  cameraPos.Sub(position).Normalize(),
		Material: mat,
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func mix32(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

func mixVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{mix32(a[0], b[0], t), mix32(a[1], b[1], t), mix32(a[2], b[2], t)}
}

// mulElem is the Hadamard product; mgl32 only ships scalar Mul.
func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}

// distributionGGX is the Trowbridge-Reitz microfacet distribution.
// roughness2 is the perceptual roughness already squared. Back-facing
// half-vectors (NdotH <= 0) contribute nothing; the formula is only valid
// under that clamp.
func distributionGGX(n, h mgl32.Vec3, roughness2 float32) float32 {
	ndoth := h.Dot(n)
	if ndoth <= 0 {
		return 0
	}
	d := 1 + ndoth*ndoth*(roughness2-1)
	return roughness2 / (math.Pi * d * d)
}

// geometryVisibility is a single-term visibility approximation, not the
// product of two Smith masking/shadowing factors. NdotL and NdotV use
// absolute values to mask sign flips at grazing angles, and the 0.01 floor
// keeps the division finite.
func geometryVisibility(l, n, v mgl32.Vec3, roughness2 float32) float32 {
	ndotl := abs32(n.Dot(l))
	ndotv := abs32(n.Dot(v))
	den := mix32(2*ndotl*ndotv, ndotl+ndotv, roughness2)
	if den < 0.01 {
		den = 0.01
	}
	return 0.5 / den
}

// dielectricF0 is the base reflectance of a non-metal at normal incidence.
const dielectricF0 = 0.03

// EvaluateLight returns the outgoing radiance toward the viewer contributed
// by one light: Cook-Torrance specular (distribution * visibility * Fresnel)
// plus a Lambertian diffuse lobe fed by the refracted, non-metallic share of
// the incident light. irradiance is the light's incident irradiance at the
// surface (perpendicular), dirToLight the unit direction from the surface
// toward the light.
func EvaluateLight(irradiance, dirToLight mgl32.Vec3, s SurfaceSample) mgl32.Vec3 {
	n := s.Normal
	v := s.ViewDir
	l := dirToLight
	roughness2 := s.Material.Roughness * s.Material.Roughness

	ndotl := n.Dot(l)
	if ndotl < 0 {
		ndotl = 0
	}
	irradianceOnSurface := irradiance.Mul(ndotl)

	one := mgl32.Vec3{1, 1, 1}
	f0 := mixVec3(mgl32.Vec3{dielectricF0, dielectricF0, dielectricF0},
		s.Material.BaseColor, s.Material.Metallic)
	oneMinusF0 := one.Sub(f0)

	// Schlick Fresnel at the light angle splits the incident light into a
	// reflected and a refracted share.
	reflected := mulElem(f0.Add(oneMinusF0.Mul(pow5(1-ndotl))), irradianceOnSurface)
	refracted := irradianceOnSurface.Sub(reflected)
	refractedNotAbsorbed := refracted.Mul(1 - s.Material.Metallic)

	h := v.Add(l).Normalize()
	ndoth := n.Dot(h)
	if ndoth < 0 {
		ndoth = 0
	}
	// Fresnel again, at the half-vector angle, for the specular lobe.
	fresnel := f0.Add(oneMinusF0.Mul(pow5(1 - ndoth)))
	specular := mulElem(reflected, fresnel).
		Mul(geometryVisibility(l, n, v, roughness2) * distributionGGX(n, h, roughness2))

	diffuse := mulElem(refractedNotAbsorbed, s.Material.BaseColor).Mul(1.0 / math.Pi)
	return diffuse.Add(specular)
}

// Shade accumulates the radiance of every light in the list at the sample.
// Point lights derive their direction and inverse-square irradiance from
// the sample position; a light coincident with the surface yields infinite
// irradiance, which propagates unclamped.
func Shade(s SurfaceSample, lights []Light) mgl32.Vec3 {
	var total mgl32.Vec3
	for _, light := range lights {
		switch light.Type {
		case LightTypeDirectional:
			dl := light.Directional
			total = total.Add(EvaluateLight(dl.Irradiance, dl.Direction.Normalize(), s))
		case LightTypePoint:
			pl := light.Point
			toLight := pl.Position.Sub(s.Position)
			d := toLight.Len()
			dir := toLight.Mul(1 / d)
			irradiance := pl.LuminousFlux.Mul(1 / (4 * math.Pi * d * d))
			total = total.Add(EvaluateLight(irradiance, dir, s))
		}
	}
	return total
}
