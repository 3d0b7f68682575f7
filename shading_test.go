package lumen

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func closeEnough(a, b, eps float32) bool {
	return abs32(a-b) <= eps
}

func vecCloseEnough(a, b mgl32.Vec3, eps float32) bool {
	return closeEnough(a[0], b[0], eps) && closeEnough(a[1], b[1], eps) && closeEnough(a[2], b[2], eps)
}

func testSample(mat Material) SurfaceSample {
	return NewSurfaceSample(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 0, 1},
		mgl32.Vec3{0, 0, 1}, // camera on the normal
		mat,
	)
}

func TestEvaluateLightBackfacingIsZero(t *testing.T) {
	s := testSample(Material{BaseColor: mgl32.Vec3{1, 1, 1}, Metallic: 0, Roughness: 0.5})

	directions := []mgl32.Vec3{
		{1, 0, 0},                          // exactly grazing
		mgl32.Vec3{1, 0, -1}.Normalize(),   // below the horizon
		mgl32.Vec3{0, 1, -0.1}.Normalize(), // slightly below
		mgl32.Vec3{0.3, 0.2, -1}.Normalize(),
	}
	for _, dir := range directions {
		got := EvaluateLight(mgl32.Vec3{5, 5, 5}, dir, s)
		if got != (mgl32.Vec3{0, 0, 0}) {
			t.Errorf("light from %v should contribute exactly zero, got %v", dir, got)
		}
	}
}

func TestDistributionProperties(t *testing.T) {
	n := mgl32.Vec3{0, 0, 1}
	r := float32(0.25)

	// Non-negative everywhere, exactly zero at and below the horizon.
	for _, h := range []mgl32.Vec3{
		{0, 0, 1},
		mgl32.Vec3{1, 0, 1}.Normalize(),
		{1, 0, 0},
		{0, 0, -1},
	} {
		d := distributionGGX(n, h, r)
		if d < 0 {
			t.Errorf("distribution for h=%v is negative: %g", h, d)
		}
		if h.Dot(n) <= 0 && d != 0 {
			t.Errorf("distribution for back-facing h=%v should be 0, got %g", h, d)
		}
	}

	// Monotonically increasing toward the normal for fixed roughness.
	prev := float32(-1)
	for _, angle := range []float64{1.5, 1.0, 0.5, 0.1, 0.0} {
		h := mgl32.Vec3{float32(math.Sin(angle)), 0, float32(math.Cos(angle))}
		d := distributionGGX(n, h, r)
		if d < prev {
			t.Errorf("distribution should grow toward NdotH=1, got %g after %g", d, prev)
		}
		prev = d
	}

	// Peak value at NdotH=1 is r / (pi * r^2) = 1/(pi*r).
	peak := distributionGGX(n, mgl32.Vec3{0, 0, 1}, r)
	want := 1 / (math.Pi * r)
	if !closeEnough(peak, want, 1e-5) {
		t.Errorf("peak distribution = %g, want %g", peak, want)
	}
}

func TestGeometryVisibility(t *testing.T) {
	n := mgl32.Vec3{0, 0, 1}
	v := mgl32.Vec3{0, 0, 1}

	// Head-on, r=0: denominator mix(2,2,0)=2.
	g := geometryVisibility(mgl32.Vec3{0, 0, 1}, n, v, 0)
	if !closeEnough(g, 0.25, 1e-6) {
		t.Errorf("head-on visibility = %g, want 0.25", g)
	}

	// Grazing light: the 0.01 floor caps the term at 50.
	g = geometryVisibility(mgl32.Vec3{1, 0, 0}, n, v, 0)
	if !closeEnough(g, 50, 1e-3) {
		t.Errorf("grazing visibility = %g, want 50", g)
	}

	// The formula uses absolute values, not zero clamps.
	below := geometryVisibility(mgl32.Vec3{0, 0, -1}, n, v, 0.5)
	above := geometryVisibility(mgl32.Vec3{0, 0, 1}, n, v, 0.5)
	if !closeEnough(below, above, 1e-6) {
		t.Errorf("|NdotL| should make mirrored directions equal: %g vs %g", below, above)
	}
}

func TestPointLightInverseSquare(t *testing.T) {
	s := testSample(Material{BaseColor: mgl32.Vec3{1, 1, 1}, Metallic: 0, Roughness: 0.5})
	flux := mgl32.Vec3{100, 100, 100}

	near := Shade(s, []Light{NewPointLight(mgl32.Vec3{0, 0, 2}, flux)})
	far := Shade(s, []Light{NewPointLight(mgl32.Vec3{0, 0, 4}, flux)})

	for i := 0; i < 3; i++ {
		ratio := near[i] / far[i]
		if !closeEnough(ratio, 4, 1e-3) {
			t.Errorf("channel %d: doubling distance should quarter radiance, ratio = %g", i, ratio)
		}
	}
}

// Closed-form scenario: surface at origin, n = v = l = +z, white dielectric,
// roughness 0.5, unit irradiance.
func TestShadeClosedForm(t *testing.T) {
	s := testSample(Material{BaseColor: mgl32.Vec3{1, 1, 1}, Metallic: 0, Roughness: 0.5})
	lights := []Light{NewDirectionalLight(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 1, 1})}

	// NdotL = NdotH = 1, so both Fresnel factors collapse to F0 = 0.03.
	// reflected = 0.03, diffuse = 0.97/pi.
	// G = 0.5/mix(2, 2, 0.25) = 0.25; D = 0.25/(pi*0.25^2) = 4/pi.
	// specular = 0.03 * 0.03 * 0.25 * 4/pi = 0.0009/pi.
	want := float32((0.97 + 0.0009) / math.Pi)

	got := Shade(s, lights)
	if !vecCloseEnough(got, mgl32.Vec3{want, want, want}, 1e-5) {
		t.Errorf("radiance = %v, want %g per channel", got, want)
	}

	mapped := ToneMap(got)
	wantMapped := want / (1 + want)
	for i := 0; i < 3; i++ {
		if !closeEnough(mapped[i], wantMapped, 1e-5) {
			t.Errorf("tone-mapped channel %d = %g, want %g", i, mapped[i], wantMapped)
		}
	}
	if mapped[3] != 1 {
		t.Errorf("alpha = %g, want 1", mapped[3])
	}
}

func TestShadeOrderIndependent(t *testing.T) {
	s := testSample(Material{BaseColor: mgl32.Vec3{0.8, 0.6, 0.4}, Metallic: 0.3, Roughness: 0.4})
	a := NewDirectionalLight(mgl32.Vec3{-1, -1, 0}.Normalize(), mgl32.Vec3{10.1, 10.1, 10.1})
	b := NewPointLight(mgl32.Vec3{0.1, -3, -3}, mgl32.Vec3{100, 100, 100})
	c := NewPointLight(mgl32.Vec3{2, 1, 3}, mgl32.Vec3{40, 20, 10})

	fwd := Shade(s, []Light{a, b, c})
	rev := Shade(s, []Light{c, b, a})
	if !vecCloseEnough(fwd, rev, 1e-5) {
		t.Errorf("accumulation should commute: %v vs %v", fwd, rev)
	}
}

// A light coincident with the surface is an allowed degeneracy: infinite
// irradiance propagates to the output instead of being clamped.
func TestZeroDistancePointLightPropagates(t *testing.T) {
	s := testSample(Material{BaseColor: mgl32.Vec3{1, 1, 1}, Metallic: 0, Roughness: 0.5})
	got := Shade(s, []Light{NewPointLight(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{100, 100, 100})})

	for i := 0; i < 3; i++ {
		v := float64(got[i])
		if !math.IsInf(v, 1) && !math.IsNaN(v) {
			t.Errorf("channel %d should be +Inf or NaN, got %g", i, v)
		}
	}
}

func TestSurfaceSampleNormalization(t *testing.T) {
	s := NewSurfaceSample(
		mgl32.Vec3{1, 2, 3},
		mgl32.Vec3{0, 0, 10}, // unnormalized normal
		mgl32.Vec3{1, 2, 8},
		DefaultMaterial(),
	)
	if !closeEnough(s.Normal.Len(), 1, 1e-6) {
		t.Errorf("normal should be renormalized, |n| = %g", s.Normal.Len())
	}
	if !vecCloseEnough(s.ViewDir, mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("view direction = %v, want +z", s.ViewDir)
	}
}
