package lumen

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// FragmentBuffer is the prepared per-pixel input to a software shading
// pass: one world position and normal per pixel, with either a shared
// material or one material per pixel. It plays the role of the vertex/
// rasterizer stage output.
type FragmentBuffer struct {
	Width  int
	Height int

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3

	// Materials overrides Material per pixel when non-nil.
	Materials []Material
	Material  Material
}

func NewFragmentBuffer(width, height int, mat Material) *FragmentBuffer {
	n := width * height
	return &FragmentBuffer{
		Width:     width,
		Height:    height,
		Positions: make([]mgl32.Vec3, n),
		Normals:   make([]mgl32.Vec3, n),
		Material:  mat,
	}
}

func (fb *FragmentBuffer) validate() error {
	n := fb.Width * fb.Height
	if len(fb.Positions) != n || len(fb.Normals) != n {
		return fmt.Errorf("lumen: fragment buffer has %d positions, %d normals, want %d",
			len(fb.Positions), len(fb.Normals), n)
	}
	if fb.Materials != nil && len(fb.Materials) != n {
		return fmt.Errorf("lumen: fragment buffer has %d materials, want %d",
			len(fb.Materials), n)
	}
	return nil
}

// ShadePass runs the full shading pipeline (evaluate every light, tone map)
// once per pixel. Pixels are independent: no shared mutable state, no
// ordering guarantees between them. The light list must not change while a
// pass runs.
type ShadePass struct {
	CameraPosition mgl32.Vec3
	Lights         []Light

	// Workers caps the goroutine fan-out; 0 means one per CPU.
	Workers int
}

// Render shades every fragment into an RGBA image.
func (p *ShadePass) Render(fb *FragmentBuffer) (*image.RGBA, error) {
	if err := fb.validate(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	rows := make(chan int, fb.Height)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				p.shadeRow(fb, img, y)
			}
		}()
	}
	for y := 0; y < fb.Height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return img, nil
}

func (p *ShadePass) shadeRow(fb *FragmentBuffer, img *image.RGBA, y int) {
	for x := 0; x < fb.Width; x++ {
		i := y*fb.Width + x
		mat := fb.Material
		if fb.Materials != nil {
			mat = fb.Materials[i]
		}
		sample := NewSurfaceSample(fb.Positions[i], fb.Normals[i], p.CameraPosition, mat)
		color := ToneMap(Shade(sample, p.Lights))

		o := img.PixOffset(x, y)
		img.Pix[o+0] = toneByte(color[0])
		img.Pix[o+1] = toneByte(color[1])
		img.Pix[o+2] = toneByte(color[2])
		img.Pix[o+3] = toneByte(color[3])
	}
}

// toneByte quantizes one tone-mapped channel. NaN (a documented degeneracy,
// not masked by the tone mapper) lands at 0.
func toneByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
