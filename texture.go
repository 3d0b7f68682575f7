package lumen

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

// Texture holds RGBA8 texels ready for sampling or upload.
type Texture struct {
	Width  uint32
	Height uint32
	Texels []byte // RGBA8, row-major
}

// LoadTexture decodes an image file and resamples it to the next
// power-of-two extent so the GPU path gets mip-friendly dimensions.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lumen: open texture: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("lumen: decode texture %q: %w", path, err)
	}
	return NewTextureFromImage(src), nil
}

// NewTextureFromImage converts and, if needed, rescales an image into a
// power-of-two RGBA texture.
func NewTextureFromImage(src image.Image) *Texture {
	b := src.Bounds()
	w := nextPow2(b.Dx())
	h := nextPow2(b.Dy())

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), src, b, xdraw.Src, nil)
	}

	return &Texture{
		Width:  uint32(w),
		Height: uint32(h),
		Texels: rgba.Pix,
	}
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Sample fetches the nearest texel for normalized coordinates and returns
// linear RGB in [0,1]. Coordinates outside [0,1] wrap.
func (t *Texture) Sample(u, v float32) mgl32.Vec3 {
	u -= float32(int(u))
	if u < 0 {
		u += 1
	}
	v -= float32(int(v))
	if v < 0 {
		v += 1
	}

	x := uint32(u * float32(t.Width))
	if x >= t.Width {
		x = t.Width - 1
	}
	y := uint32(v * float32(t.Height))
	if y >= t.Height {
		y = t.Height - 1
	}

	i := (y*t.Width + x) * 4
	return mgl32.Vec3{
		float32(t.Texels[i]) / 255.0,
		float32(t.Texels[i+1]) / 255.0,
		float32(t.Texels[i+2]) / 255.0,
	}
}
