package lumen

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType uint32

const (
	LightTypeDirectional LightType = 0
	LightTypePoint       LightType = 1
)

// DirectionalLight illuminates every surface from the same direction,
// like the sun. Direction points from the surface toward the light.
type DirectionalLight struct {
	Direction  mgl32.Vec3
	Irradiance mgl32.Vec3 // RGB, >= 0
}

// PointLight emits LuminousFlux uniformly in all directions from Position.
// Irradiance at a surface falls off with the square of the distance.
type PointLight struct {
	Position     mgl32.Vec3
	LuminousFlux mgl32.Vec3 // RGB, >= 0
}

// Light is a tagged variant over the supported light kinds. The tag is
// resolved once when the light is constructed or decoded; the shading loop
// switches on it without any interface dispatch.
type Light struct {
	Type        LightType
	Directional DirectionalLight
	Point       PointLight
}

func NewDirectionalLight(direction, irradiance mgl32.Vec3) Light {
	return Light{
		Type:        LightTypeDirectional,
		Directional: DirectionalLight{Direction: direction, Irradiance: irradiance},
	}
}

func NewPointLight(position, luminousFlux mgl32.Vec3) Light {
	return Light{
		Type:  LightTypePoint,
		Point: PointLight{Position: position, LuminousFlux: luminousFlux},
	}
}

// LightManager owns the host-side light list for a scene. Directional
// lights are kept apart from point lights so the packed buffer layout
// (directional entries first) holds without sorting.
type LightManager struct {
	directional []DirectionalLight
	point       []PointLight
}

func NewLightManager() *LightManager {
	return &LightManager{}
}

func (lm *LightManager) AddLight(l Light) {
	switch l.Type {
	case LightTypeDirectional:
		lm.directional = append(lm.directional, l.Directional)
	case LightTypePoint:
		lm.point = append(lm.point, l.Point)
	}
}

func (lm *LightManager) NumDirectional() int { return len(lm.directional) }
func (lm *LightManager) NumPoint() int       { return len(lm.point) }

// Lights returns the light list in buffer order: directional first, then
// point. This is the static construction path for fixed scenes; buffer-fed
// scenes go through PackBuffer/DecodeLightBuffer instead.
func (lm *LightManager) Lights() []Light {
	lights := make([]Light, 0, len(lm.directional)+len(lm.point))
	for _, dl := range lm.directional {
		lights = append(lights, Light{Type: LightTypeDirectional, Directional: dl})
	}
	for _, pl := range lm.point {
		lights = append(lights, Light{Type: LightTypePoint, Point: pl})
	}
	return lights
}

// LightBuffer is the packed, shared, read-only form of a light list as it
// crosses the host/shading boundary. The header counts are stored as
// float32 (the buffer is a homogeneous float array on the device side) and
// truncated to integers on read. Entries holds two consecutive vec3s per
// light: (direction, irradiance) for each directional light, then
// (position, luminous flux) for each point light.
type LightBuffer struct {
	NumDirectional float32
	NumPoint       float32
	Entries        []mgl32.Vec3
}

var (
	ErrNegativeLightCount = errors.New("lumen: negative light count")
	ErrLightBufferSize    = errors.New("lumen: light buffer size mismatch")
)

// PackBuffer serializes the current light list. The result round-trips
// through DecodeLightBuffer.
func (lm *LightManager) PackBuffer() LightBuffer {
	entries := make([]mgl32.Vec3, 0, 2*(len(lm.directional)+len(lm.point)))
	for _, dl := range lm.directional {
		entries = append(entries, dl.Direction, dl.Irradiance)
	}
	for _, pl := range lm.point {
		entries = append(entries, pl.Position, pl.LuminousFlux)
	}
	return LightBuffer{
		NumDirectional: float32(len(lm.directional)),
		NumPoint:       float32(len(lm.point)),
		Entries:        entries,
	}
}

// DecodeLightBuffer validates and decodes a packed light buffer into an
// ordered light list. The buffer must hold exactly 2*(numDirectional +
// numPoint) entries; light physical values are passed through unclamped.
func DecodeLightBuffer(buf LightBuffer) ([]Light, error) {
	if buf.NumDirectional < 0 || buf.NumPoint < 0 {
		return nil, fmt.Errorf("%w: directional=%g point=%g",
			ErrNegativeLightCount, buf.NumDirectional, buf.NumPoint)
	}
	nd := int(buf.NumDirectional)
	np := int(buf.NumPoint)
	if want := 2 * (nd + np); len(buf.Entries) != want {
		return nil, fmt.Errorf("%w: have %d entries, want %d",
			ErrLightBufferSize, len(buf.Entries), want)
	}

	lights := make([]Light, 0, nd+np)
	for i := 0; i < nd; i++ {
		lights = append(lights, NewDirectionalLight(buf.Entries[2*i], buf.Entries[2*i+1]))
	}
	base := 2 * nd
	for i := 0; i < np; i++ {
		lights = append(lights, NewPointLight(buf.Entries[base+2*i], buf.Entries[base+2*i+1]))
	}
	return lights, nil
}
