package lumen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free camera parameterized by a view direction and a "down"
// direction (Vulkan-style y-down clip space). The projection writes depth
// into [0,1].
type Camera struct {
	position      mgl32.Vec3
	viewDirection mgl32.Vec3 // unit
	downDirection mgl32.Vec3 // unit
	fovy          float32
	aspect        float32
	near          float32
	far           float32

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// CameraConfig holds optional camera parameters; zero values fall back to
// defaults (view toward +z, down toward +y, 60 degree fov, 800x600 aspect).
type CameraConfig struct {
	Position      mgl32.Vec3
	ViewDirection mgl32.Vec3
	DownDirection mgl32.Vec3
	Fovy          float32
	Aspect        float32
	Near          float32
	Far           float32
}

func NewCamera(cfg CameraConfig) *Camera {
	if cfg.ViewDirection.Len() == 0 {
		cfg.ViewDirection = mgl32.Vec3{0, 0, 1}
	}
	if cfg.DownDirection.Len() == 0 {
		cfg.DownDirection = mgl32.Vec3{0, 1, 0}
	}
	if cfg.Fovy == 0 {
		cfg.Fovy = math.Pi / 3
	}
	if cfg.Aspect == 0 {
		cfg.Aspect = 800.0 / 600.0
	}
	if cfg.Near == 0 {
		cfg.Near = 0.1
	}
	if cfg.Far == 0 {
		cfg.Far = 100.0
	}

	c := &Camera{
		position:      cfg.Position,
		viewDirection: cfg.ViewDirection.Normalize(),
		downDirection: cfg.DownDirection.Normalize(),
		fovy:          cfg.Fovy,
		aspect:        cfg.Aspect,
		near:          cfg.Near,
		far:           cfg.Far,
	}
	c.updateViewMatrix()
	c.updateProjectionMatrix()
	return c
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }

func (c *Camera) ViewMatrix() mgl32.Mat4 { return c.view }

func (c *Camera) ProjectionMatrix() mgl32.Mat4 { return c.projection }

// UniformData packs the matrices the way the vertex stage expects them.
func (c *Camera) UniformData() [2]mgl32.Mat4 {
	return [2]mgl32.Mat4{c.view, c.projection}
}

func (c *Camera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.updateProjectionMatrix()
}

func (c *Camera) updateViewMatrix() {
	right := c.downDirection.Cross(c.viewDirection).Normalize()
	down := c.downDirection
	fwd := c.viewDirection
	pos := c.position

	// Rows are (right, down, forward) with -row.pos translation;
	// mgl32.Mat4 literals are column-major.
	c.view = mgl32.Mat4{
		right.X(), down.X(), fwd.X(), 0,
		right.Y(), down.Y(), fwd.Y(), 0,
		right.Z(), down.Z(), fwd.Z(), 0,
		-right.Dot(pos), -down.Dot(pos), -fwd.Dot(pos), 1,
	}
}

func (c *Camera) updateProjectionMatrix() {
	d := float32(1.0 / math.Tan(0.5*float64(c.fovy)))
	zRange := c.far / (c.far - c.near)

	c.projection = mgl32.Mat4{
		d / c.aspect, 0, 0, 0,
		0, d, 0, 0,
		0, 0, zRange, 1,
		0, 0, -c.near * zRange, 0,
	}
}

func (c *Camera) MoveForward(distance float32) {
	c.position = c.position.Add(c.viewDirection.Mul(distance))
	c.updateViewMatrix()
}

func (c *Camera) MoveBackward(distance float32) {
	c.MoveForward(-distance)
}

func (c *Camera) TurnRight(angle float32) {
	rotation := mgl32.QuatRotate(angle, c.downDirection)
	c.viewDirection = rotation.Rotate(c.viewDirection)
	c.updateViewMatrix()
}

func (c *Camera) TurnLeft(angle float32) {
	c.TurnRight(-angle)
}

func (c *Camera) TurnUp(angle float32) {
	right := c.downDirection.Cross(c.viewDirection).Normalize()
	rotation := mgl32.QuatRotate(angle, right)
	c.viewDirection = rotation.Rotate(c.viewDirection)
	c.downDirection = rotation.Rotate(c.downDirection)
	c.updateViewMatrix()
}

func (c *Camera) TurnDown(angle float32) {
	c.TurnUp(-angle)
}
