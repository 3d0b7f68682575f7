package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen3d/lumen"
)

func buildScene() *lumen.Scene {
	scene := lumen.NewScene()

	quad := lumen.NewModel(lumen.QuadMesh(), lumen.Material{
		BaseColor: mgl32.Vec3{0.7, 0.2, 0.2},
		Metallic:  0.0,
		Roughness: 0.5,
	})
	quad.Transform.Scale = mgl32.Vec3{0.5, 0.5, 0.5}
	scene.AddModel(quad)

	scene.Lights.AddLight(lumen.NewDirectionalLight(
		mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{10.1, 10.1, 10.1}))
	scene.Lights.AddLight(lumen.NewPointLight(
		mgl32.Vec3{0.1, -3.0, -3.0}, mgl32.Vec3{100, 100, 100}))
	scene.Lights.AddLight(lumen.NewPointLight(
		mgl32.Vec3{1.5, 0.0, -3.0}, mgl32.Vec3{10, 10, 10}))
	scene.Lights.AddLight(lumen.NewPointLight(
		mgl32.Vec3{-2.0, 2.0, -2.0}, mgl32.Vec3{50, 50, 50}))

	scene.Camera = lumen.NewCamera(lumen.CameraConfig{
		Position: mgl32.Vec3{0, 0, -5},
	})
	return scene
}

func main() {
	logger := lumen.NewDefaultLogger("lumen", false)

	window := lumen.CreateWindow(800, 600, "lumen demo")
	gpu := lumen.NewGpuState(window)

	scene := buildScene()
	if err := scene.Validate(); err != nil {
		logger.Errorf("invalid scene: %v", err)
		return
	}

	renderer := lumen.NewRenderer(window, gpu, logger)
	renderer.UploadMesh(scene.Models[0].Mesh)
	renderer.UpdateLights(scene.Lights)

	window.Window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		switch key {
		case glfw.KeyRight:
			scene.Camera.TurnRight(0.1)
		case glfw.KeyLeft:
			scene.Camera.TurnLeft(0.1)
		case glfw.KeyUp:
			scene.Camera.MoveForward(0.05)
		case glfw.KeyDown:
			scene.Camera.MoveBackward(0.05)
		case glfw.KeyPageUp:
			scene.Camera.TurnUp(0.02)
		case glfw.KeyPageDown:
			scene.Camera.TurnDown(0.02)
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		}
	})
	window.Window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		renderer.Resize(scene, width, height)
	})

	logger.Infof("rendering %d lights", scene.Lights.NumDirectional()+scene.Lights.NumPoint())

	for !window.Window.ShouldClose() {
		glfw.PollEvents()
		renderer.RenderFrame(scene)
	}
}
