package lumen

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen3d/lumen/shaders"
)

type WindowState struct {
	Window *glfw.Window
	Width  int
	Height int
	Title  string
}

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

// CreateWindow opens the GLFW window the renderer draws into. Must be
// called from the main goroutine.
func CreateWindow(width, height int, title string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface, not OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		Window: win,
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func NewGpuState(w *WindowState) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.Window))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Lumen Device",
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(w.Width),
		Height:      uint32(w.Height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}
}

// Renderer owns the forward pipeline and the per-scene GPU buffers. The
// light buffer is the device-side twin of LightManager.PackBuffer: the
// CPU decoder and the shader read the same counts-then-entries layout,
// padded to vec4 for std430 alignment.
type Renderer struct {
	window *WindowState
	gpu    *GpuState
	log    Logger

	pipeline    *wgpu.RenderPipeline
	vertexBuf   *wgpu.Buffer
	indexBuf    *wgpu.Buffer
	indexCount  uint32
	cameraBuf   *wgpu.Buffer
	modelBuf    *wgpu.Buffer
	materialBuf *wgpu.Buffer
	lightBuf    *wgpu.Buffer
	lightBufLen int
	bindGroup   *wgpu.BindGroup
}

func NewRenderer(window *WindowState, gpu *GpuState, logger Logger) *Renderer {
	if logger == nil {
		logger = NewNopLogger()
	}
	r := &Renderer{window: window, gpu: gpu, log: logger}
	r.pipeline = r.createPipeline()
	r.cameraBuf = r.createBuffer("Camera Uniform", make([]float32, 32), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	r.modelBuf = r.createBuffer("Model Uniform", make([]float32, 32), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	r.materialBuf = r.createBuffer("Material Uniform", make([]float32, 12), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	return r
}

func (r *Renderer) createPipeline() *wgpu.RenderPipeline {
	shader, err := r.gpu.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Shading",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ShadingWGSL},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: 6 * 4, // position vec3 + normal vec3
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 1, Offset: 3 * 4, Format: wgpu.VertexFormatFloat32x3},
		},
	}

	pipeline, err := r.gpu.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.gpu.surfaceConfig.Format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

func (r *Renderer) createBuffer(label string, data []float32, usage wgpu.BufferUsage) *wgpu.Buffer {
	buf, err := r.gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(data),
		Usage:    usage,
	})
	if err != nil {
		panic(err)
	}
	return buf
}

// UploadMesh creates the vertex/index buffers for the (single) mesh the
// pipeline draws.
func (r *Renderer) UploadMesh(mesh Mesh) {
	verts := make([]float32, 0, 6*len(mesh.Vertices))
	for _, v := range mesh.Vertices {
		verts = append(verts, v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2])
	}
	r.vertexBuf = r.createBuffer("Vertex Buffer", verts, wgpu.BufferUsageVertex)

	indexBuf, err := r.gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Index Buffer",
		Contents: wgpu.ToBytes(mesh.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		panic(err)
	}
	r.indexBuf = indexBuf
	r.indexCount = uint32(len(mesh.Indices))
}

// packLightFloats serializes a packed light buffer into the padded device
// layout: a vec4 header (both counts, two zeros) followed by one vec4 per
// vec3 entry.
func packLightFloats(buf LightBuffer) []float32 {
	data := make([]float32, 0, 4+4*len(buf.Entries))
	data = append(data, buf.NumDirectional, buf.NumPoint, 0, 0)
	for _, e := range buf.Entries {
		data = append(data, e[0], e[1], e[2], 0)
	}
	return data
}

// UpdateLights (re)uploads the light list. The buffer is recreated when the
// light count changes, which invalidates the bind group.
func (r *Renderer) UpdateLights(lm *LightManager) {
	data := packLightFloats(lm.PackBuffer())
	if r.lightBuf == nil || len(data) != r.lightBufLen {
		if r.lightBuf != nil {
			r.lightBuf.Release()
		}
		r.lightBuf = r.createBuffer("Light Buffer", data,
			wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
		r.lightBufLen = len(data)
		r.recreateBindGroup()
		r.log.Debugf("light buffer resized to %d floats", len(data))
		return
	}
	r.gpu.queue.WriteBuffer(r.lightBuf, 0, wgpu.ToBytes(data))
}

func (r *Renderer) recreateBindGroup() {
	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	bindGroup, err := r.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: r.pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.cameraBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: r.modelBuf, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: r.materialBuf, Size: wgpu.WholeSize},
			{Binding: 3, Buffer: r.lightBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(err)
	}
	r.bindGroup = bindGroup
}

func matFloats(ms ...mgl32.Mat4) []float32 {
	out := make([]float32, 0, 16*len(ms))
	for _, m := range ms {
		out = append(out, m[:]...)
	}
	return out
}

// RenderFrame uploads the per-frame uniforms for the first model and
// encodes one forward pass. Buffer updates complete on the queue before
// the pass samples them, so fragments never observe a partial light list.
func (r *Renderer) RenderFrame(scene *Scene) {
	if len(scene.Models) == 0 || r.bindGroup == nil {
		return
	}
	model := scene.Models[0]

	cam := scene.Camera.UniformData()
	r.gpu.queue.WriteBuffer(r.cameraBuf, 0, wgpu.ToBytes(matFloats(cam[0], cam[1])))

	inst := model.Transform.InstanceData()
	r.gpu.queue.WriteBuffer(r.modelBuf, 0, wgpu.ToBytes(matFloats(inst.ModelMatrix, inst.NormalMatrix)))

	camPos := scene.Camera.Position()
	mat := model.Material
	r.gpu.queue.WriteBuffer(r.materialBuf, 0, wgpu.ToBytes([]float32{
		mat.BaseColor[0], mat.BaseColor[1], mat.BaseColor[2], 1,
		mat.Metallic, mat.Roughness, 0, 0,
		camPos[0], camPos[1], camPos[2], 0,
	}))

	nextTexture, err := r.gpu.surface.GetCurrentTexture()
	if err != nil {
		panic(err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()

	encoder, err := r.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	defer renderPass.Release()

	renderPass.SetPipeline(r.pipeline)
	renderPass.SetBindGroup(0, r.bindGroup, nil)
	renderPass.SetVertexBuffer(0, r.vertexBuf, 0, wgpu.WholeSize)
	renderPass.SetIndexBuffer(r.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	renderPass.DrawIndexed(r.indexCount, 1, 0, 0, 0)

	if err := renderPass.End(); err != nil {
		panic(err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	r.gpu.queue.Submit(cmdBuffer)
	r.gpu.surface.Present()
}

// Resize reconfigures the surface and the camera aspect after a window
// resize.
func (r *Renderer) Resize(scene *Scene, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.window.Width = width
	r.window.Height = height
	r.gpu.surfaceConfig.Width = uint32(width)
	r.gpu.surfaceConfig.Height = uint32(height)
	r.gpu.surface.Configure(r.gpu.adapter, r.gpu.device, r.gpu.surfaceConfig)
	scene.Camera.SetAspect(float32(width) / float32(height))
}
