package lumen

import (
	"github.com/google/uuid"
)

type ModelId string

func newModelId() ModelId {
	return ModelId(uuid.NewString())
}

// Vertex is the interleaved vertex layout shared by the CPU and GPU paths.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

// QuadMesh is a unit quad in the xy plane facing -z, the demo geometry.
func QuadMesh() Mesh {
	return Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{-1, -1, 0}, Normal: [3]float32{0, 0, -1}},
			{Position: [3]float32{1, -1, 0}, Normal: [3]float32{0, 0, -1}},
			{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, -1}},
			{Position: [3]float32{-1, 1, 0}, Normal: [3]float32{0, 0, -1}},
		},
		Indices: []uint16{0, 1, 2, 2, 3, 0},
	}
}

// Model is one renderable instance: geometry, placement, surface.
type Model struct {
	Id        ModelId
	Mesh      Mesh
	Transform *Transform
	Material  Material
	Texture   *Texture // optional base color source
}

func NewModel(mesh Mesh, mat Material) *Model {
	return &Model{
		Id:        newModelId(),
		Mesh:      mesh,
		Transform: NewTransform(),
		Material:  mat,
	}
}

// Scene aggregates everything a frame needs: models, the light list and the
// camera. Lights are shared read-only state within a frame; the owner must
// finish updates before a shading batch starts.
type Scene struct {
	Models []*Model
	Lights *LightManager
	Camera *Camera
}

func NewScene() *Scene {
	return &Scene{
		Lights: NewLightManager(),
		Camera: NewCamera(CameraConfig{}),
	}
}

func (s *Scene) AddModel(m *Model) {
	s.Models = append(s.Models, m)
}

// Validate runs the caller-side checks a frame requires before shading:
// material ranges for every model. Light counts cannot go negative through
// the typed API; decoded buffers are validated by DecodeLightBuffer.
func (s *Scene) Validate() error {
	for _, m := range s.Models {
		if err := m.Material.Validate(); err != nil {
			return err
		}
	}
	return nil
}
