package lumen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneDefaults(t *testing.T) {
	scene := NewScene()
	require.NotNil(t, scene.Lights)
	require.NotNil(t, scene.Camera)
	assert.Empty(t, scene.Models)
}

func TestModelIdsUnique(t *testing.T) {
	a := NewModel(QuadMesh(), DefaultMaterial())
	b := NewModel(QuadMesh(), DefaultMaterial())
	assert.NotEmpty(t, a.Id)
	assert.NotEqual(t, a.Id, b.Id)
}

func TestSceneValidate(t *testing.T) {
	scene := NewScene()
	scene.AddModel(NewModel(QuadMesh(), DefaultMaterial()))
	require.NoError(t, scene.Validate())

	bad := NewModel(QuadMesh(), Material{BaseColor: mgl32.Vec3{2, 0, 0}})
	scene.AddModel(bad)
	assert.Error(t, scene.Validate())
}

func TestQuadMesh(t *testing.T) {
	mesh := QuadMesh()
	require.Len(t, mesh.Vertices, 4)
	require.Len(t, mesh.Indices, 6)
	for _, v := range mesh.Vertices {
		assert.Equal(t, [3]float32{0, 0, -1}, v.Normal)
	}
	for _, i := range mesh.Indices {
		assert.Less(t, int(i), len(mesh.Vertices))
	}
}
