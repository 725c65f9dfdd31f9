// Package model groups meshes under a shared model transform.
package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
)

// MeshSource parses a model file into its submeshes, in file order.
type MeshSource interface {
	LoadMeshes(path string) ([]*mesh.Mesh, error)
}

// Model is an ordered list of meshes sharing one model transform.
// Mesh order is fixed at construction; for the character it identifies the body part.
type Model struct {
	Name string

	meshes    []*mesh.Mesh
	transform mgl32.Mat4
}

// New creates a model over the given meshes with an identity transform.
func New(name string, meshes ...*mesh.Mesh) *Model {
	return &Model{
		Name:      name,
		meshes:    meshes,
		transform: mgl32.Ident4(),
	}
}

// Load reads every submesh of the file at path.
func Load(src MeshSource, path string) (*Model, error) {
	meshes, err := src.LoadMeshes(path)
	if err != nil {
		return nil, err
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("model %s: no meshes", path)
	}
	return New(path, meshes...), nil
}

// Render submits every mesh in order with the model transform as global.
func (m *Model) Render(d mesh.Drawer) {
	for _, msh := range m.meshes {
		msh.Render(d, m.transform)
	}
}

// Transform returns the model transform.
func (m *Model) Transform() mgl32.Mat4 { return m.transform }

// SetTransform replaces the model transform.
func (m *Model) SetTransform(t mgl32.Mat4) { m.transform = t }

// NumMeshes returns the mesh count.
func (m *Model) NumMeshes() int { return len(m.meshes) }

// MeshAt returns mesh i for mutation. It panics if i is out of range.
func (m *Model) MeshAt(i int) *mesh.Mesh {
	if i < 0 || i >= len(m.meshes) {
		panic(fmt.Sprintf("model %q: mesh index %d out of range [0,%d)", m.Name, i, len(m.meshes)))
	}
	return m.meshes[i]
}

// Clone returns an independent copy. Mesh materials and transforms are
// copied; immutable geometry and textures are shared.
func (m *Model) Clone() *Model {
	meshes := make([]*mesh.Mesh, len(m.meshes))
	for i, msh := range m.meshes {
		meshes[i] = msh.Clone()
	}
	return &Model{
		Name:      m.Name,
		meshes:    meshes,
		transform: m.transform,
	}
}
