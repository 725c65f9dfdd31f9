// Package meshtest provides geometry fixtures and a recording drawer for tests.
package meshtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
)

// Box returns an axis-aligned box mesh spanning min..max.
func Box(min, max mgl32.Vec3) *mesh.Mesh {
	var vs []mesh.Vertex
	for _, x := range []float32{min[0], max[0]} {
		for _, y := range []float32{min[1], max[1]} {
			for _, z := range []float32{min[2], max[2]} {
				vs = append(vs, mesh.Vertex{Position: [3]float32{x, y, z}})
			}
		}
	}
	faces := []mesh.Face{
		{0, 1, 3}, {0, 3, 2},
		{4, 6, 7}, {4, 7, 5},
		{0, 4, 5}, {0, 5, 1},
		{2, 3, 7}, {2, 7, 6},
		{0, 2, 6}, {0, 6, 4},
		{1, 5, 7}, {1, 7, 3},
	}
	m, err := mesh.New(vs, faces, mesh.DefaultMaterial(), nil)
	if err != nil {
		panic(fmt.Sprintf("meshtest: %v", err))
	}
	return m
}

// UnitCube returns a unit cube centered at the origin.
func UnitCube() *mesh.Mesh {
	return Box(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
}

// Character returns six box meshes laid out like a blocky humanoid, in the
// order head, body, left leg, left arm, right arm, right leg.
func Character() []*mesh.Mesh {
	return []*mesh.Mesh{
		Box(mgl32.Vec3{-0.5, 3, -0.5}, mgl32.Vec3{0.5, 4, 0.5}),
		Box(mgl32.Vec3{-0.25, 1.5, -0.5}, mgl32.Vec3{0.25, 3, 0.5}),
		Box(mgl32.Vec3{-0.25, 0, -0.5}, mgl32.Vec3{0.25, 1.5, 0}),
		Box(mgl32.Vec3{-0.25, 1.5, -1}, mgl32.Vec3{0.25, 3, -0.5}),
		Box(mgl32.Vec3{-0.25, 1.5, 0.5}, mgl32.Vec3{0.25, 3, 1}),
		Box(mgl32.Vec3{-0.25, 0, 0}, mgl32.Vec3{0.25, 1.5, 0.5}),
	}
}

// Draw is one recorded DrawMesh call.
type Draw struct {
	Mesh  *mesh.Mesh
	Model mgl32.Mat4
}

// Recorder records draw submissions in order.
type Recorder struct {
	Draws []Draw
}

// DrawMesh implements mesh.Drawer.
func (r *Recorder) DrawMesh(m *mesh.Mesh, model mgl32.Mat4) {
	r.Draws = append(r.Draws, Draw{Mesh: m, Model: model})
}

// Source is an in-memory model.MeshSource keyed by path.
type Source struct {
	Models map[string]func() []*mesh.Mesh
	Loads  []string
}

// LoadMeshes implements model.MeshSource.
func (s *Source) LoadMeshes(path string) ([]*mesh.Mesh, error) {
	s.Loads = append(s.Loads, path)
	build, ok := s.Models[path]
	if !ok {
		return nil, fmt.Errorf("meshtest: no model %q", path)
	}
	return build(), nil
}
