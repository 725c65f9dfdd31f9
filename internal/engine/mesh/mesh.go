package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyGeometry is returned when a mesh is built without vertices or faces.
var ErrEmptyGeometry = errors.New("mesh has no geometry")

// Geometry is immutable triangle data. Copies of a mesh share one Geometry,
// so the renderer uploads it once.
type Geometry struct {
	vertices []Vertex
	faces    []Face
	bounds   Bounds
}

// NewGeometry validates and wraps vertex and face data.
// Every face index must address an existing vertex.
func NewGeometry(vertices []Vertex, faces []Face) (*Geometry, error) {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil, ErrEmptyGeometry
	}
	n := uint32(len(vertices))
	for i, f := range faces {
		for _, idx := range f {
			if idx >= n {
				return nil, fmt.Errorf("face %d: index %d out of range (vertex count %d)", i, idx, n)
			}
		}
	}

	g := &Geometry{
		vertices: vertices,
		faces:    faces,
		bounds: Bounds{
			Min: vertices[0].Position,
			Max: vertices[0].Position,
		},
	}
	for i := 1; i < len(vertices); i++ {
		updateBounds(&g.bounds, vertices[i].Position)
	}
	return g, nil
}

// Vertices returns the vertex slice. Callers must not modify it.
func (g *Geometry) Vertices() []Vertex { return g.vertices }

// Faces returns the face slice. Callers must not modify it.
func (g *Geometry) Faces() []Face { return g.faces }

// IndexCount returns the number of indices needed to draw all faces.
func (g *Geometry) IndexCount() int { return len(g.faces) * 3 }

// Mesh is a renderable instance of shared geometry.
type Mesh struct {
	Name string

	geom     *Geometry
	material Material
	texture  *Texture
	local    mgl32.Mat4
}

// New creates a mesh with an identity local transform. tex may be nil.
func New(vertices []Vertex, faces []Face, mat Material, tex *Texture) (*Mesh, error) {
	g, err := NewGeometry(vertices, faces)
	if err != nil {
		return nil, err
	}
	return FromGeometry(g, mat, tex), nil
}

// FromGeometry creates a mesh over existing geometry.
func FromGeometry(g *Geometry, mat Material, tex *Texture) *Mesh {
	return &Mesh{
		geom:     g,
		material: mat,
		texture:  tex,
		local:    mgl32.Ident4(),
	}
}

// Render submits the mesh with global × local as its model matrix.
func (m *Mesh) Render(d Drawer, global mgl32.Mat4) {
	d.DrawMesh(m, global.Mul4(m.local))
}

// Clone returns an independent mesh that shares geometry and texture.
func (m *Mesh) Clone() *Mesh {
	c := *m
	return &c
}

// Geometry returns the shared geometry.
func (m *Mesh) Geometry() *Geometry { return m.geom }

// Material returns the current material.
func (m *Mesh) Material() Material { return m.material }

// SetMaterial swaps the material.
func (m *Mesh) SetMaterial(mat Material) { m.material = mat }

// Texture returns the bound texture, or nil.
func (m *Mesh) Texture() *Texture { return m.texture }

// LocalTransform returns the mesh transform relative to its model.
func (m *Mesh) LocalTransform() mgl32.Mat4 { return m.local }

// SetLocalTransform replaces the local transform.
func (m *Mesh) SetLocalTransform(t mgl32.Mat4) { m.local = t }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.geom.vertices) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.geom.faces) }

// VertexAt returns vertex i. It panics if i is out of range.
func (m *Mesh) VertexAt(i int) Vertex { return m.geom.vertices[i] }

// Bounds returns the axis-aligned bounding box of the untransformed vertices.
func (m *Mesh) Bounds() Bounds { return m.geom.bounds }

// TopCenter returns the pivot at the top-center of the bounding box.
func (m *Mesh) TopCenter() mgl32.Vec3 { return m.geom.bounds.TopCenter() }

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
