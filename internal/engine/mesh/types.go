// Package mesh provides the atomic renderable unit: shared triangle geometry
// plus a material, an optional texture and a local transform.
package mesh

import "github.com/go-gl/mathgl/mgl32"

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Face is one triangle as three vertex indices.
type Face [3]uint32

// Material holds Phong material parameters. The alpha channel of each color
// carries the material opacity.
type Material struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
	Shininess float32
}

// DefaultMaterial returns a neutral grey material.
func DefaultMaterial() Material {
	return Material{
		Ambient:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
		Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		Specular:  mgl32.Vec4{0, 0, 0, 1},
		Shininess: 1,
	}
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TopCenter returns the center of the top face of the box.
func (b Bounds) TopCenter() mgl32.Vec3 {
	return mgl32.Vec3{
		0.5 * (b.Min[0] + b.Max[0]),
		b.Max[1],
		0.5 * (b.Min[2] + b.Max[2]),
	}
}

// Size returns the box extents.
func (b Bounds) Size() mgl32.Vec3 {
	return mgl32.Vec3{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Texture is a decoded RGBA image bound to a GPU handle after upload.
// Pix is transient: the renderer releases it once the image is on the GPU.
type Texture struct {
	// Source is the resolved path the image was decoded from.
	Source string
	Width  int
	Height int
	Pix    []byte

	// ID is the GPU texture name, zero until uploaded.
	ID uint32
}

// Uploaded reports whether the texture has a GPU handle.
func (t *Texture) Uploaded() bool {
	return t != nil && t.ID != 0
}

// Release drops the CPU-side pixel buffer.
func (t *Texture) Release() {
	t.Pix = nil
}

// Drawer submits a single mesh with its final model matrix.
type Drawer interface {
	DrawMesh(m *Mesh, model mgl32.Mat4)
}
