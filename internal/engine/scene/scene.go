// Package scene holds the ordered list of models drawn each frame together
// with the camera, the projection and the single light.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
	"github.com/Faultbox/blockwalk/internal/engine/model"
)

// ProjectionKind selects which projection is active.
type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

func (k ProjectionKind) String() string {
	switch k {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("ProjectionKind(%d)", int(k))
	}
}

// OrthoBounds is the view volume of an orthographic projection.
type OrthoBounds struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// View is the camera placement.
type View struct {
	Eye mgl32.Vec3
	At  mgl32.Vec3
	Up  mgl32.Vec3
}

// Matrix returns the look-at matrix for the view.
func (v View) Matrix() mgl32.Mat4 {
	return mgl32.LookAtV(v.Eye, v.At, v.Up)
}

// Light is a single point light with Phong terms.
type Light struct {
	Position mgl32.Vec3 `yaml:"position"`
	Ambient  mgl32.Vec4 `yaml:"ambient"`
	Diffuse  mgl32.Vec4 `yaml:"diffuse"`
	Specular mgl32.Vec4 `yaml:"specular"`
}

// DefaultLight returns a white light above and in front of the origin.
func DefaultLight() Light {
	return Light{
		Position: mgl32.Vec3{1.2, 1, 2},
		Ambient:  mgl32.Vec4{0.3, 0.3, 0.3, 1},
		Diffuse:  mgl32.Vec4{0.7, 0.7, 0.7, 1},
		Specular: mgl32.Vec4{1, 1, 1, 1},
	}
}

// Frame carries the per-frame uniforms pushed once before any mesh is drawn.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Light      Light
}

// Renderer draws a frame: BeginFrame is called once, then DrawMesh per mesh.
type Renderer interface {
	mesh.Drawer
	BeginFrame(f Frame)
}

// Scene is an ordered collection of models. Insertion order is draw order.
type Scene struct {
	models []*model.Model

	// Projection
	kind       ProjectionKind
	projection mgl32.Mat4

	view  View
	light Light
}

// New creates an empty scene with a 45° perspective, a camera on +Z looking
// at the origin and the default light.
func New() *Scene {
	s := &Scene{light: DefaultLight()}
	s.SetPerspective(45, 1, 1, 100)
	s.SetView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return s
}

// SetPerspective activates a perspective projection. fovY is in degrees.
func (s *Scene) SetPerspective(fovY, aspect, near, far float32) {
	s.kind = Perspective
	s.projection = mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far)
}

// SetOrthographic activates an orthographic projection.
func (s *Scene) SetOrthographic(b OrthoBounds) {
	s.kind = Orthographic
	s.projection = mgl32.Ortho(b.Left, b.Right, b.Bottom, b.Top, b.Near, b.Far)
}

// Projection returns the active projection and its kind.
func (s *Scene) Projection() (ProjectionKind, mgl32.Mat4) {
	return s.kind, s.projection
}

// SetView places the camera.
func (s *Scene) SetView(eye, at, up mgl32.Vec3) {
	s.view = View{Eye: eye, At: at, Up: up}
}

// View returns the camera placement.
func (s *Scene) View() View { return s.view }

// SetLight replaces the light.
func (s *Scene) SetLight(l Light) { s.light = l }

// Light returns the light.
func (s *Scene) Light() Light { return s.light }

// AddMesh wraps a single mesh into a new model and appends it.
func (s *Scene) AddMesh(vertices []mesh.Vertex, faces []mesh.Face, mat mesh.Material, tex *mesh.Texture) (*model.Model, error) {
	m, err := mesh.New(vertices, faces, mat, tex)
	if err != nil {
		return nil, fmt.Errorf("add mesh: %w", err)
	}
	return s.AddModel(model.New(fmt.Sprintf("mesh%d", len(s.models)), m)), nil
}

// AddModelFile loads a model file through src and appends it.
func (s *Scene) AddModelFile(src model.MeshSource, path string) (*model.Model, error) {
	m, err := model.Load(src, path)
	if err != nil {
		return nil, fmt.Errorf("add model %s: %w", path, err)
	}
	return s.AddModel(m), nil
}

// AddModelCopy appends an independent copy of m.
func (s *Scene) AddModelCopy(m *model.Model) *model.Model {
	return s.AddModel(m.Clone())
}

// AddModel appends m as is.
func (s *Scene) AddModel(m *model.Model) *model.Model {
	s.models = append(s.models, m)
	return m
}

// Len returns the number of models.
func (s *Scene) Len() int { return len(s.models) }

// ModelAt returns model i. It panics if i is out of range.
func (s *Scene) ModelAt(i int) *model.Model {
	if i < 0 || i >= len(s.models) {
		panic(fmt.Sprintf("scene: model index %d out of range [0,%d)", i, len(s.models)))
	}
	return s.models[i]
}

// Frame returns the uniforms for the current camera, projection and light.
func (s *Scene) Frame() Frame {
	return Frame{
		View:       s.view.Matrix(),
		Projection: s.projection,
		Eye:        s.view.Eye,
		Light:      s.light,
	}
}

// Render pushes the frame uniforms once and then draws every model in
// insertion order.
func (s *Scene) Render(r Renderer) {
	r.BeginFrame(s.Frame())
	for _, m := range s.models {
		m.Render(r)
	}
}
