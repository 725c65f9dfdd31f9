// Package renderer draws scenes with OpenGL and a single Phong program.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
	"github.com/Faultbox/blockwalk/internal/engine/renderer/shaders"
	"github.com/Faultbox/blockwalk/internal/engine/scene"
	"github.com/Faultbox/blockwalk/internal/engine/shader"
	"github.com/Faultbox/blockwalk/internal/engine/texture"
	"github.com/Faultbox/blockwalk/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	ClearColor [4]float32

	// Optional GLSL files replacing the embedded shaders.
	VertexShader   string
	FragmentShader string
}

// gpuGeometry is the uploaded form of one shared mesh.Geometry.
type gpuGeometry struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// Renderer implements scene.Renderer.
type Renderer struct {
	config  Config
	program *shader.Program
	log     *zap.Logger

	// Uploaded resources, keyed by the shared CPU-side object.
	geometries map[*mesh.Geometry]*gpuGeometry
	textures   []*mesh.Texture
	fallback   *mesh.Texture

	// Stats for the current frame
	drawCalls int
}

var _ scene.Renderer = (*Renderer)(nil)

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		log:        logger.Named("renderer"),
		geometries: make(map[*mesh.Geometry]*gpuGeometry),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	vertSrc, fragSrc, err := shaders.Sources(cfg.VertexShader, cfg.FragmentShader)
	if err != nil {
		return nil, err
	}
	r.program, err = shader.NewProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("phong program: %w", err)
	}

	r.fallback = texture.White()
	r.uploadTexture(r.fallback)

	return r, nil
}

// Close releases every GPU resource the renderer created.
func (r *Renderer) Close() {
	r.log.Info("closing renderer",
		zap.Int("geometries", len(r.geometries)),
		zap.Int("textures", len(r.textures)),
	)
	for _, g := range r.geometries {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
	}
	r.geometries = make(map[*mesh.Geometry]*gpuGeometry)

	for _, t := range r.textures {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
	r.textures = nil

	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) { return r.config.Width, r.config.Height }

// Clear starts a new frame.
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.drawCalls = 0
}

// DrawCalls returns the number of meshes drawn since the last Clear.
func (r *Renderer) DrawCalls() int { return r.drawCalls }

// BeginFrame binds the program and pushes the per-frame uniforms.
func (r *Renderer) BeginFrame(f scene.Frame) {
	p := r.program
	p.Use()

	gl.UniformMatrix4fv(p.Uniform("view"), 1, false, &f.View[0])
	gl.UniformMatrix4fv(p.Uniform("projection"), 1, false, &f.Projection[0])
	gl.Uniform3fv(p.Uniform("viewPos"), 1, &f.Eye[0])

	gl.Uniform3fv(p.Uniform("light.position"), 1, &f.Light.Position[0])
	gl.Uniform4fv(p.Uniform("light.ambient"), 1, &f.Light.Ambient[0])
	gl.Uniform4fv(p.Uniform("light.diffuse"), 1, &f.Light.Diffuse[0])
	gl.Uniform4fv(p.Uniform("light.specular"), 1, &f.Light.Specular[0])

	gl.Uniform1i(p.Uniform("fSampler"), 0)
}

// DrawMesh draws one mesh, uploading its geometry and texture on first use.
func (r *Renderer) DrawMesh(m *mesh.Mesh, model mgl32.Mat4) {
	p := r.program
	g := r.geometry(m.Geometry())

	mat := m.Material()
	gl.Uniform4fv(p.Uniform("material.ambient"), 1, &mat.Ambient[0])
	gl.Uniform4fv(p.Uniform("material.diffuse"), 1, &mat.Diffuse[0])
	gl.Uniform4fv(p.Uniform("material.specular"), 1, &mat.Specular[0])
	gl.Uniform1f(p.Uniform("material.shininess"), mat.Shininess)
	gl.UniformMatrix4fv(p.Uniform("model"), 1, false, &model[0])

	tex := m.Texture()
	if tex == nil {
		tex = r.fallback
	}
	if !tex.Uploaded() {
		r.uploadTexture(tex)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)

	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	r.drawCalls++
}

func (r *Renderer) geometry(geom *mesh.Geometry) *gpuGeometry {
	if g, ok := r.geometries[geom]; ok {
		return g
	}

	vertices := geom.Vertices()
	faces := geom.Faces()
	g := &gpuGeometry{indexCount: int32(geom.IndexCount())}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(mesh.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(faces)*3*4, unsafe.Pointer(&faces[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	r.geometries[geom] = g
	return g
}

func (r *Renderer) uploadTexture(t *mesh.Texture) {
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(t.Width), int32(t.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&t.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	t.Release()
	r.textures = append(r.textures, t)
}

// ReadPixels reads the back buffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// Snapshot returns the back buffer as a top-down image.
func (r *Renderer) Snapshot() *image.RGBA {
	pixels, w, h := r.ReadPixels()
	texture.FlipRows(pixels, w*4, h)
	return &image.RGBA{Pix: pixels, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
}
