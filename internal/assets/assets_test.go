package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/blockwalk/internal/engine/model"
)

const cubeOBJ = `mtllib cube.mtl
o head
v -0.5 0 -0.5
v 0.5 0 -0.5
v 0.5 1 -0.5
v -0.5 1 -0.5
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl skin
f 1/1 2/2 3/3 4/4
o body
usemtl skin
f 1/1 3/3 4/4
usemtl cloth
f 1/1 2/2 3/3
`

const cubeMTL = `newmtl skin
Kd 1 0.5 0.25
Ns 16
map_Kd textures/skin.png
newmtl cloth
Kd 0 0 1
`

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func cubeRoot(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "models", "cube.obj"), []byte(cubeOBJ))
	writeFile(t, filepath.Join(root, "models", "cube.mtl"), []byte(cubeMTL))
	writeFile(t, filepath.Join(root, "textures", "skin.png"), pngBytes(t, 2, 2, color.RGBA{255, 0, 0, 255}))
	return root
}

func TestLoadOBJ(t *testing.T) {
	l := NewLoader(cubeRoot(t))

	meshes, err := l.LoadMeshes("models/cube.obj")
	require.NoError(t, err)
	require.Len(t, meshes, 3)

	assert.Equal(t, "head", meshes[0].Name)
	assert.Equal(t, 2, meshes[0].FaceCount())
	assert.Equal(t, 4, meshes[0].VertexCount())
	assert.Equal(t, "body", meshes[1].Name)
	assert.Equal(t, "body", meshes[2].Name)

	skin := meshes[0].Material()
	assert.InDelta(t, 0.5, skin.Diffuse[1], 1e-6)
	assert.InDelta(t, 16, skin.Shininess, 1e-6)
	assert.InDelta(t, 1, meshes[2].Material().Diffuse[2], 1e-6)

	// Both skin runs share the one decoded texture; cloth has none.
	require.NotNil(t, meshes[0].Texture())
	assert.Same(t, meshes[0].Texture(), meshes[1].Texture())
	assert.Nil(t, meshes[2].Texture())
	assert.Equal(t, 2, meshes[0].Texture().Width)

	hits, misses, entries := l.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, entries)
}

func TestLoadOBJGeneratesNormals(t *testing.T) {
	l := NewLoader(cubeRoot(t))

	meshes, err := l.LoadMeshes("models/cube.obj")
	require.NoError(t, err)

	// The quad lies in the z = -0.5 plane, wound counter-clockwise from +Z.
	n := meshes[0].VertexAt(0).Normal
	assert.InDelta(t, 0, n[0], 1e-5)
	assert.InDelta(t, 0, n[1], 1e-5)
	assert.InDelta(t, 1, n[2], 1e-5)
}

func TestLoadOBJMissingMaterialLibrary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tri.obj"), []byte("mtllib none.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl x\nf 1 2 3\n"))

	meshes, err := NewLoader(root).LoadMeshes("tri.obj")
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, "tri.obj#0", meshes[0].Name)
	assert.Nil(t, meshes[0].Texture())
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bad.obj"), []byte("v 0 0 0\nf 1 2 3\n"))
	writeFile(t, filepath.Join(root, "notex.obj"), []byte("mtllib notex.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl m\nf 1 2 3\n"))
	writeFile(t, filepath.Join(root, "notex.mtl"), []byte("newmtl m\nmap_Kd missing.png\n"))
	writeFile(t, filepath.Join(root, "model.fbx"), []byte("x"))
	writeFile(t, filepath.Join(root, "points.obj"), []byte("v 0 0 0\nv 1 0 0\n"))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", "nope.obj", filepath.Join(root, "nope.obj")},
		{"malformed", "bad.obj", filepath.Join(root, "bad.obj")},
		{"missing texture", "notex.obj", filepath.Join(root, "missing.png")},
		{"unsupported format", "model.fbx", filepath.Join(root, "model.fbx")},
		{"no faces", "points.obj", filepath.Join(root, "points.obj")},
	}

	l := NewLoader(root)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.LoadMeshes(tt.path)
			var le *LoadError
			require.True(t, errors.As(err, &le), "expected *LoadError, got %v", err)
			assert.Equal(t, tt.want, le.Path)
		})
	}
}

func TestLoadMeshesWithoutFaces(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "points.obj"), []byte("o dots\nv 0 0 0\nv 1 0 0\n"))

	_, err := NewLoader(root).LoadMeshes("points.obj")
	assert.ErrorIs(t, err, ErrNoMeshes)

	// model.Load passes it through with the failing path.
	_, err = model.Load(NewLoader(root), "points.obj")
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, filepath.Join(root, "points.obj"), le.Path)
}

func TestModelLoadThroughLoader(t *testing.T) {
	m, err := model.Load(NewLoader(cubeRoot(t)), "models/cube.obj")
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumMeshes())
}

func TestResolve(t *testing.T) {
	l := NewLoader("assets")
	assert.Equal(t, filepath.Join("assets", "a", "b.png"), l.Resolve("a/b.png"))
	abs := filepath.Join(t.TempDir(), "x.obj")
	assert.Equal(t, abs, l.Resolve(abs))
	assert.Equal(t, "x.obj", NewLoader("").Resolve("x.obj"))
}

func writeGLB(t *testing.T, path string, withTexture bool) {
	t.Helper()
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})

	metallic, roughness := float32(0), float32(0.5)
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 0, 0, 1},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
	})
	if withTexture {
		img, err := modeler.WriteImage(doc, "skin", "image/png", bytes.NewReader(pngBytes(t, 1, 1, color.RGBA{0, 255, 0, 255})))
		require.NoError(t, err)
		doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
		doc.Materials[0].PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: 0}
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]uint32{"POSITION": pos, "TEXCOORD_0": uv},
			Material:   gltf.Index(0),
		}},
	})
	require.NoError(t, gltf.SaveBinary(doc, path))
}

func TestLoadGLB(t *testing.T) {
	root := t.TempDir()
	writeGLB(t, filepath.Join(root, "tri.glb"), true)

	l := NewLoader(root)
	meshes, err := l.LoadMeshes("tri.glb")
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "tri", m.Name)
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.FaceCount())

	// UVs are flipped to a bottom-left origin; normals are generated.
	assert.InDelta(t, 1, m.VertexAt(0).TexCoord[1], 1e-6)
	assert.InDelta(t, 1, m.VertexAt(0).Normal[2], 1e-5)

	mat := m.Material()
	assert.InDelta(t, 1, mat.Diffuse[0], 1e-6)
	assert.InDelta(t, 0.2, mat.Ambient[0], 1e-6)
	assert.InDelta(t, 0.02, mat.Specular[0], 1e-6)
	assert.InDelta(t, 64, mat.Shininess, 1e-4)

	require.NotNil(t, m.Texture())
	assert.Equal(t, byte(255), m.Texture().Pix[1])

	// A second load hits the embedded image cache.
	again, err := l.LoadMeshes("tri.glb")
	require.NoError(t, err)
	assert.Same(t, m.Texture(), again[0].Texture())
}

func TestPhongFromPBRDefaults(t *testing.T) {
	mat := phongFromPBR(nil)
	assert.InDelta(t, 1, mat.Diffuse[0], 1e-6)
	assert.InDelta(t, 0, mat.Specular[0], 1e-6)
	assert.InDelta(t, 1, mat.Shininess, 1e-6)
}

func TestCache(t *testing.T) {
	c := NewCache[int]()
	_, ok := c.Get("a")
	assert.False(t, ok)
	c.Set("a", 7)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, c.Len())
}
