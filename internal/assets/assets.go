// Package assets loads model files and their textures from an asset root.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
	"github.com/Faultbox/blockwalk/internal/engine/model"
	"github.com/Faultbox/blockwalk/internal/engine/texture"
	"github.com/Faultbox/blockwalk/internal/logger"
)

// LoadError reports a model or texture that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrNoMeshes is returned for a model file that parses but holds no triangles.
var ErrNoMeshes = errors.New("model has no meshes")

// Loader reads models and textures below Root. Relative model paths and
// every texture name are resolved as Root/<name>.
type Loader struct {
	Root string

	textures *Cache[*mesh.Texture]
	log      *zap.Logger
}

var _ model.MeshSource = (*Loader)(nil)

// NewLoader creates a loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{
		Root:     root,
		textures: NewCache[*mesh.Texture](),
		log:      logger.Named("assets"),
	}
}

// Resolve maps an asset name to a filesystem path.
func (l *Loader) Resolve(name string) string {
	if filepath.IsAbs(name) || l.Root == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(l.Root, name)
}

// LoadMeshes parses a model file into its submeshes, in file order.
func (l *Loader) LoadMeshes(path string) ([]*mesh.Mesh, error) {
	resolved := l.Resolve(path)

	var (
		meshes []*mesh.Mesh
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(resolved)); ext {
	case ".obj":
		meshes, err = l.loadOBJ(resolved)
	case ".gltf", ".glb":
		meshes, err = l.loadGLTF(resolved)
	default:
		err = fmt.Errorf("unsupported model format %q", ext)
	}
	if err == nil && len(meshes) == 0 {
		err = ErrNoMeshes
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Path: resolved, Err: err}
	}

	l.log.Debug("model loaded",
		zap.String("path", resolved),
		zap.Int("meshes", len(meshes)),
	)
	return meshes, nil
}

// Texture returns the decoded texture for name, decoding it on first use.
// Meshes referencing the same resolved path share one texture.
func (l *Loader) Texture(name string) (*mesh.Texture, error) {
	return l.textureFile(l.Resolve(name))
}

func (l *Loader) textureFile(resolved string) (*mesh.Texture, error) {
	if tex, ok := l.textures.Get(resolved); ok {
		return tex, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &LoadError{Path: resolved, Err: err}
	}
	tex, err := texture.Load(bytes.NewReader(data), resolved)
	if err != nil {
		return nil, &LoadError{Path: resolved, Err: err}
	}

	l.textures.Set(resolved, tex)
	l.log.Debug("texture decoded",
		zap.String("path", resolved),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height),
	)
	return tex, nil
}

// embeddedTexture decodes image bytes stored inside a model file, cached
// under key.
func (l *Loader) embeddedTexture(key, name string, data []byte) (*mesh.Texture, error) {
	if tex, ok := l.textures.Get(key); ok {
		return tex, nil
	}
	tex, err := texture.Load(bytes.NewReader(data), name)
	if err != nil {
		return nil, &LoadError{Path: key, Err: err}
	}
	l.textures.Set(key, tex)
	return tex, nil
}

// CacheStats returns texture cache hits, misses and entry count.
func (l *Loader) CacheStats() (hits, misses, entries int) {
	hits, misses = l.textures.Stats()
	return hits, misses, l.textures.Len()
}

// buildMesh converts flattened vertex data, generating normals when the
// source had none.
func buildMesh(name string, vertices []mesh.Vertex, indices []uint32, hasNormals bool, mat mesh.Material, tex *mesh.Texture) (*mesh.Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: index count %d is not a multiple of 3", name, len(indices))
	}
	faces := make([]mesh.Face, len(indices)/3)
	for i := range faces {
		faces[i] = mesh.Face{indices[i*3], indices[i*3+1], indices[i*3+2]}
	}
	if !hasNormals && len(faces) > 0 {
		mesh.GenerateNormals(vertices, faces)
	}

	m, err := mesh.New(vertices, faces, mat, tex)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	m.Name = name
	return m, nil
}
