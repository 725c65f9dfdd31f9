package assets

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
	"github.com/Faultbox/blockwalk/pkg/formats"
)

// loadOBJ emits one mesh per object/group and material run. Material
// libraries are looked up next to the OBJ file; a missing library leaves
// the default material in place.
func (l *Loader) loadOBJ(path string) ([]*mesh.Mesh, error) {
	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, err
	}

	materials := make(map[string]*formats.MTLMaterial)
	for _, lib := range obj.MaterialLibs {
		mtlPath := filepath.Join(filepath.Dir(path), lib)
		mtl, err := formats.ParseMTLFile(mtlPath)
		if err != nil {
			l.log.Warn("material library unavailable",
				zap.String("model", path),
				zap.String("mtllib", mtlPath),
				zap.Error(err),
			)
			continue
		}
		for name, m := range mtl.Materials {
			materials[name] = m
		}
	}

	meshes := make([]*mesh.Mesh, 0, len(obj.Groups))
	for i, g := range obj.Groups {
		src, indices, hasNormals := obj.Vertices(g)
		vertices := make([]mesh.Vertex, len(src))
		for j, v := range src {
			vertices[j] = mesh.Vertex{Position: v.Position, Normal: v.Normal, TexCoord: v.TexCoord}
		}

		mat := mesh.DefaultMaterial()
		var tex *mesh.Texture
		if m, ok := materials[g.Material]; ok {
			mat = phongFromMTL(m)
			if m.DiffuseMap != "" {
				if tex, err = l.Texture(m.DiffuseMap); err != nil {
					return nil, err
				}
			}
		} else if g.Material != "" {
			l.log.Warn("unknown material", zap.String("model", path), zap.String("material", g.Material))
		}

		name := g.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", filepath.Base(path), i)
		}
		m, err := buildMesh(name, vertices, indices, hasNormals, mat, tex)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func phongFromMTL(m *formats.MTLMaterial) mesh.Material {
	return mesh.Material{
		Ambient:   mgl32.Vec4{m.Ambient[0], m.Ambient[1], m.Ambient[2], m.Opacity},
		Diffuse:   mgl32.Vec4{m.Diffuse[0], m.Diffuse[1], m.Diffuse[2], m.Opacity},
		Specular:  mgl32.Vec4{m.Specular[0], m.Specular[1], m.Specular[2], m.Opacity},
		Shininess: m.Shininess,
	}
}
