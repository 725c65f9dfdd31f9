package assets

import (
	"fmt"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
	"github.com/Faultbox/blockwalk/internal/engine/texture"
)

// loadGLTF emits one mesh per triangle primitive, walking doc.Meshes in
// order. Node transforms are not applied.
func (l *Loader) loadGLTF(path string) ([]*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}

	var meshes []*mesh.Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				l.log.Warn("skipping non-triangle primitive",
					zap.String("model", path),
					zap.Int("mesh", mi),
					zap.Int("primitive", pi),
				)
				continue
			}

			name := gm.Name
			if name == "" {
				name = fmt.Sprintf("%s#%d", filepath.Base(path), mi)
			}
			if len(gm.Primitives) > 1 {
				name = fmt.Sprintf("%s.%d", name, pi)
			}

			m, err := l.gltfPrimitive(doc, path, name, prim)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

func (l *Loader) gltfPrimitive(doc *gltf.Document, path, name string, prim *gltf.Primitive) (*mesh.Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("mesh %q: primitive has no POSITION attribute", name)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: reading positions: %w", name, err)
	}

	vertices := make([]mesh.Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
	}

	hasNormals := false
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: reading normals: %w", name, err)
		}
		if len(normals) == len(vertices) {
			for i, n := range normals {
				vertices[i].Normal = n
			}
			hasNormals = true
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: reading texcoords: %w", name, err)
		}
		for i := 0; i < len(uvs) && i < len(vertices); i++ {
			// glTF puts the UV origin at the top-left of the image.
			vertices[i].TexCoord = [2]float32{uvs[i][0], 1 - uvs[i][1]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: reading indices: %w", name, err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mat := mesh.DefaultMaterial()
	var tex *mesh.Texture
	if prim.Material != nil {
		gm := doc.Materials[*prim.Material]
		mat = phongFromPBR(gm.PBRMetallicRoughness)
		if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			if tex, err = l.gltfTexture(doc, path, pbr.BaseColorTexture.Index); err != nil {
				return nil, err
			}
		}
	}

	return buildMesh(name, vertices, indices, hasNormals, mat, tex)
}

// gltfTexture decodes the image behind texture index ti. Embedded images
// are cached per model file; external URIs resolve next to the model.
func (l *Loader) gltfTexture(doc *gltf.Document, path string, ti uint32) (*mesh.Texture, error) {
	if int(ti) >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return nil, nil
	}
	ii := *doc.Textures[ti].Source
	img := doc.Images[ii]
	key := fmt.Sprintf("%s#image%d", path, ii)

	ext, _ := texture.ExtensionForMIME(img.MimeType)
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if int(end) > len(buf) {
			return nil, &LoadError{Path: key, Err: fmt.Errorf("buffer view %d out of range", *img.BufferView)}
		}
		return l.embeddedTexture(key, "image"+ext, buf[bv.ByteOffset:end])
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, &LoadError{Path: key, Err: err}
		}
		return l.embeddedTexture(key, "image"+ext, data)
	default:
		return l.textureFile(filepath.Join(filepath.Dir(path), img.URI))
	}
}

// phongFromPBR approximates a metallic-roughness material: base color
// drives diffuse and ambient, smoothness drives the specular term.
func phongFromPBR(pbr *gltf.PBRMetallicRoughness) mesh.Material {
	base := [4]float32{1, 1, 1, 1}
	metallic, roughness := float32(1), float32(1)
	if pbr != nil {
		if pbr.BaseColorFactor != nil {
			base = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
	}

	smooth := 1 - roughness
	spec := func(c float32) float32 {
		return (0.04 + (c-0.04)*metallic) * smooth
	}
	return mesh.Material{
		Ambient:   mgl32.Vec4{0.2 * base[0], 0.2 * base[1], 0.2 * base[2], base[3]},
		Diffuse:   mgl32.Vec4{base[0], base[1], base[2], base[3]},
		Specular:  mgl32.Vec4{spec(base[0]), spec(base[1]), spec(base[2]), base[3]},
		Shininess: math32.Max(1, smooth*128),
	}
}
