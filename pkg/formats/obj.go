// Package formats provides parsers for Wavefront OBJ models and MTL material libraries.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrInvalidOBJ        = errors.New("invalid OBJ data")
	ErrOBJIndexRange     = errors.New("OBJ index out of range")
	ErrDegenerateOBJFace = errors.New("OBJ face has fewer than 3 vertices")
)

// OBJIndex references one face corner. Indices are zero-based; -1 means absent.
type OBJIndex struct {
	V, VT, VN int
}

// OBJGroup is a run of triangles sharing an object/group name and a material.
type OBJGroup struct {
	Name      string
	Material  string
	Triangles [][3]OBJIndex
}

// OBJ is a parsed Wavefront OBJ file. Polygons are fan-triangulated.
type OBJ struct {
	Positions    [][3]float32
	TexCoords    [][2]float32
	Normals      [][3]float32
	MaterialLibs []string
	Groups       []*OBJGroup
}

// OBJVertex is a unique position/texcoord/normal combination.
type OBJVertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// ParseOBJ parses OBJ data.
func ParseOBJ(data []byte) (*OBJ, error) {
	p := objParser{obj: &OBJ{}}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := p.line(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
	}

	// Drop groups that never received faces.
	groups := p.obj.Groups[:0]
	for _, g := range p.obj.Groups {
		if len(g.Triangles) > 0 {
			groups = append(groups, g)
		}
	}
	p.obj.Groups = groups
	return p.obj, nil
}

// ParseOBJFile reads and parses an OBJ file.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

type objParser struct {
	obj      *OBJ
	current  *OBJGroup
	name     string
	material string
}

func (p *objParser) line(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Positions = append(p.obj.Positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		p.obj.TexCoords = append(p.obj.TexCoords, [2]float32{v[0], v[1]})
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, [3]float32{v[0], v[1], v[2]})
	case "f":
		return p.face(fields[1:])
	case "o", "g":
		p.name = strings.Join(fields[1:], " ")
		p.current = nil
	case "usemtl":
		p.material = strings.Join(fields[1:], " ")
		p.current = nil
	case "mtllib":
		p.obj.MaterialLibs = append(p.obj.MaterialLibs, fields[1:]...)
	}
	return nil
}

func (p *objParser) face(corners []string) error {
	if len(corners) < 3 {
		return ErrDegenerateOBJFace
	}
	idx := make([]OBJIndex, len(corners))
	for i, c := range corners {
		ref, err := p.corner(c)
		if err != nil {
			return err
		}
		idx[i] = ref
	}

	if p.current == nil {
		p.current = &OBJGroup{Name: p.name, Material: p.material}
		p.obj.Groups = append(p.obj.Groups, p.current)
	}
	for i := 1; i+1 < len(idx); i++ {
		p.current.Triangles = append(p.current.Triangles, [3]OBJIndex{idx[0], idx[i], idx[i+1]})
	}
	return nil
}

// corner parses "v", "v/vt", "v//vn" or "v/vt/vn".
func (p *objParser) corner(s string) (OBJIndex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 || parts[0] == "" {
		return OBJIndex{}, fmt.Errorf("%w: face corner %q", ErrInvalidOBJ, s)
	}
	ref := OBJIndex{V: -1, VT: -1, VN: -1}
	var err error
	if ref.V, err = resolveIndex(parts[0], len(p.obj.Positions)); err != nil {
		return ref, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.VT, err = resolveIndex(parts[1], len(p.obj.TexCoords)); err != nil {
			return ref, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.VN, err = resolveIndex(parts[2], len(p.obj.Normals)); err != nil {
			return ref, err
		}
	}
	return ref, nil
}

// resolveIndex converts a one-based or negative (relative) index to zero-based.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrInvalidOBJ, s)
	}
	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, fmt.Errorf("%w: zero index", ErrOBJIndexRange)
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrOBJIndexRange, n, count)
	}
	return idx, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidOBJ, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOBJ, fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// Vertices flattens a group into unique vertices and triangle indices.
// Corners with the same position/texcoord/normal triple share one vertex.
// hasNormals is false if any corner lacks a normal.
func (o *OBJ) Vertices(g *OBJGroup) (vertices []OBJVertex, indices []uint32, hasNormals bool) {
	seen := make(map[OBJIndex]uint32)
	hasNormals = true
	indices = make([]uint32, 0, len(g.Triangles)*3)

	for _, tri := range g.Triangles {
		for _, c := range tri {
			if i, ok := seen[c]; ok {
				indices = append(indices, i)
				continue
			}
			v := OBJVertex{Position: o.Positions[c.V]}
			if c.VT >= 0 {
				v.TexCoord = o.TexCoords[c.VT]
			}
			if c.VN >= 0 {
				v.Normal = o.Normals[c.VN]
			} else {
				hasNormals = false
			}
			i := uint32(len(vertices))
			seen[c] = i
			vertices = append(vertices, v)
			indices = append(indices, i)
		}
	}
	return vertices, indices, hasNormals
}
