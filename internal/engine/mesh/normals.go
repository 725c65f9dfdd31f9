package mesh

import "github.com/chewxy/math32"

// GenerateNormals fills vertex normals from the area-weighted normals of the
// faces that use each vertex, then averages normals of vertices sharing a
// position so split UV seams do not show as creases.
func GenerateNormals(vertices []Vertex, faces []Face) {
	for i := range vertices {
		vertices[i].Normal = [3]float32{}
	}

	for _, f := range faces {
		p0 := vertices[f[0]].Position
		p1 := vertices[f[1]].Position
		p2 := vertices[f[2]].Position
		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := cross(e1, e2)
		for _, idx := range f {
			v := &vertices[idx]
			v.Normal[0] += n[0]
			v.Normal[1] += n[1]
			v.Normal[2] += n[2]
		}
	}

	smoothByPosition(vertices)

	for i := range vertices {
		vertices[i].Normal = normalize(vertices[i].Normal)
	}
}

// smoothByPosition sums normals of vertices at the same quantized position.
func smoothByPosition(vertices []Vertex) {
	const epsilon float32 = 0.001

	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}
		for _, idx := range idxs {
			vertices[idx].Normal = sum
		}
	}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// normalize falls back to +Y for degenerate input.
func normalize(v [3]float32) [3]float32 {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}
