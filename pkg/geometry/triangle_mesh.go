package geometry

import (
	"fmt"
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// BaseSmoothness is the smoothness meshes start with
const BaseSmoothness = 1.0

// TriangleMesh is a shared vertex buffer plus triangle index buffer.
// Face normals, face edges and vertex normals are derived from the vertices. Every method that
// moves vertices rebuilds them before returning, so a mesh is always ready for intersection.
type TriangleMesh struct {
	vertices []core.Vec3
	faces    [][3]int // 0-based vertex indices, counter-clockwise

	normals       []core.Vec3    // Unit normal per face
	edges         [][2]core.Vec3 // AB and AC per face
	vertexNormals []core.Vec3    // Average of incident face normals per vertex

	material   material.Material
	Smooth     bool    // Interpolate vertex normals instead of using the face normal
	Smoothness float64 // Blend between vertex normals (1) and the face normal (0)
}

// NewTriangleMesh creates a mesh from vertices and 0-based triangle indices
func NewTriangleMesh(vertices []core.Vec3, faces [][3]int, mat material.Material) (*TriangleMesh, error) {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil, ErrEmptyMesh
	}
	for i, face := range faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", i, idx, len(vertices), ErrFaceIndexOutOfRange)
			}
		}
	}

	m := &TriangleMesh{
		vertices:      append([]core.Vec3(nil), vertices...),
		faces:         append([][3]int(nil), faces...),
		vertexNormals: make([]core.Vec3, len(vertices)),
		material:      mat,
		Smooth:        true,
		Smoothness:    BaseSmoothness,
	}
	m.UpdateEdgesAndNormals()
	return m, nil
}

// Clone returns an independent copy of the mesh that shares only the material
func (m *TriangleMesh) Clone() *TriangleMesh {
	c := *m
	c.vertices = append([]core.Vec3(nil), m.vertices...)
	c.faces = append([][3]int(nil), m.faces...)
	c.normals = append([]core.Vec3(nil), m.normals...)
	c.edges = append([][2]core.Vec3(nil), m.edges...)
	c.vertexNormals = append([]core.Vec3(nil), m.vertexNormals...)
	return &c
}

// UpdateEdgesAndNormals recomputes per-face edges and normals and per-vertex normals.
// A vertex that no face references keeps whatever normal it had before.
func (m *TriangleMesh) UpdateEdgesAndNormals() {
	m.normals = make([]core.Vec3, len(m.faces))
	m.edges = make([][2]core.Vec3, len(m.faces))

	sums := make([]core.Vec3, len(m.vertices))
	counts := make([]int, len(m.vertices))

	for i, face := range m.faces {
		a, b, c := m.vertices[face[0]], m.vertices[face[1]], m.vertices[face[2]]
		edgeAB := b.Subtract(a)
		edgeAC := c.Subtract(a)
		normal := edgeAB.Cross(edgeAC).Normalize()

		m.edges[i] = [2]core.Vec3{edgeAB, edgeAC}
		m.normals[i] = normal
		for _, idx := range face {
			sums[idx] = sums[idx].Add(normal)
			counts[idx]++
		}
	}

	for i := range m.vertices {
		if counts[i] > 0 {
			m.vertexNormals[i] = sums[i].Divide(float64(counts[i]))
		}
	}
}

// Intersect returns the closest hit over all faces
func (m *TriangleMesh) Intersect(ray core.Ray, opts IntersectOptions) material.HitPayload {
	closest := material.NoHit()
	for i, face := range m.faces {
		normal := m.normals[i]
		normals := [3]core.Vec3{normal, normal, normal}
		if m.Smooth {
			normals = [3]core.Vec3{m.vertexNormals[face[0]], m.vertexNormals[face[1]], m.vertexNormals[face[2]]}
		}

		hit := IntersectTriangle(ray, m.vertices[face[0]], m.edges[i][0], m.edges[i][1], normal, normals, m.Smoothness, opts)
		if hit.Distance < closest.Distance {
			closest = hit
		}
	}
	if closest.IsHit() {
		closest.Surface = m
	}
	return closest
}

// Bounds returns the axis-aligned bounding box of all vertices
func (m *TriangleMesh) Bounds() core.AABB {
	return core.NewAABBFromPoints(m.vertices...)
}

// Material returns the mesh's material
func (m *TriangleMesh) Material() material.Material {
	return m.material
}

// SetMaterial replaces the material shared by every face
func (m *TriangleMesh) SetMaterial(mat material.Material) {
	m.material = mat
}

// Pivot returns the centroid of all vertices that share the minimum Y coordinate
func (m *TriangleMesh) Pivot() core.Vec3 {
	minY := math.Inf(1)
	for _, v := range m.vertices {
		minY = math.Min(minY, v.Y)
	}

	var center core.Vec3
	count := 0
	for _, v := range m.vertices {
		if v.Y == minY {
			center = center.Add(v)
			count++
		}
	}
	return center.Divide(float64(count))
}

// SetCenter translates the mesh so its pivot sits at point
func (m *TriangleMesh) SetCenter(point core.Vec3) {
	diff := m.Pivot().Subtract(point)
	for i := range m.vertices {
		m.vertices[i] = m.vertices[i].Subtract(diff)
	}
	m.UpdateEdgesAndNormals()
}

// Fit1x1 rescales the mesh so its X/Z footprint spans xOffset by zOffset with the minimum corner at the origin.
// Y is scaled by the X factor, not by its own extent.
func (m *TriangleMesh) Fit1x1(xOffset, zOffset float64) error {
	bounds := m.Bounds()
	xScale := bounds.Max.X - bounds.Min.X
	zScale := bounds.Max.Z - bounds.Min.Z
	if xScale == 0 || zScale == 0 {
		return fmt.Errorf("fit mesh to %gx%g: %w", xOffset, zOffset, ErrDegenerateExtent)
	}

	for i, v := range m.vertices {
		m.vertices[i] = core.NewVec3(
			(v.X-bounds.Min.X)/xScale*xOffset,
			(v.Y-bounds.Min.Y)/xScale*xOffset,
			(v.Z-bounds.Min.Z)/zScale*zOffset,
		)
	}
	m.UpdateEdgesAndNormals()
	return nil
}

// RotateY rotates the mesh about the vertical axis through its pivot
func (m *TriangleMesh) RotateY(degrees float64) {
	pivot := m.Pivot()
	radians := degrees * math.Pi / 180
	for i := range m.vertices {
		m.vertices[i] = m.vertices[i].RotateY(pivot, radians)
	}
	m.UpdateEdgesAndNormals()
}

// Vertices returns the vertex buffer. Callers must not modify it.
func (m *TriangleMesh) Vertices() []core.Vec3 { return m.vertices }

// Faces returns the index buffer. Callers must not modify it.
func (m *TriangleMesh) Faces() [][3]int { return m.faces }

// FaceNormals returns the cached per-face unit normals
func (m *TriangleMesh) FaceNormals() []core.Vec3 { return m.normals }

// Edges returns the cached AB/AC edge pair per face
func (m *TriangleMesh) Edges() [][2]core.Vec3 { return m.edges }

// VertexNormals returns the cached per-vertex normals
func (m *TriangleMesh) VertexNormals() []core.Vec3 { return m.vertexNormals }

// NumFaces returns the number of triangles in the mesh
func (m *TriangleMesh) NumFaces() int { return len(m.faces) }
