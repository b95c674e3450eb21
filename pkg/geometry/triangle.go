package geometry

import (
	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three counter-clockwise vertices.
// Edges and normal are derived once at construction; a Triangle is never mutated afterwards.
type Triangle struct {
	A, B, C                core.Vec3 // The three vertices
	EdgeAB, EdgeAC, EdgeBC core.Vec3 // Cached edge vectors
	normal                 core.Vec3 // Cached unit normal
	material               material.Material
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(a, b, c core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{A: a, B: b, C: c, material: mat}
	t.EdgeAB = b.Subtract(a)
	t.EdgeAC = c.Subtract(a)
	t.EdgeBC = c.Subtract(b)

	// Counter-clockwise winding gives the outward normal
	t.normal = t.EdgeAB.Cross(t.EdgeAC).Normalize()
	return t
}

// Intersect tests the ray against the triangle's flat face
func (t *Triangle) Intersect(ray core.Ray, opts IntersectOptions) material.HitPayload {
	normals := [3]core.Vec3{t.normal, t.normal, t.normal}
	hit := IntersectTriangle(ray, t.A, t.EdgeAB, t.EdgeAC, t.normal, normals, 1.0, opts)
	if hit.IsHit() {
		hit.Surface = t
	}
	return hit
}

// Bounds returns the axis-aligned bounding box for this triangle
func (t *Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(t.A, t.B, t.C)
}

// Material returns the triangle's material
func (t *Triangle) Material() material.Material {
	return t.material
}

// Normal returns the triangle's unit normal vector
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// SetCenter returns a copy of the triangle translated so its minimum corner sits at point
func (t *Triangle) SetCenter(point core.Vec3) *Triangle {
	diff := t.Bounds().Min.Subtract(point)
	return NewTriangle(t.A.Subtract(diff), t.B.Subtract(diff), t.C.Subtract(diff), t.material)
}

