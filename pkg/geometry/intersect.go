package geometry

import (
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// IntersectOptions controls the numeric tolerances of ray-triangle intersection
type IntersectOptions struct {
	ParallelPrecision float64 // Determinants below this are treated as parallel
	MinDistance       float64 // Hits closer than this are ignored (avoids shadow acne)
}

// DefaultIntersectOptions returns the tolerances used by the renderer
func DefaultIntersectOptions() IntersectOptions {
	return IntersectOptions{
		ParallelPrecision: 1e-3,
		MinDistance:       0.01,
	}
}

// IntersectTriangle tests a ray against a triangle using the Möller-Trumbore algorithm.
// normals holds the shading normal at A, B and C; each is blended with faceNormal by smoothness
// before being interpolated with the barycentric coordinates of the hit.
// The returned payload has no Surface set.
func IntersectTriangle(ray core.Ray, a, edgeAB, edgeAC, faceNormal core.Vec3, normals [3]core.Vec3, smoothness float64, opts IntersectOptions) material.HitPayload {
	payload := material.NoHit()

	pVec := ray.Direction.Cross(edgeAC)
	det := edgeAB.Dot(pVec)

	// Ray lies in (or nearly in) the triangle's plane
	if math.Abs(det) < opts.ParallelPrecision {
		return payload
	}

	invDet := 1.0 / det
	tVec := ray.Origin.Subtract(a)

	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return payload
	}

	qVec := tVec.Cross(edgeAB)
	v := ray.Direction.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return payload
	}

	t := edgeAC.Dot(qVec) * invDet
	if t < opts.MinDistance {
		return payload
	}

	n0 := blendNormal(normals[0], faceNormal, smoothness)
	n1 := blendNormal(normals[1], faceNormal, smoothness)
	n2 := blendNormal(normals[2], faceNormal, smoothness)
	normal := n0.Multiply(1 - u - v).Add(n1.Multiply(u)).Add(n2.Multiply(v))

	payload.U = u
	payload.V = v
	payload.Distance = t
	payload.Point = ray.At(t)
	payload.Normal = normal.Normalize()
	payload.FrontFace = det > 0
	return payload
}

func blendNormal(vertexNormal, faceNormal core.Vec3, smoothness float64) core.Vec3 {
	return vertexNormal.Multiply(smoothness).Add(faceNormal.Multiply(1 - smoothness))
}
