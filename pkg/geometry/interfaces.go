package geometry

import (
	"errors"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/material"
)

var (
	// ErrFaceIndexOutOfRange is returned when a face references a vertex that does not exist
	ErrFaceIndexOutOfRange = errors.New("face index out of range")
	// ErrEmptyMesh is returned when a mesh has no vertices or no faces
	ErrEmptyMesh = errors.New("mesh has no geometry")
	// ErrDegenerateExtent is returned when a mesh cannot be rescaled because it is flat along an axis
	ErrDegenerateExtent = errors.New("mesh has zero extent")
	// ErrDegenerateCamera is returned when the look direction is parallel to the up vector
	ErrDegenerateCamera = errors.New("camera look direction is parallel to up vector")
)

// Primitive is a renderable object that can be intersected by rays
type Primitive interface {
	material.Surface

	// Intersect returns the closest hit of ray with the primitive, or material.NoHit()
	Intersect(ray core.Ray, opts IntersectOptions) material.HitPayload

	// Bounds returns the axis-aligned extent of the primitive
	Bounds() core.AABB
}
