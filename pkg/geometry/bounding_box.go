package geometry

import (
	"sort"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// BoxPadding grows wrapping boxes so flat objects still have volume
const BoxPadding = 1e-4

// BoundingBox wraps one scene object in a coarse volume of triangles
type BoundingBox struct {
	Triangles []*Triangle // 12 box faces, or the object itself when it is a single triangle
	Inside    []Primitive // Primitives tested once the box is hit
}

// NewBoundingBox builds the wrapping volume for p
func NewBoundingBox(p Primitive) *BoundingBox {
	if t, ok := p.(*Triangle); ok {
		return &BoundingBox{Triangles: []*Triangle{t}, Inside: []Primitive{t}}
	}

	c := p.Bounds().Expand(BoxPadding).Corners()
	base := material.NewBaseMaterial()
	faces := [12][3]int{
		{1, 6, 5}, {1, 2, 6}, // +X
		{0, 2, 1}, {0, 3, 2}, // -Z
		{4, 5, 6}, {4, 6, 7}, // +Z
		{0, 7, 3}, {0, 4, 7}, // -X
		{3, 6, 2}, {3, 7, 6}, // +Y
		{0, 5, 4}, {0, 1, 5}, // -Y
	}

	box := &BoundingBox{Triangles: make([]*Triangle, 0, len(faces)), Inside: []Primitive{p}}
	for _, f := range faces {
		box.Triangles = append(box.Triangles, NewTriangle(c[f[0]], c[f[1]], c[f[2]], base))
	}
	return box
}

// hitBox returns the closest hit of ray with the box's own triangles
func (b *BoundingBox) hitBox(ray core.Ray, opts IntersectOptions) material.HitPayload {
	closest := material.NoHit()
	for _, t := range b.Triangles {
		if hit := t.Intersect(ray, opts); hit.Distance < closest.Distance {
			closest = hit
		}
	}
	return closest
}

// BoxIndex is the two-level acceleration structure: boxes first, then the primitives inside them
type BoxIndex struct {
	boxes []*BoundingBox
	opts  IntersectOptions
}

// NewBoxIndex wraps every primitive in its own bounding box
func NewBoxIndex(primitives []Primitive, opts IntersectOptions) *BoxIndex {
	boxes := make([]*BoundingBox, len(primitives))
	for i, p := range primitives {
		boxes[i] = NewBoundingBox(p)
	}
	return &BoxIndex{boxes: boxes, opts: opts}
}

type boxHit struct {
	distance float64
	box      *BoundingBox
}

// Intersect returns the closest primitive hit along ray.
// Boxes are visited nearest-first and every hit box is tested.
func (idx *BoxIndex) Intersect(ray core.Ray) material.HitPayload {
	hits := make([]boxHit, 0, 8)
	for _, box := range idx.boxes {
		if hit := box.hitBox(ray, idx.opts); hit.IsHit() {
			hits = append(hits, boxHit{distance: hit.Distance, box: box})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})

	closest := material.NoHit()
	for _, h := range hits {
		for _, p := range h.box.Inside {
			if hit := p.Intersect(ray, idx.opts); hit.Distance < closest.Distance {
				closest = hit
			}
		}
	}
	return closest
}

// Boxes returns the bounding boxes in primitive order
func (idx *BoxIndex) Boxes() []*BoundingBox {
	return idx.boxes
}

// Options returns the intersection tolerances used by the index
func (idx *BoxIndex) Options() IntersectOptions {
	return idx.opts
}
