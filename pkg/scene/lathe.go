package scene

import (
	"fmt"
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// DefaultLatheSegments is the number of slices around the Y axis for generated pieces
const DefaultLatheSegments = 24

// NewLatheMesh sweeps a profile around the Y axis. Each profile point is (radius, height),
// ordered bottom to top. The bottom is closed with a cap; the top is closed with a cap, or
// with an apex when the last point has zero radius. All faces point outward.
func NewLatheMesh(profile []core.Vec2, segments int, mat material.Material) (*geometry.TriangleMesh, error) {
	if segments < 3 {
		return nil, fmt.Errorf("lathe needs at least 3 segments, got %d", segments)
	}
	if len(profile) < 2 {
		return nil, fmt.Errorf("lathe needs at least 2 profile points, got %d", len(profile))
	}

	rings := profile
	apex := profile[len(profile)-1].X == 0
	if apex {
		rings = profile[:len(profile)-1]
	}
	for i, p := range rings {
		if p.X <= 0 {
			return nil, fmt.Errorf("profile point %d has non-positive radius %g", i, p.X)
		}
	}

	vertices := []core.Vec3{core.NewVec3(0, rings[0].Y, 0)}
	for _, p := range rings {
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			vertices = append(vertices, core.NewVec3(p.X*math.Cos(theta), p.Y, p.X*math.Sin(theta)))
		}
	}
	top := profile[len(profile)-1]
	topIndex := len(vertices)
	vertices = append(vertices, core.NewVec3(0, top.Y, 0))

	ring := func(k, s int) int {
		return 1 + k*segments + s%segments
	}

	var faces [][3]int
	for s := 0; s < segments; s++ {
		faces = append(faces, [3]int{0, ring(0, s), ring(0, s+1)})
	}
	for k := 0; k+1 < len(rings); k++ {
		for s := 0; s < segments; s++ {
			a, b := ring(k, s), ring(k, s+1)
			d, c := ring(k+1, s), ring(k+1, s+1)
			faces = append(faces, [3]int{a, d, c}, [3]int{a, c, b})
		}
	}
	last := len(rings) - 1
	for s := 0; s < segments; s++ {
		a, b := ring(last, s), ring(last, s+1)
		if apex {
			faces = append(faces, [3]int{a, topIndex, b})
		} else {
			faces = append(faces, [3]int{topIndex, b, a})
		}
	}

	return geometry.NewTriangleMesh(vertices, faces, mat)
}

// pieceProfiles are the fallback silhouettes used when no model file exists for a piece
var pieceProfiles = map[Piece][]core.Vec2{
	Pawn: {
		{X: 0.5, Y: 0}, {X: 0.5, Y: 0.12}, {X: 0.32, Y: 0.28}, {X: 0.2, Y: 0.75},
		{X: 0.34, Y: 0.85}, {X: 0.18, Y: 0.95}, {X: 0.28, Y: 1.1}, {X: 0.26, Y: 1.25},
		{X: 0.14, Y: 1.38}, {X: 0, Y: 1.42},
	},
	Rook: {
		{X: 0.5, Y: 0}, {X: 0.5, Y: 0.18}, {X: 0.36, Y: 0.32}, {X: 0.3, Y: 1.2},
		{X: 0.44, Y: 1.3}, {X: 0.44, Y: 1.62}, {X: 0.34, Y: 1.62}, {X: 0.34, Y: 1.5},
		{X: 0, Y: 1.5},
	},
	Knight: {
		{X: 0.5, Y: 0}, {X: 0.5, Y: 0.18}, {X: 0.36, Y: 0.3}, {X: 0.24, Y: 0.8},
		{X: 0.4, Y: 1.1}, {X: 0.42, Y: 1.4}, {X: 0.3, Y: 1.7}, {X: 0.12, Y: 1.85},
		{X: 0, Y: 1.88},
	},
	Bishop: {
		{X: 0.5, Y: 0}, {X: 0.5, Y: 0.16}, {X: 0.34, Y: 0.3}, {X: 0.2, Y: 1.0},
		{X: 0.36, Y: 1.1}, {X: 0.2, Y: 1.2}, {X: 0.3, Y: 1.45}, {X: 0.22, Y: 1.75},
		{X: 0.08, Y: 1.9}, {X: 0.1, Y: 1.98}, {X: 0, Y: 2.05},
	},
	Queen: {
		{X: 0.55, Y: 0}, {X: 0.55, Y: 0.18}, {X: 0.38, Y: 0.32}, {X: 0.22, Y: 1.3},
		{X: 0.4, Y: 1.42}, {X: 0.24, Y: 1.52}, {X: 0.34, Y: 1.9}, {X: 0.4, Y: 2.05},
		{X: 0.22, Y: 2.1}, {X: 0.1, Y: 2.2}, {X: 0, Y: 2.26},
	},
	King: {
		{X: 0.55, Y: 0}, {X: 0.55, Y: 0.18}, {X: 0.38, Y: 0.32}, {X: 0.24, Y: 1.4},
		{X: 0.42, Y: 1.52}, {X: 0.26, Y: 1.62}, {X: 0.36, Y: 2.0}, {X: 0.3, Y: 2.12},
		{X: 0.08, Y: 2.16}, {X: 0.08, Y: 2.45}, {X: 0, Y: 2.5},
	},
}

// NewPieceMesh builds the fallback lathe mesh for a piece
func NewPieceMesh(p Piece, mat material.Material) (*geometry.TriangleMesh, error) {
	profile, ok := pieceProfiles[p]
	if !ok {
		return nil, fmt.Errorf("piece %q: %w", p, ErrUnknownPiece)
	}
	return NewLatheMesh(profile, DefaultLatheSegments, mat)
}
