package scene

import (
	"math"
	"testing"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/material"
)

func TestNewChessScene_Default(t *testing.T) {
	opts := DefaultChessOptions()
	s, err := NewChessScene(opts)
	if err != nil {
		t.Fatalf("NewChessScene() error: %v", err)
	}

	if s.GetPrimitiveCount() != 135 {
		t.Errorf("Primitive count = %d, want 135", s.GetPrimitiveCount())
	}
	if len(s.Index.Boxes()) != 135 {
		t.Errorf("Box count = %d, want 135", len(s.Index.Boxes()))
	}

	meshes := 0
	for _, p := range s.Primitives {
		if _, ok := p.(*geometry.TriangleMesh); ok {
			meshes++
		}
	}
	if meshes != 5 {
		t.Errorf("Mesh count = %d, want 5", meshes)
	}
}

func TestPlacePiece_Footprint(t *testing.T) {
	models := NewModelLibrary("")
	materials := DefaultMaterials()

	tests := []struct {
		piece    Piece
		row, col int
		size     float64
	}{
		{Knight, 1, 4, 0.8},
		{Pawn, 3, 5, 0.6},
		{Queen, 0, 0, 0.8},
	}

	for _, tt := range tests {
		t.Run(string(tt.piece), func(t *testing.T) {
			mesh, err := PlacePiece(models, tt.piece, materials.ForPiece(tt.piece), tt.row, tt.col, 0)
			if err != nil {
				t.Fatalf("PlacePiece() error: %v", err)
			}

			b := mesh.Bounds()
			size := b.Max.Subtract(b.Min)
			if math.Abs(size.X-tt.size) > 1e-9 || math.Abs(size.Z-tt.size) > 1e-9 {
				t.Errorf("Footprint = %fx%f, want %f", size.X, size.Z, tt.size)
			}
			if math.Abs(b.Min.Y) > 1e-9 {
				t.Errorf("Piece base at y=%f, want 0", b.Min.Y)
			}

			center := b.Center()
			want := SquareCenter(tt.row, tt.col)
			if math.Abs(center.X-want.X) > 1e-9 || math.Abs(center.Z-want.Z) > 1e-9 {
				t.Errorf("Piece centered at (%f, %f), want (%f, %f)", center.X, center.Z, want.X, want.Z)
			}
		})
	}
}

func TestPlacePiece_RotationKeepsBase(t *testing.T) {
	models := NewModelLibrary("")
	mesh, err := PlacePiece(models, Rook, DefaultMaterials().ForPiece(Rook), 2, 3, 37)
	if err != nil {
		t.Fatalf("PlacePiece() error: %v", err)
	}
	if !mesh.Pivot().ApproxEquals(SquareCenter(2, 3), 1e-9) {
		t.Errorf("Pivot = %v, want %v", mesh.Pivot(), SquareCenter(2, 3))
	}
}

func TestNewChessScene_Hits(t *testing.T) {
	opts := DefaultChessOptions()
	s, err := NewChessScene(opts)
	if err != nil {
		t.Fatalf("NewChessScene() error: %v", err)
	}

	tests := []struct {
		name    string
		origin  core.Vec3
		wantMat material.Material
		minDist float64
		maxDist float64
	}{
		{
			name:    "knight from above",
			origin:  SquareCenter(1, 4).Add(core.NewVec3(0.02, 10, 0.03)),
			wantMat: opts.Materials.ForPiece(Knight),
			minDist: 8,
			maxDist: 10 - 0.1,
		},
		{
			name:    "black square",
			origin:  SquareCenter(0, 1).Add(core.NewVec3(0.1, 10, 0.2)),
			wantMat: opts.Materials.BlackSquare,
			minDist: 10 - 1e-9,
			maxDist: 10 + 1e-9,
		},
		{
			name:    "white square",
			origin:  SquareCenter(0, 0).Add(core.NewVec3(0.1, 10, 0.2)),
			wantMat: opts.Materials.WhiteSquare,
			minDist: 10 - 1e-9,
			maxDist: 10 + 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := s.Intersect(core.NewRay(tt.origin, core.NewVec3(0, -1, 0)))
			if !hit.IsHit() {
				t.Fatal("Expected hit")
			}
			if hit.Distance < tt.minDist || hit.Distance > tt.maxDist {
				t.Errorf("Distance = %f, want in [%f, %f]", hit.Distance, tt.minDist, tt.maxDist)
			}
			if hit.Material() != tt.wantMat {
				t.Errorf("Hit material = %#v, want %#v", hit.Material(), tt.wantMat)
			}
		})
	}
}

func TestNewTriangleScene(t *testing.T) {
	s, err := NewTriangleScene(triangleCamera(geometry.DefaultCameraConfig()))
	if err != nil {
		t.Fatalf("NewTriangleScene() error: %v", err)
	}
	if s.GetTriangleCount() != 1 {
		t.Errorf("Triangle count = %d, want 1", s.GetTriangleCount())
	}

	// The camera looks straight down at the triangle
	hit := s.Intersect(s.Camera.GetRay(0, 0))
	if !hit.IsHit() {
		t.Fatal("Center ray should hit the triangle")
	}
	if !hit.FacingNormal().ApproxEquals(core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Facing normal = %v, want up", hit.FacingNormal())
	}
}
