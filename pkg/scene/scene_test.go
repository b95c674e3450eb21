package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/material"
)

type unknownPrimitive struct{}

func (unknownPrimitive) Intersect(ray core.Ray, opts geometry.IntersectOptions) material.HitPayload {
	return material.NoHit()
}
func (unknownPrimitive) Bounds() core.AABB            { return core.AABB{} }
func (unknownPrimitive) Material() material.Material { return material.NewBaseMaterial() }

func TestNewScene_Defaults(t *testing.T) {
	s, err := NewScene("test", geometry.DefaultCameraConfig())
	if err != nil {
		t.Fatalf("NewScene() error: %v", err)
	}

	if s.SamplingConfig.Width != 1280 || s.SamplingConfig.Height != 720 {
		t.Errorf("Resolution = %dx%d, want 1280x720", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.SamplingConfig.SamplesPerPixel() != 9 {
		t.Errorf("SamplesPerPixel = %d, want 9", s.SamplingConfig.SamplesPerPixel())
	}
	if s.SamplingConfig.MaxDepth != 20 {
		t.Errorf("MaxDepth = %d, want 20", s.SamplingConfig.MaxDepth)
	}
	if s.Light.Intensity != 15 {
		t.Errorf("Light intensity = %f, want 15", s.Light.Intensity)
	}
}

func TestNewScene_DegenerateCamera(t *testing.T) {
	cfg := geometry.DefaultCameraConfig()
	cfg.Position = core.NewVec3(0, 5, 0)
	cfg.LookAt = core.NewVec3(0, 0, 0)

	_, err := NewScene("bad", cfg)
	if !errors.Is(err, geometry.ErrDegenerateCamera) {
		t.Errorf("NewScene() error = %v, want ErrDegenerateCamera", err)
	}
}

func TestPreprocess_Validation(t *testing.T) {
	lambert := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	tests := []struct {
		name    string
		prims   []geometry.Primitive
		wantErr error
	}{
		{
			name:  "triangle",
			prims: []geometry.Primitive{geometry.NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), lambert)},
		},
		{
			name:    "unsupported type",
			prims:   []geometry.Primitive{unknownPrimitive{}},
			wantErr: ErrUnsupportedPrimitive,
		},
		{
			name:    "nil primitive",
			prims:   []geometry.Primitive{nil},
			wantErr: ErrUnsupportedPrimitive,
		},
		{
			name:    "missing material",
			prims:   []geometry.Primitive{geometry.NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)},
			wantErr: ErrMissingMaterial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScene(tt.name, geometry.DefaultCameraConfig())
			if err != nil {
				t.Fatalf("NewScene() error: %v", err)
			}
			s.Add(tt.prims...)

			err = s.Preprocess()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Preprocess() error: %v", err)
				}
				if s.Index == nil {
					t.Error("Preprocess() did not build the index")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Preprocess() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScene_IntersectBeforePreprocess(t *testing.T) {
	s, err := NewTriangleScene(geometry.DefaultCameraConfig())
	if err != nil {
		t.Fatalf("NewTriangleScene() error: %v", err)
	}

	down := core.NewRay(core.NewVec3(1, 5, 1), core.NewVec3(0, -1, 0))
	if hit := s.Intersect(down); !hit.IsHit() {
		t.Fatal("Expected hit on the triangle")
	}

	s.Add(geometry.NewTriangle(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 8), core.NewVec3(8, 1, 0), material.NewBaseMaterial()))
	if hit := s.Intersect(down); hit.IsHit() {
		t.Error("Add should invalidate the index until Preprocess runs")
	}

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess() error: %v", err)
	}
	hit := s.Intersect(down)
	if math.Abs(hit.Distance-4) > 1e-9 {
		t.Errorf("Distance = %f, want 4 (upper triangle)", hit.Distance)
	}
}

func TestScene_Counts(t *testing.T) {
	s, err := NewBoardScene(DefaultChessOptions())
	if err != nil {
		t.Fatalf("NewBoardScene() error: %v", err)
	}
	if s.GetPrimitiveCount() != 130 {
		t.Errorf("Primitive count = %d, want 130", s.GetPrimitiveCount())
	}
	if s.GetTriangleCount() != 130 {
		t.Errorf("Triangle count = %d, want 130", s.GetTriangleCount())
	}
}
