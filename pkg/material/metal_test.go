package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/chess-pathtracer/pkg/core"
)

func TestMetal_PerfectMirror(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.6, 0.9)
	metal := NewMetal(albedo, 0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	tests := []struct {
		name     string
		incoming core.Vec3
		normal   core.Vec3
		expected core.Vec3
	}{
		{"normal incidence", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)},
		{"45 degrees", core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 0).Normalize()},
		{"side wall", core.NewVec3(1, 0, 1), core.NewVec3(-1, 0, 0), core.NewVec3(-1, 0, 1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point := core.NewVec3(2, 0, 3)
			ray := core.NewRay(point.Subtract(tt.incoming), tt.incoming)
			hit := hitAt(point, tt.normal, true, metal)

			scatter, ok := metal.Scatter(ray, hit, NewDepth(5), sampler)
			if !ok {
				t.Fatal("Metal should scatter")
			}
			if !scatter.SkipPDF {
				t.Error("Metal should skip the PDF")
			}
			if scatter.Damping != albedo {
				t.Errorf("Expected damping %v, got %v", albedo, scatter.Damping)
			}
			if scatter.SkipPDFRay.Origin != point {
				t.Errorf("Expected reflected ray to start at %v, got %v", point, scatter.SkipPDFRay.Origin)
			}
			if !scatter.SkipPDFRay.Direction.ApproxEquals(tt.expected, 1e-12) {
				t.Errorf("Expected direction %v, got %v", tt.expected, scatter.SkipPDFRay.Direction)
			}
		})
	}
}

func TestMetal_NormalIncidenceIsExact(t *testing.T) {
	metal := NewMetal(BaseAlbedo, 0)
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	hit := hitAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), true, metal)

	scatter, _ := metal.Scatter(ray, hit, NewDepth(1), core.NewSeededSampler(3))
	if scatter.SkipPDFRay.Direction != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected exactly (0,1,0), got %v", scatter.SkipPDFRay.Direction)
	}
}

func TestMetal_Fuzz(t *testing.T) {
	metal := NewMetal(BaseAlbedo, 0.3)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := hitAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), true, metal)
	mirror := core.NewVec3(0, 1, 0)

	for i := 0; i < 100; i++ {
		scatter, _ := metal.Scatter(ray, hit, NewDepth(5), sampler)
		dir := scatter.SkipPDFRay.Direction
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Direction not normalized: %v", dir)
		}
		// A fuzz of 0.3 keeps the direction within asin(0.3) of the mirror direction
		if dir.Dot(mirror) < math.Cos(math.Asin(0.3))-1e-9 {
			t.Fatalf("Fuzzed direction %v strays too far from mirror", dir)
		}
	}
}

func TestMetal_FuzzClamped(t *testing.T) {
	if m := NewMetal(BaseAlbedo, 2); m.Fuzz != 1 {
		t.Errorf("Expected fuzz clamped to 1, got %f", m.Fuzz)
	}
	if m := NewMetal(BaseAlbedo, -1); m.Fuzz != 0 {
		t.Errorf("Expected fuzz clamped to 0, got %f", m.Fuzz)
	}
}
