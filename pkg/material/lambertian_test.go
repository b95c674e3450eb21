package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/chess-pathtracer/pkg/core"
)

func TestLambertian_ScatteringPDF(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.8, 0.8, 0.8))
	normal := core.NewVec3(0, 1, 0)
	hit := hitAt(core.NewVec3(0, 0, 0), normal, true, lambertian)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	tests := []struct {
		name      string
		direction core.Vec3
		expected  float64
	}{
		{"along normal", core.NewVec3(0, 1, 0), 1 / math.Pi},
		{"45 degrees", core.NewVec3(1, 1, 0), math.Sqrt2 / 2 / math.Pi},
		{"grazing", core.NewVec3(1, 0, 0), 0},
		{"below surface is clamped", core.NewVec3(0, -1, 0), 0},
		{"unnormalized direction", core.NewVec3(0, 5, 0), 1 / math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scattered := core.NewRayThrough(hit.Point, hit.Point.Add(tt.direction))
			got := lambertian.ScatteringPDF(ray, hit, scattered)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("ScatteringPDF = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestLambertian_Scatter(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	hit := hitAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), true, lambertian)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	scatter, didScatter := lambertian.Scatter(ray, hit, NewDepth(5), sampler)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}
	if scatter.SkipPDF {
		t.Error("Lambertian should sample its PDF")
	}
	if scatter.Damping != albedo {
		t.Errorf("Expected damping %v, got %v", albedo, scatter.Damping)
	}
	if scatter.PDF == nil {
		t.Fatal("Expected a PDF")
	}

	// Sampled directions stay in the upper hemisphere
	for i := 0; i < 200; i++ {
		dir := scatter.PDF.Generate(sampler)
		if dir.Z < -1e-9 {
			t.Fatalf("Sample %d below surface: %v", i, dir)
		}
	}
}

func TestLambertian_BackFaceUsesFacingNormal(t *testing.T) {
	lambertian := NewLambertian(BaseAlbedo)
	// Ray arrives from below a surface whose normal points up
	hit := hitAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), false, lambertian)
	ray := core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))

	down := core.NewRayThrough(hit.Point, core.NewVec3(0, -1, 0))
	if got := lambertian.ScatteringPDF(ray, hit, down); math.Abs(got-1/math.Pi) > 1e-12 {
		t.Errorf("Expected 1/π for a back-face hit scattering back down, got %f", got)
	}
}
