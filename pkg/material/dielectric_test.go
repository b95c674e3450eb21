package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/chess-pathtracer/pkg/core"
)

func TestReflectance(t *testing.T) {
	tests := []struct {
		name   string
		cosine float64
		ratio  float64
	}{
		{"entering glass", 1.0, 1 / 1.5},
		{"leaving glass", 1.0, 1.5},
		{"water", 1.0, 1 / 1.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r0 := (1 - tt.ratio) / (1 + tt.ratio)
			r0 = r0 * r0
			if got := Reflectance(tt.cosine, tt.ratio); got != r0 {
				t.Errorf("Reflectance at normal incidence = %v, expected r0 = %v", got, r0)
			}
		})
	}

	// Grazing angles reflect everything
	if got := Reflectance(0, 1/1.5); math.Abs(got-1) > 1e-12 {
		t.Errorf("Reflectance at grazing angle = %f, expected 1", got)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewClearDielectric(1.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Leaving glass at 60 degrees from the normal: 1.5*sin(60°) > 1
	direction := core.NewVec3(math.Sin(math.Pi/3), math.Cos(math.Pi/3), 0)
	point := core.NewVec3(0, 0, 0)
	ray := core.NewRay(point.Subtract(direction), direction)
	hit := hitAt(point, core.NewVec3(0, 1, 0), false, glass)

	expected := core.NewVec3(direction.X, -direction.Y, 0)
	for i := 0; i < 50; i++ {
		scatter, ok := glass.Scatter(ray, hit, NewDepth(5), sampler)
		if !ok || !scatter.SkipPDF {
			t.Fatal("Dielectric should scatter with a deterministic ray")
		}
		if !scatter.SkipPDFRay.Direction.ApproxEquals(expected, 1e-9) {
			t.Fatalf("Expected total internal reflection %v, got %v", expected, scatter.SkipPDFRay.Direction)
		}
	}
}

func TestDielectric_ReflectsAndRefracts(t *testing.T) {
	glass := NewClearDielectric(1.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	direction := core.NewVec3(1, -1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(-1, 1, 0), direction)
	hit := hitAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), true, glass)

	hasReflection, hasRefraction := false, false
	for i := 0; i < 500; i++ {
		scatter, _ := glass.Scatter(ray, hit, NewDepth(5), sampler)
		dir := scatter.SkipPDFRay.Direction
		if dir.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
			// Snell: sin θt = sin θi / 1.5
			sinT := math.Sqrt(dir.X*dir.X + dir.Z*dir.Z)
			if math.Abs(sinT-math.Sqrt2/2/1.5) > 1e-9 {
				t.Fatalf("Refracted sin θ = %f, expected %f", sinT, math.Sqrt2/2/1.5)
			}
		}
		// The continuation starts just off the surface along its own direction
		offset := scatter.SkipPDFRay.Origin.Subtract(hit.Point)
		if !offset.ApproxEquals(dir.Multiply(SelfIntersectionOffset), 1e-12) {
			t.Fatalf("Unexpected origin offset %v for direction %v", offset, dir)
		}
	}
	if !hasReflection || !hasRefraction {
		t.Errorf("Expected both reflection and refraction, got reflection=%v refraction=%v", hasReflection, hasRefraction)
	}
}

func TestDielectric_DampingByDepth(t *testing.T) {
	albedo := core.NewVec3(0.6, 1, 0.6)
	transparency := core.NewVec3(1, 1, 1)
	glass := NewDielectric(1.5, albedo, transparency)
	sampler := core.NewSeededSampler(9)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := hitAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), true, glass)

	tests := []struct {
		name     string
		depth    Depth
		expected core.Vec3
	}{
		{"first bounce uses albedo", Depth{Remaining: 20, Max: 20}, albedo},
		{"later bounce uses transparency", Depth{Remaining: 19, Max: 20}, transparency},
		{"last bounce uses transparency", Depth{Remaining: 1, Max: 20}, transparency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scatter, _ := glass.Scatter(ray, hit, tt.depth, sampler)
			if scatter.Damping != tt.expected {
				t.Errorf("Expected damping %v, got %v", tt.expected, scatter.Damping)
			}
		})
	}
}
