package material

import (
	"github.com/df07/chess-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	// Clamp fuzz to valid range
	if fuzz > 1.0 {
		fuzz = 1.0
	}
	if fuzz < 0.0 {
		fuzz = 0.0
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter reflects the ray about the hit normal and perturbs it by the fuzz
func (m *Metal) Scatter(ray core.Ray, hit HitPayload, depth Depth, sampler core.Sampler) (ScatterPayload, bool) {
	reflected := ray.Reflected(hit.Normal)

	// A perfect mirror draws no random numbers
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz))
	}

	return ScatterPayload{
		Damping:    m.Albedo,
		SkipPDF:    true,
		SkipPDFRay: core.NewRayThrough(hit.Point, hit.Point.Add(reflected)),
	}, true
}

// ScatteringPDF is zero: metal never samples a PDF
func (m *Metal) ScatteringPDF(ray core.Ray, hit HitPayload, scattered core.Ray) float64 {
	return 0
}
