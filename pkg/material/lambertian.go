package material

import (
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Fraction of light reflected per channel
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter always scatters, handing back a cosine PDF around the hit normal
func (l *Lambertian) Scatter(ray core.Ray, hit HitPayload, depth Depth, sampler core.Sampler) (ScatterPayload, bool) {
	return ScatterPayload{
		Damping: l.Albedo,
		PDF:     NewCosinePDF(hit.FacingNormal()),
	}, true
}

// ScatteringPDF returns max(0, cos θ)/π between the hit normal and the scattered direction
func (l *Lambertian) ScatteringPDF(ray core.Ray, hit HitPayload, scattered core.Ray) float64 {
	cosTheta := hit.FacingNormal().Dot(scattered.Direction.Normalize())
	return math.Max(0, cosTheta/math.Pi)
}
