package material

import (
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
)

// NoHitDistance is the hit distance of a payload that did not hit anything
const NoHitDistance = math.MaxFloat64

// Material decides how light continues after a ray hits a surface
type Material interface {
	// Scatter reports whether the ray continues and, if so, how.
	// The payload either carries a deterministic follow-up ray (SkipPDF) or a PDF to sample.
	Scatter(ray core.Ray, hit HitPayload, depth Depth, sampler core.Sampler) (ScatterPayload, bool)

	// ScatteringPDF evaluates the scattering density for a concrete outgoing ray
	ScatteringPDF(ray core.Ray, hit HitPayload, scattered core.Ray) float64
}

// Surface is anything a ray can hit that carries a material
type Surface interface {
	Material() Material
}

// ScatterPayload contains the result of a material's scatter decision
type ScatterPayload struct {
	Damping    core.Vec3 // Color the continuation is multiplied by
	SkipPDF    bool      // True when SkipPDFRay is the only continuation
	SkipPDFRay core.Ray  // Deterministic continuation (mirror reflection, refraction)
	PDF        PDF       // Distribution to sample when SkipPDF is false
}

// HitPayload contains information about a ray-primitive intersection
type HitPayload struct {
	U, V      float64   // Barycentric coordinates of the hit inside the triangle
	Distance  float64   // Parameter t along the ray, NoHitDistance when nothing was hit
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Interpolated outward normal at the intersection
	FrontFace bool      // Whether ray hit the counter-clockwise side
	Surface   Surface   // Primitive that was hit
}

// NoHit returns a payload representing a miss
func NoHit() HitPayload {
	return HitPayload{Distance: NoHitDistance}
}

// IsHit reports whether the payload describes an actual intersection
func (h HitPayload) IsHit() bool {
	return h.Distance < NoHitDistance
}

// FacingNormal returns the hit normal oriented against the incoming ray
func (h HitPayload) FacingNormal() core.Vec3 {
	if h.FrontFace {
		return h.Normal
	}
	return h.Normal.Negate()
}

// Material returns the material of the hit surface, or nil for a miss
func (h HitPayload) Material() Material {
	if h.Surface == nil {
		return nil
	}
	return h.Surface.Material()
}

// Depth tracks the bounce budget of a path
type Depth struct {
	Remaining int // Bounces left, including the current one
	Max       int // Budget the path started with
}

// NewDepth starts a path with the full budget
func NewDepth(max int) Depth {
	return Depth{Remaining: max, Max: max}
}

// Next returns the budget for the following bounce
func (d Depth) Next() Depth {
	return Depth{Remaining: d.Remaining - 1, Max: d.Max}
}

// Exhausted reports whether no bounces are left
func (d Depth) Exhausted() bool {
	return d.Remaining <= 0
}

// IsFirstBounce reports whether the path has not bounced yet
func (d Depth) IsFirstBounce() bool {
	return d.Remaining == d.Max
}
