package material

import (
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
)

// PDF is a direction distribution that can be sampled and evaluated
type PDF interface {
	Value(direction core.Vec3) float64
	Generate(sampler core.Sampler) core.Vec3
}

// CosinePDF samples directions proportional to cos θ around a normal.
// It is built fresh for every scattering event.
type CosinePDF struct {
	u, v, w core.Vec3 // Orthonormal frame, w is the normal
}

// NewCosinePDF builds the local frame around normal
func NewCosinePDF(normal core.Vec3) *CosinePDF {
	w := normal.Normalize()
	a := core.NewVec3(1, 0, 0)
	if math.Abs(w.X) > 0.9 {
		a = core.NewVec3(0, 1, 0)
	}
	v := w.Cross(a).Normalize()
	u := w.Cross(v)
	return &CosinePDF{u: u, v: v, w: w}
}

// Value returns max(0, cos θ)/π for the angle between direction and the normal
func (p *CosinePDF) Value(direction core.Vec3) float64 {
	cosTheta := direction.Normalize().Dot(p.w)
	return math.Max(0, cosTheta/math.Pi)
}

// Generate draws a cosine-weighted direction in world space
func (p *CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.local(core.SampleCosineDirection(sampler.Get2D()))
}

// Normal returns the axis the distribution is centered on
func (p *CosinePDF) Normal() core.Vec3 {
	return p.w
}

func (p *CosinePDF) local(a core.Vec3) core.Vec3 {
	return p.u.Multiply(a.X).Add(p.v.Multiply(a.Y)).Add(p.w.Multiply(a.Z))
}
