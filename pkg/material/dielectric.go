package material

import (
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64   // Index of refraction (e.g., 1.5 for glass)
	Albedo          core.Vec3 // Tint used on the first bounce of a path
	Transparency    core.Vec3 // Tint used on every later bounce
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64, albedo, transparency core.Vec3) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Albedo: albedo, Transparency: transparency}
}

// NewClearDielectric creates an untinted dielectric with the given index
func NewClearDielectric(refractiveIndex float64) *Dielectric {
	return NewDielectric(refractiveIndex, BaseTransparency, BaseTransparency)
}

// Scatter chooses between reflection and refraction using Schlick's approximation
func (d *Dielectric) Scatter(ray core.Ray, hit HitPayload, depth Depth, sampler core.Sampler) (ScatterPayload, bool) {
	// The first bounce of a path is tinted with the albedo instead of the transparency.
	damping := d.Transparency
	if depth.IsFirstBounce() {
		damping = d.Albedo
	}

	// Determine if we're entering or exiting the material
	refractionRatio := d.RefractiveIndex
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	}

	normal := hit.FacingNormal()
	unitDirection := ray.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = ray.Reflected(normal)
	} else {
		direction = ray.Refracted(normal, refractionRatio)
	}

	origin := hit.Point.Add(direction.Multiply(SelfIntersectionOffset))
	return ScatterPayload{
		Damping:    damping,
		SkipPDF:    true,
		SkipPDFRay: core.NewRay(origin, direction),
	}, true
}

// ScatteringPDF is zero: dielectrics never sample a PDF
func (d *Dielectric) ScatteringPDF(ray core.Ray, hit HitPayload, scattered core.Ray) float64 {
	return 0
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
