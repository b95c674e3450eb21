package material

import "github.com/df07/chess-pathtracer/pkg/core"

// Defaults for surfaces that were not given explicit parameters
var (
	BaseAlbedo       = core.NewVec3(0.7, 0.7, 0.7)
	BaseTransparency = core.NewVec3(1, 1, 1)
)

const (
	BaseRefractionIndex = 1.5 // Glass is roughly 1.5
	BaseFuzz            = 0.0

	// SelfIntersectionOffset moves continuation rays off the surface they leave
	SelfIntersectionOffset = 0.001
)

// NewBaseMaterial returns the neutral diffuse material used for helper geometry
func NewBaseMaterial() *Lambertian {
	return NewLambertian(BaseAlbedo)
}
