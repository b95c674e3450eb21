package integrator

import (
	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// World is the intersectable scene an integrator traces rays against
type World interface {
	// Intersect returns the closest hit along ray, or material.NoHit()
	Intersect(ray core.Ray) material.HitPayload
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear radiance arriving along ray
	RayColor(ray core.Ray, world World, depth material.Depth, sampler core.Sampler) core.Vec3
}

// Config holds the constants of the light transport model
type Config struct {
	Background     core.Vec3 // Radiance of rays that escape the scene
	OcclusionBoost float64   // PDF multiplier when the light is blocked from a diffuse hit
	DisplayMax     float64   // Radiance 1.0 maps to this display value
}

// DefaultConfig returns the integrator constants used by the chess scene
func DefaultConfig() Config {
	return Config{
		Background:     core.NewVec3(1, 1, 1),
		OcclusionBoost: 2.0,
		DisplayMax:     255.0,
	}
}

// DistantLight is a light infinitely far away shining along one direction
type DistantLight struct {
	Direction core.Vec3 // Unit direction the light travels
	Color     core.Vec3
	Intensity float64
}

// NewDistantLight creates a distant light; direction is normalized
func NewDistantLight(direction, color core.Vec3, intensity float64) DistantLight {
	return DistantLight{Direction: direction.Normalize(), Color: color, Intensity: intensity}
}

// DefaultDistantLight returns the white light shining down diagonally onto the board
func DefaultDistantLight() DistantLight {
	return NewDistantLight(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), 15)
}

// Incidence returns max(0, n·-direction), the cosine between normal and the direction toward the light
func (l DistantLight) Incidence(normal core.Vec3) float64 {
	cos := normal.Dot(l.Direction.Negate())
	if cos < 0 {
		return 0
	}
	return cos
}
