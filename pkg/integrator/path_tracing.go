package integrator

import (
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// PathTracingIntegrator implements unidirectional path tracing under a single distant light
type PathTracingIntegrator struct {
	config Config
	light  DistantLight
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config, light DistantLight) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config, light: light}
}

// Config returns the integrator constants
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, depth material.Depth, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth.Exhausted() {
		return core.Vec3{}
	}

	hit := world.Intersect(ray)
	if !hit.IsHit() {
		return pt.config.Background
	}

	mat := hit.Material()
	if mat == nil {
		return core.Vec3{}
	}

	scatter, didScatter := mat.Scatter(ray, hit, depth, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	// Mirror reflection and refraction already chose their direction
	if scatter.SkipPDF {
		return scatter.Damping.MultiplyVec(pt.RayColor(scatter.SkipPDFRay, world, depth.Next(), sampler))
	}

	return pt.calculateDiffuseColor(ray, hit, mat, scatter, world, depth, sampler)
}

// calculateDiffuseColor samples the material's PDF and weights the continuation by the light's incidence
func (pt *PathTracingIntegrator) calculateDiffuseColor(ray core.Ray, hit material.HitPayload, mat material.Material, scatter material.ScatterPayload, world World, depth material.Depth, sampler core.Sampler) core.Vec3 {
	direction := scatter.PDF.Generate(sampler)
	scattered := core.NewRay(hit.Point.Add(direction.Multiply(material.SelfIntersectionOffset)), direction)

	pdfValue := scatter.PDF.Value(scattered.Direction)
	if pdfValue <= 0 {
		return core.Vec3{}
	}
	if pt.lightOccluded(hit.Point, world) {
		pdfValue *= pt.config.OcclusionBoost
	}

	scatteringPDF := mat.ScatteringPDF(ray, hit, scattered)
	sampleColor := pt.RayColor(scattered, world, depth.Next(), sampler)

	weight := scatteringPDF / pdfValue / math.Pi * pt.light.Incidence(hit.FacingNormal()) * pt.light.Intensity
	return scatter.Damping.MultiplyVec(sampleColor).MultiplyVec(pt.light.Color).Multiply(weight)
}

// lightOccluded reports whether anything blocks the path from point toward the light
func (pt *PathTracingIntegrator) lightOccluded(point core.Vec3, world World) bool {
	shadowRay := core.NewRay(point, pt.light.Direction.Negate())
	return world.Intersect(shadowRay).IsHit()
}
