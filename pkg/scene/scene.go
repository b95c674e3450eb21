package scene

import (
	"errors"
	"fmt"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/integrator"
	"github.com/df07/chess-pathtracer/pkg/material"
)

var (
	// ErrUnsupportedPrimitive is returned for primitives the intersection routines do not understand
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")
	// ErrMissingMaterial is returned for primitives without a material
	ErrMissingMaterial = errors.New("primitive has no material")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name             string
	Camera           *geometry.Camera
	CameraConfig     geometry.CameraConfig
	Primitives       []geometry.Primitive // Objects in the scene
	Light            integrator.DistantLight
	IntegratorConfig integrator.Config
	SamplingConfig   SamplingConfig
	IntersectOptions geometry.IntersectOptions
	Index            *geometry.BoxIndex // Built by Preprocess
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width       int // Image width
	Height      int // Image height
	SqrtSamples int // Samples per pixel is SqrtSamples²
	MaxDepth    int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the resolution and sample counts used when nothing is overridden
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:       1280,
		Height:      720,
		SqrtSamples: 3,
		MaxDepth:    20,
	}
}

// SamplesPerPixel returns the number of rays cast through each pixel
func (c SamplingConfig) SamplesPerPixel() int {
	return c.SqrtSamples * c.SqrtSamples
}

// NewScene creates an empty scene with default light, integrator and sampling settings
func NewScene(name string, cameraConfig geometry.CameraConfig) (*Scene, error) {
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	return &Scene{
		Name:             name,
		Camera:           camera,
		CameraConfig:     cameraConfig,
		Light:            integrator.DefaultDistantLight(),
		IntegratorConfig: integrator.DefaultConfig(),
		SamplingConfig:   DefaultSamplingConfig(),
		IntersectOptions: geometry.DefaultIntersectOptions(),
	}, nil
}

// Add appends primitives to the scene. The index is stale until Preprocess runs again.
func (s *Scene) Add(primitives ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, primitives...)
	s.Index = nil
}

// Preprocess validates every primitive and builds the bounding-box index
func (s *Scene) Preprocess() error {
	for i, p := range s.Primitives {
		switch p.(type) {
		case *geometry.Triangle, *geometry.TriangleMesh:
		default:
			return fmt.Errorf("primitive %d (%T): %w", i, p, ErrUnsupportedPrimitive)
		}
		if p.Material() == nil {
			return fmt.Errorf("primitive %d (%T): %w", i, p, ErrMissingMaterial)
		}
	}

	s.Index = geometry.NewBoxIndex(s.Primitives, s.IntersectOptions)
	return nil
}

// Intersect returns the closest hit along ray. Preprocess must have run.
func (s *Scene) Intersect(ray core.Ray) material.HitPayload {
	if s.Index == nil {
		return material.NoHit()
	}
	return s.Index.Intersect(ray)
}

// GetPrimitiveCount returns the number of top-level objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// GetTriangleCount returns the total number of triangles in the scene
func (s *Scene) GetTriangleCount() int {
	count := 0
	for _, p := range s.Primitives {
		switch obj := p.(type) {
		case *geometry.TriangleMesh:
			count += obj.NumFaces()
		default:
			count++
		}
	}
	return count
}
