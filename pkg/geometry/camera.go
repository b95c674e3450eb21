package geometry

import (
	"github.com/df07/chess-pathtracer/pkg/core"
)

// CameraConfig describes a pinhole camera looking at a virtual screen
type CameraConfig struct {
	Position        core.Vec3 // Eye position
	LookAt          core.Vec3 // Point the camera faces
	Up              core.Vec3 // Approximate up direction
	ScreenDistance  float64   // Distance from eye to screen center
	AspectRatio     float64   // Width / height
	HorizontalScale float64   // Width of the screen
}

// DefaultCameraConfig returns the camera framing the chessboard
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:        core.NewVec3(8, 8, 16),
		LookAt:          core.NewVec3(4, 0, 4),
		Up:              core.NewVec3(0, 1, 0),
		ScreenDistance:  1.0,
		AspectRatio:     16.0 / 9.0,
		HorizontalScale: 1.0,
	}
}

// Camera generates rays through points on a virtual screen plane
type Camera struct {
	position     core.Vec3
	screenCenter core.Vec3
	screenU      core.Vec3 // Screen horizontal, scaled to screen width
	screenV      core.Vec3 // Screen vertical, scaled to screen height
}

// NewCamera derives the screen basis from config
func NewCamera(config CameraConfig) (*Camera, error) {
	lookDir := config.LookAt.Subtract(config.Position).Normalize()
	screenU := lookDir.Cross(config.Up)
	if screenU.IsZero() {
		return nil, ErrDegenerateCamera
	}
	screenU = screenU.Normalize()
	screenV := screenU.Cross(lookDir).Normalize()

	return &Camera{
		position:     config.Position,
		screenCenter: config.Position.Add(lookDir.Multiply(config.ScreenDistance)),
		screenU:      screenU.Multiply(config.HorizontalScale),
		screenV:      screenV.Multiply(config.HorizontalScale / config.AspectRatio),
	}, nil
}

// GetRay returns the ray from the eye through screen coordinates in [-0.5, 0.5]
func (c *Camera) GetRay(xNorm, yNorm float64) core.Ray {
	screenPoint := c.screenCenter.Add(c.screenU.Multiply(xNorm)).Add(c.screenV.Multiply(yNorm))
	return core.NewRayThrough(c.position, screenPoint)
}
