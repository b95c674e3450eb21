package scene

import (
	"github.com/charmbracelet/harmonica"
)

// Turntable spins pieces for animated sequences. A single impulse sets the initial
// angular velocity, which a critically damped spring eases back to rest.
type Turntable struct {
	Angle    float64 // Degrees
	Velocity float64 // Degrees per frame

	spring harmonica.Spring
	accel  float64 // Spring velocity used to animate Velocity toward 0
}

// NewTurntable creates a turntable at rest at angle 0
func NewTurntable(fps int) *Turntable {
	return &Turntable{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Impulse adds angular velocity in degrees per frame
func (t *Turntable) Impulse(degrees float64) {
	t.Velocity += degrees
}

// Step advances one frame and returns the new angle
func (t *Turntable) Step() float64 {
	t.Angle += t.Velocity
	t.Velocity, t.accel = t.spring.Update(t.Velocity, t.accel, 0)
	return t.Angle
}

// Angles returns the angle for each of the next frames. The first frame is the current angle.
func (t *Turntable) Angles(frames int) []float64 {
	if frames <= 0 {
		return nil
	}
	angles := make([]float64, frames)
	angles[0] = t.Angle
	for i := 1; i < frames; i++ {
		angles[i] = t.Step()
	}
	return angles
}
