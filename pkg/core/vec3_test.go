package core

import (
	"math"
	"testing"
)

func TestVec3_RotateY(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		pivot    Vec3
		angle    float64
		expected Vec3
	}{
		{
			name:     "No rotation",
			vector:   NewVec3(1, 0, 0),
			angle:    0,
			expected: NewVec3(1, 0, 0),
		},
		{
			name:     "90 degree rotation around origin",
			vector:   NewVec3(1, 0, 0),
			angle:    math.Pi / 2,
			expected: NewVec3(0, 0, -1),
		},
		{
			name:     "180 degree rotation around origin",
			vector:   NewVec3(1, 0, 0),
			angle:    math.Pi,
			expected: NewVec3(-1, 0, 0),
		},
		{
			name:     "Height is preserved",
			vector:   NewVec3(0, 5, 1),
			angle:    math.Pi / 2,
			expected: NewVec3(1, 5, 0),
		},
		{
			name:     "Rotation around offset pivot",
			vector:   NewVec3(3, 1, 2),
			pivot:    NewVec3(2, 0, 2),
			angle:    math.Pi / 2,
			expected: NewVec3(2, 1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.RotateY(tt.pivot, tt.angle)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_CrossIsOrthogonal(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-2, 0.5, 4)
	c := a.Cross(b)

	if math.Abs(c.Dot(a)) > 1e-12 || math.Abs(c.Dot(b)) > 1e-12 {
		t.Errorf("Cross product %v is not orthogonal to inputs", c)
	}

	// Right-handed basis
	if !NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)).Equals(NewVec3(0, 0, 1)) {
		t.Error("Expected X × Y = Z")
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if !v.ApproxEquals(NewVec3(0.6, 0.8, 0), 1e-12) {
		t.Errorf("Expected (0.6, 0.8, 0), got %v", v)
	}

	// Zero vector stays zero instead of producing NaN
	zero := Vec3{}.Normalize()
	if !zero.IsZero() {
		t.Errorf("Expected zero vector, got %v", zero)
	}
}

func TestVec3_ComponentWise(t *testing.T) {
	a := NewVec3(1, -2, 3)
	b := NewVec3(4, 5, -6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, 3, -3)},
		{"Subtract", a.Subtract(b), NewVec3(-3, -7, 9)},
		{"Multiply", a.Multiply(2), NewVec3(2, -4, 6)},
		{"Divide", a.Divide(2), NewVec3(0.5, -1, 1.5)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, -18)},
		{"Min", a.Min(b), NewVec3(1, -2, -6)},
		{"Max", a.Max(b), NewVec3(4, 5, 3)},
		{"Clamp", NewVec3(-1, 0.5, 300).Clamp(0, 255), NewVec3(0, 0.5, 255)},
		{"Negate", a.Negate(), NewVec3(-1, 2, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}
