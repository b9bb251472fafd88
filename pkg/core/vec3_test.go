package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
	}

	const tolerance = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}
}

func TestVec3_DotAndLength(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	if got := a.Dot(b); math.Abs(got-12) > 1e-9 {
		t.Errorf("Expected dot product 12, got %f", got)
	}
	if got := NewVec3(3, 4, 0).Length(); math.Abs(got-5) > 1e-9 {
		t.Errorf("Expected length 5, got %f", got)
	}
	if got := NewVec3(3, 4, 0).LengthSquared(); math.Abs(got-25) > 1e-9 {
		t.Errorf("Expected squared length 25, got %f", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(0, 3, 4).Normalize()
	expected := NewVec3(0, 0.6, 0.8)

	if v.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, v)
	}

	// The zero vector has no direction; it must stay zero instead of
	// producing NaNs.
	zero := NewVec3(0, 0, 0).Normalize()
	if zero != (Vec3{}) {
		t.Errorf("Expected zero vector, got %v", zero)
	}
}

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		normal   Vec3
		expected Vec3
	}{
		{
			name:     "Along the normal reflects onto itself",
			vector:   NewVec3(0, 0, 1),
			normal:   NewVec3(0, 0, 1),
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "45 degree incidence",
			vector:   NewVec3(1, 1, 0).Normalize(),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(-1, 1, 0).Normalize(),
		},
		{
			name:     "Perpendicular to the normal flips",
			vector:   NewVec3(1, 0, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(-1, 0, 0),
		},
	}

	const tolerance = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Reflect(tt.normal)
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, 2))

	tests := []struct {
		name     string
		t        float64
		expected Vec3
	}{
		{"At origin", 0, NewVec3(1, 2, 3)},
		{"Halfway", 0.5, NewVec3(1, 2, 4)},
		{"Past the direction length", 2, NewVec3(1, 2, 7)},
		{"Behind the origin", -1, NewVec3(1, 2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point := ray.At(tt.t)
			if point.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, point)
			}
		})
	}
}
