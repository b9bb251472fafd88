package core

import "testing"

func TestColor_Shade(t *testing.T) {
	tests := []struct {
		name      string
		color     Color
		intensity float64
		expected  Color
	}{
		{
			name:      "Unit intensity keeps the color",
			color:     NewColor(10, 120, 250),
			intensity: 1.0,
			expected:  NewColor(10, 120, 250),
		},
		{
			name:      "Half intensity darkens",
			color:     NewColor(100, 50, 200),
			intensity: 0.5,
			expected:  NewColor(50, 25, 100),
		},
		{
			name:      "Zero intensity blacks out",
			color:     White,
			intensity: 0,
			expected:  Black,
		},
		{
			name:      "Oversaturation clamps to 255",
			color:     NewColor(200, 100, 30),
			intensity: 10,
			expected:  NewColor(255, 255, 255),
		},
		{
			name:      "Channels clamp independently",
			color:     NewColor(200, 20, 0),
			intensity: 2,
			expected:  NewColor(255, 40, 0),
		},
		{
			name:      "Negative intensity clamps to black",
			color:     NewColor(200, 100, 30),
			intensity: -1,
			expected:  Black,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Shade(tt.intensity); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
