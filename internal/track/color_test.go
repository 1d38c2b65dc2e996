package track

import (
	"image/color"
	"testing"
)

func TestGradient_Endpoints(t *testing.T) {
	low := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	high := color.RGBA{R: 255, G: 0, B: 0, A: 255}

	g, err := NewGradient(low, high, 0, 20)
	if err != nil {
		t.Fatalf("Failed to create gradient: %v", err)
	}

	tests := []struct {
		name     string
		altitude float64
		want     color.RGBA
	}{
		{"at minimum", 0, color.RGBA{R: 0, G: 0, B: 255, A: trackAlpha}},
		{"at maximum", 20, color.RGBA{R: 255, G: 0, B: 0, A: trackAlpha}},
		{"clamped below", -5, color.RGBA{R: 0, G: 0, B: 255, A: trackAlpha}},
		{"clamped above", 30, color.RGBA{R: 255, G: 0, B: 0, A: trackAlpha}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.At(tc.altitude); got != tc.want {
				t.Errorf("At(%v) = %v, want %v", tc.altitude, got, tc.want)
			}
		})
	}
}

func TestGradient_Midpoint(t *testing.T) {
	low := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	high := color.RGBA{R: 200, G: 100, B: 50, A: 255}

	g, err := NewGradient(low, high, 0, 20)
	if err != nil {
		t.Fatalf("Failed to create gradient: %v", err)
	}

	got := g.At(10)
	if got.R != 100 || got.G != 50 || got.B != 25 {
		t.Errorf("At(10) = %v, want RGB(100, 50, 25)", got)
	}
	if got.A != trackAlpha {
		t.Errorf("At(10) alpha = %d, want %d", got.A, trackAlpha)
	}
}

func TestNewGradient_DegenerateRange(t *testing.T) {
	c := color.RGBA{A: 255}

	if _, err := NewGradient(c, c, 20, 20); err == nil {
		t.Error("Expected error for min == max")
	}
	if _, err := NewGradient(c, c, 20, 0); err == nil {
		t.Error("Expected error for min > max")
	}
}
