// Package ned defines the north-east-down coordinate frame used by the
// vehicle's local position telemetry and the projection between that frame
// and top-left-origin screen coordinates.
package ned

import "fmt"

// DefaultPixelsPerMeter is the scene scale used when none is configured.
const DefaultPixelsPerMeter = 50.0

// Point is a position in the local NED frame, in meters. D is positive
// toward the ground, so an airborne vehicle has a negative D.
type Point struct {
	N float64
	E float64
	D float64
}

// ScreenPoint is a position in scene coordinates with the origin at the
// top-left corner, X increasing right and Y increasing down.
type ScreenPoint struct {
	X float64
	Y float64
}

// Projection maps between the NED horizontal plane and scene coordinates.
// North maps to screen up (negative Y) and east to screen right. The zero
// value is unusable; construct with NewProjection.
type Projection struct {
	pixelsPerMeter float64
}

// NewProjection creates a projection with the given scale in pixels per
// meter. The scale must be positive.
func NewProjection(pixelsPerMeter float64) (Projection, error) {
	if pixelsPerMeter <= 0 {
		return Projection{}, fmt.Errorf("invalid scale: %f pixels per meter", pixelsPerMeter)
	}
	return Projection{pixelsPerMeter: pixelsPerMeter}, nil
}

// PixelsPerMeter returns the projection scale.
func (p Projection) PixelsPerMeter() float64 {
	return p.pixelsPerMeter
}

// ToScreen converts a NED horizontal position to scene coordinates.
func (p Projection) ToScreen(n, e float64) ScreenPoint {
	return ScreenPoint{
		X: e * p.pixelsPerMeter,
		Y: -n * p.pixelsPerMeter,
	}
}

// ToWorld converts scene coordinates back to NED north and east. It is the
// exact inverse of ToScreen.
func (p Projection) ToWorld(pt ScreenPoint) (n, e float64) {
	return -pt.Y / p.pixelsPerMeter, pt.X / p.pixelsPerMeter
}
