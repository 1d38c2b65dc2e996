package instrument

import (
	"fmt"
	"math"
)

// Native geometry of the altitude ladder, matching the panel artwork.
const (
	AltitudeCanvasWidth  = 120.0
	AltitudeCanvasHeight = 240.0
	AltitudeGroundWidth  = 3.0

	AltitudeIconWidth  = 80.0
	AltitudeIconHeight = 50.0
)

// Altitude normalizes the vehicle's NED down coordinate into the ladder's
// [0, 1] visual range and keeps the full-precision altitude for display.
type Altitude struct {
	minAltitude float64
	maxAltitude float64
	altitude    float64 // meters above ground, full precision
}

// NewAltitude creates an altitude model mapping [minAltitude, maxAltitude]
// meters above ground onto the ladder. A degenerate range is a configuration
// error surfaced here, once, rather than per sample.
func NewAltitude(minAltitude, maxAltitude float64) (*Altitude, error) {
	if minAltitude >= maxAltitude {
		return nil, fmt.Errorf("invalid altitude range: min=%f, max=%f", minAltitude, maxAltitude)
	}
	return &Altitude{minAltitude: minAltitude, maxAltitude: maxAltitude}, nil
}

// Set records the vehicle's NED down coordinate in meters. Down is positive
// toward the ground, so the stored altitude above ground is its inverse.
func (a *Altitude) Set(down float64) {
	a.altitude = -down
}

// Reset puts the vehicle back on the ground.
func (a *Altitude) Reset() {
	a.altitude = 0
}

// Normalize maps an altitude above ground onto [0, 1], clamped at both ends.
func (a *Altitude) Normalize(altitude float64) float64 {
	t := (altitude - a.minAltitude) / (a.maxAltitude - a.minAltitude)
	return clamp(t, 0, 1)
}

// Normalized returns the current altitude mapped onto [0, 1].
func (a *Altitude) Normalized() float64 {
	return a.Normalize(a.altitude)
}

// Display returns the altitude readout in meters, rounded to one decimal.
// Only the displayed value is rounded; internal state keeps full precision.
func (a *Altitude) Display() float64 {
	return math.Round(a.altitude*10) / 10
}

// IconY computes the vertical scene position for the vehicle icon on the
// ladder. The icon's visual height differs from its bounding height because
// the artwork is fit-scaled preserving aspect ratio, yet the scene positions
// it by the bounding box; without the centering correction the icon floats
// off its baseline.
func IconY(t, canvasHeight, groundWidth, iconBoundingHeight, iconVisualHeight float64) float64 {
	usable := canvasHeight - groundWidth/2
	return usable - t*usable - iconVisualHeight - (iconBoundingHeight-iconVisualHeight)/2
}

// FitScale returns the uniform scale that fits artwork of the given native
// size inside a target box without changing its aspect ratio.
func FitScale(nativeWidth, nativeHeight, targetWidth, targetHeight float64) float64 {
	return math.Min(targetWidth/nativeWidth, targetHeight/nativeHeight)
}
