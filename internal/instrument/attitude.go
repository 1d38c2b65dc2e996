// Package instrument holds the state models behind the panel's flight
// instruments: the attitude indicator and the altitude ladder. The models
// are plain data plus pure update math; a thin adapter applies their outputs
// to whatever graphics primitives the rendering platform offers.
package instrument

import "math"

// DefaultPixelsPerDegree is how far the attitude indicator face slides per
// degree of pitch, at the indicator's native 240x240 size.
const DefaultPixelsPerDegree = 1.7

const (
	rollLimit  = 180
	pitchLimit = 25
)

// FrameDelta is the incremental change a render adapter applies to the
// attitude indicator for one frame. MoveX/MoveY are a relative translation
// of the face layer, not an absolute position: moving relatively preserves
// whatever transform state the scene item has accumulated. Rotation is the
// absolute rotation, in degrees, applied to the back, ring and face layers.
type FrameDelta struct {
	MoveX    float64
	MoveY    float64
	Rotation float64
}

// Attitude tracks the constrained roll and pitch of the attitude indicator
// together with the face offset applied on the previous frame.
type Attitude struct {
	roll  float64
	pitch float64

	faceDeltaX float64
	faceDeltaY float64
}

// SetRoll stores a roll angle in degrees, clamped to [-180, 180].
func (a *Attitude) SetRoll(roll float64) {
	a.roll = clamp(roll, -rollLimit, rollLimit)
}

// SetPitch stores a pitch angle in degrees, clamped to [-25, 25].
func (a *Attitude) SetPitch(pitch float64) {
	a.pitch = clamp(pitch, -pitchLimit, pitchLimit)
}

// Roll returns the clamped roll in degrees.
func (a *Attitude) Roll() float64 {
	return a.roll
}

// Pitch returns the clamped pitch in degrees.
func (a *Attitude) Pitch() float64 {
	return a.pitch
}

// FrameDelta computes the face translation and layer rotation for the
// current roll and pitch, then commits the new face offset as the baseline
// for the next frame. scaleX and scaleY adapt the native indicator geometry
// to the actual view size.
func (a *Attitude) FrameDelta(pixelsPerDegree, scaleX, scaleY float64) FrameDelta {
	rollRad := a.roll * math.Pi / 180
	delta := pixelsPerDegree * a.pitch

	newX := scaleX * delta * math.Sin(rollRad)
	newY := scaleY * delta * math.Cos(rollRad)

	d := FrameDelta{
		MoveX:    newX - a.faceDeltaX,
		MoveY:    newY - a.faceDeltaY,
		Rotation: -a.roll,
	}

	a.faceDeltaX = newX
	a.faceDeltaY = newY
	return d
}

// Reset zeroes roll and pitch. The caller must apply one full update cycle
// afterwards so the face layer slides back from its last offset instead of
// jumping.
func (a *Attitude) Reset() {
	a.roll = 0
	a.pitch = 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
