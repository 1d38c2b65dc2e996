package panel

import (
	"github.com/drone-gcs/movingmap/internal/ned"
	"github.com/drone-gcs/movingmap/internal/track"
)

// Scene is the narrow interface onto the platform's render layer. The panel
// owns all state; the scene is a projection of it. Implementations are not
// expected to be safe for concurrent use: the panel calls them from its
// single update loop.
type Scene interface {
	// AddTrackSegment draws a new trail segment.
	AddTrackSegment(seg track.Segment)

	// RemoveTrackSegment drops the scene item for an evicted segment.
	RemoveTrackSegment(id track.SegmentID)

	// MoveMarker positions the vehicle marker by its center point.
	MoveMarker(pos ned.ScreenPoint)

	// RotateMarker rotates the vehicle marker, in degrees.
	RotateMarker(deg float64)

	// MoveAttitudeFace translates the attitude indicator face layer by a
	// relative offset. The offset is a delta from the previous frame, never
	// an absolute position.
	MoveAttitudeFace(dx, dy float64)

	// RotateAttitudeLayers rotates the indicator's back, ring and face
	// layers to an absolute angle in degrees.
	RotateAttitudeLayers(deg float64)

	// SetAltitudeIcon positions the vehicle icon on the altitude ladder.
	SetAltitudeIcon(y float64)

	// SetAltitudeReadout updates the numeric altitude display, in meters.
	SetAltitudeReadout(meters float64)

	// CenterView recenters the viewport camera on a scene point.
	CenterView(pos ned.ScreenPoint)

	// SetZoom applies the camera zoom multiplier.
	SetZoom(zoom float64)

	// SetPanningEnabled enables or disables user pan gestures on the view.
	SetPanningEnabled(enabled bool)

	// Flush commits pending scene layout. The panel calls it after moving
	// the marker and before recentering, so the recenter reads the marker's
	// committed position rather than a stale one.
	Flush()
}
