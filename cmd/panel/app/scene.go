package app

import (
	"sync"

	"github.com/drone-gcs/movingmap/internal/ned"
	"github.com/drone-gcs/movingmap/internal/track"
)

// headlessScene is the panel's scene for the standalone binary. There is
// no render surface; it mirrors enough view state for the snapshot writer
// to draw periodic map images.
//
// The panel drives it from the feed loop while the snapshot ticker reads
// it from its own goroutine, so access is locked.
type headlessScene struct {
	mu sync.Mutex

	segments  []track.Segment
	markerPos ned.ScreenPoint
	markerRot float64
	readout   float64
}

func newHeadlessScene() *headlessScene {
	return &headlessScene{}
}

func (s *headlessScene) AddTrackSegment(seg track.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = append(s.segments, seg)
}

func (s *headlessScene) RemoveTrackSegment(id track.SegmentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, seg := range s.segments {
		if seg.ID == id {
			s.segments = append(s.segments[:i], s.segments[i+1:]...)
			return
		}
	}
}

func (s *headlessScene) MoveMarker(pos ned.ScreenPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markerPos = pos
}

func (s *headlessScene) RotateMarker(deg float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markerRot = deg
}

func (s *headlessScene) MoveAttitudeFace(dx, dy float64) {}

func (s *headlessScene) RotateAttitudeLayers(deg float64) {}

func (s *headlessScene) SetAltitudeIcon(y float64) {}

func (s *headlessScene) SetAltitudeReadout(meters float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readout = meters
}

func (s *headlessScene) CenterView(pos ned.ScreenPoint) {}

func (s *headlessScene) SetZoom(zoom float64) {}

func (s *headlessScene) SetPanningEnabled(enabled bool) {}

func (s *headlessScene) Flush() {}

// snapshot returns a copy of the drawable state.
func (s *headlessScene) snapshot() ([]track.Segment, ned.ScreenPoint, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	segments := make([]track.Segment, len(s.segments))
	copy(segments, s.segments)
	return segments, s.markerPos, s.markerRot
}
