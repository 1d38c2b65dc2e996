// Package track maintains the vehicle's trail as a bounded, ordered
// collection of line segments. Segments are immutable once appended and the
// oldest segments are evicted first when the configured limit is exceeded.
package track

import (
	"image/color"

	"github.com/drone-gcs/movingmap/internal/ned"
)

// SegmentID identifies a segment for the lifetime of a History. Render
// layers use it to remove the matching scene item when a segment is evicted.
type SegmentID int64

// Segment is a single piece of the vehicle's trail. Color is derived from
// the altitude at creation time and never recomputed.
type Segment struct {
	ID    SegmentID
	From  ned.ScreenPoint
	To    ned.ScreenPoint
	Color color.RGBA
}

// node is an internal singly linked list node for the segment history.
type node struct {
	segment Segment
	next    *node
}

// History is a FIFO of trail segments bounded by a maximum count. A limit of
// zero is valid and disables the trail: every appended segment is evicted
// immediately. Changing the limit at runtime only affects future appends;
// existing history is never truncated retroactively.
//
// History is not safe for concurrent use; the panel controller owns it and
// all updates run on a single event loop.
type History struct {
	maxTracks int

	head   *node
	tail   *node
	size   int
	nextID SegmentID
}

// NewHistory creates an empty history bounded by maxTracks segments.
// Negative limits are treated as zero.
func NewHistory(maxTracks int) *History {
	return &History{maxTracks: max(maxTracks, 0)}
}

// Append creates a segment at the tail and returns it along with the ID of
// the segment evicted to keep the history within its bound, if any. The
// evicted flag reports whether an eviction happened.
func (h *History) Append(from, to ned.ScreenPoint, c color.RGBA) (seg Segment, evicted SegmentID, ok bool) {
	seg = Segment{ID: h.nextID, From: from, To: to, Color: c}
	h.nextID++

	n := &node{segment: seg}
	if h.tail == nil {
		h.head = n
		h.tail = n
	} else {
		h.tail.next = n
		h.tail = n
	}
	h.size++

	if h.size > h.maxTracks {
		return seg, h.evictHead(), true
	}
	return seg, 0, false
}

// Clear removes all segments and returns their IDs in temporal order so the
// caller can drop the matching scene items.
func (h *History) Clear() []SegmentID {
	if h.size == 0 {
		return nil
	}

	removed := make([]SegmentID, 0, h.size)
	for n := h.head; n != nil; n = n.next {
		removed = append(removed, n.segment.ID)
	}

	h.head = nil
	h.tail = nil
	h.size = 0
	return removed
}

// Count returns the number of retained segments.
func (h *History) Count() int {
	return h.size
}

// MaxTracks returns the current segment limit.
func (h *History) MaxTracks() int {
	return h.maxTracks
}

// SetMaxTracks changes the segment limit. The new limit applies to future
// appends only.
func (h *History) SetMaxTracks(maxTracks int) {
	h.maxTracks = max(maxTracks, 0)
}

// Segments returns the retained segments in temporal order.
func (h *History) Segments() []Segment {
	if h.size == 0 {
		return nil
	}

	segments := make([]Segment, 0, h.size)
	for n := h.head; n != nil; n = n.next {
		segments = append(segments, n.segment)
	}
	return segments
}

func (h *History) evictHead() SegmentID {
	evicted := h.head.segment.ID

	h.head = h.head.next
	if h.head == nil {
		h.tail = nil
	}
	h.size--
	return evicted
}
