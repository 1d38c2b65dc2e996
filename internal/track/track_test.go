package track

import (
	"image/color"
	"testing"

	"github.com/drone-gcs/movingmap/internal/ned"
)

func pt(x, y float64) ned.ScreenPoint {
	return ned.ScreenPoint{X: x, Y: y}
}

var testColor = color.RGBA{R: 10, G: 20, B: 30, A: 200}

func TestHistory_BoundInvariant(t *testing.T) {
	for _, maxTracks := range []int{0, 1, 3, 10} {
		h := NewHistory(maxTracks)

		for i := 0; i < 25; i++ {
			h.Append(pt(float64(i), 0), pt(float64(i+1), 0), testColor)

			if h.Count() > maxTracks {
				t.Fatalf("maxTracks=%d: count %d exceeds bound after append %d", maxTracks, h.Count(), i)
			}
		}
	}
}

func TestHistory_FIFOEviction(t *testing.T) {
	h := NewHistory(3)

	var ids []SegmentID
	for i := 0; i < 7; i++ {
		seg, _, _ := h.Append(pt(float64(i), 0), pt(float64(i+1), 0), testColor)
		ids = append(ids, seg.ID)
	}

	segments := h.Segments()
	if len(segments) != 3 {
		t.Fatalf("Expected 3 retained segments, got %d", len(segments))
	}

	// The most recent three, still in temporal order.
	for i, seg := range segments {
		if want := ids[4+i]; seg.ID != want {
			t.Errorf("Segment %d: expected ID %d, got %d", i, want, seg.ID)
		}
	}
}

func TestHistory_EvictionReportsHead(t *testing.T) {
	h := NewHistory(2)

	first, _, ok := h.Append(pt(0, 0), pt(1, 0), testColor)
	if ok {
		t.Error("Unexpected eviction on first append")
	}
	h.Append(pt(1, 0), pt(2, 0), testColor)

	_, evicted, ok := h.Append(pt(2, 0), pt(3, 0), testColor)
	if !ok {
		t.Fatal("Expected eviction on third append")
	}
	if evicted != first.ID {
		t.Errorf("Expected oldest segment %d evicted, got %d", first.ID, evicted)
	}
}

func TestHistory_ZeroMaxTracks(t *testing.T) {
	h := NewHistory(0)

	for i := 0; i < 3; i++ {
		seg, evicted, ok := h.Append(pt(0, 0), pt(1, 0), testColor)
		if !ok {
			t.Fatal("Expected immediate eviction with maxTracks=0")
		}
		if evicted != seg.ID {
			t.Errorf("Expected the new segment %d to evict itself, got %d", seg.ID, evicted)
		}
		if h.Count() != 0 {
			t.Errorf("Expected empty history, got count %d", h.Count())
		}
	}
}

func TestHistory_SetMaxTracksNotRetroactive(t *testing.T) {
	h := NewHistory(5)
	for i := 0; i < 5; i++ {
		h.Append(pt(float64(i), 0), pt(float64(i+1), 0), testColor)
	}

	h.SetMaxTracks(2)
	if h.Count() != 5 {
		t.Fatalf("Lowering the limit must not truncate existing history, got count %d", h.Count())
	}

	// The next append evicts one segment only.
	h.Append(pt(5, 0), pt(6, 0), testColor)
	if h.Count() != 5 {
		t.Errorf("Expected count 5 after one append with lower limit, got %d", h.Count())
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 4; i++ {
		h.Append(pt(float64(i), 0), pt(float64(i+1), 0), testColor)
	}

	removed := h.Clear()
	if len(removed) != 4 {
		t.Fatalf("Expected 4 removed IDs, got %d", len(removed))
	}
	for i := 1; i < len(removed); i++ {
		if removed[i] <= removed[i-1] {
			t.Errorf("Removed IDs out of temporal order: %v", removed)
		}
	}

	if h.Count() != 0 {
		t.Errorf("Expected empty history after clear, got count %d", h.Count())
	}
	if h.Clear() != nil {
		t.Error("Clear on empty history should return nil")
	}
	if h.Segments() != nil {
		t.Error("Segments on empty history should return nil")
	}
}
