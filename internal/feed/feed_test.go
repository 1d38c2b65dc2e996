package feed

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/drone-gcs/movingmap/internal/bus"
)

type recordingSink struct {
	attitudes []bus.AttitudeEuler
	positions []bus.PositionLocal
	airborne  []bus.Airborne
}

func (s *recordingSink) HandleAttitude(m bus.AttitudeEuler) { s.attitudes = append(s.attitudes, m) }

func (s *recordingSink) HandlePosition(m bus.PositionLocal) { s.positions = append(s.positions, m) }

func (s *recordingSink) HandleAirborne(m bus.Airborne) { s.airborne = append(s.airborne, m) }

func TestFeed_DispatchesByTopic(t *testing.T) {
	input := strings.Join([]string{
		`{"topic":"fcm/position/local","payload":{"n":5,"e":10,"d":-2}}`,
		``,
		`{"topic":"fcm/attitude/euler/degrees","payload":{"roll":1.5,"pitch":-3,"yaw":270}}`,
		`{"topic":"fcm/airborne","payload":{"airborne":true}}`,
		`{"topic":"some/other/topic","payload":{"x":1}}`,
	}, "\n")

	sink := &recordingSink{}
	if err := New(sink).Run(strings.NewReader(input)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sink.positions) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(sink.positions))
	}
	if p := sink.positions[0]; p.N != 5 || p.E != 10 || p.D != -2 {
		t.Errorf("Position = %+v", p)
	}

	if len(sink.attitudes) != 1 {
		t.Fatalf("Expected 1 attitude, got %d", len(sink.attitudes))
	}
	if a := sink.attitudes[0]; a.Roll != 1.5 || a.Pitch != -3 || a.Yaw != 270 {
		t.Errorf("Attitude = %+v", a)
	}

	if len(sink.airborne) != 1 || !sink.airborne[0].Airborne {
		t.Errorf("Airborne = %+v", sink.airborne)
	}
}

func TestFeed_ParseErrorThreshold(t *testing.T) {
	lines := make([]string, 5)
	for i := range lines {
		lines[i] = "not json"
	}

	f := New(&recordingSink{}, WithParseErrorsThreshold(5))
	err := f.Run(strings.NewReader(strings.Join(lines, "\n")))
	if !errors.Is(err, ErrTooManyParseErrors) {
		t.Errorf("Expected ErrTooManyParseErrors, got %v", err)
	}
}

func TestFeed_ParseErrorCounterResets(t *testing.T) {
	lines := []string{
		"not json",
		"not json",
		`{"topic":"fcm/airborne","payload":{"airborne":false}}`,
		"not json",
		"not json",
	}

	sink := &recordingSink{}
	f := New(sink, WithParseErrorsThreshold(3))
	if err := f.Run(strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(sink.airborne) != 1 {
		t.Errorf("Expected 1 airborne message, got %d", len(sink.airborne))
	}
}

func TestLineWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLineWriter(&buf)

	d := 1.0
	if err := lw.Publish(bus.TopicActionGotoLocal, bus.GotoLocal{N: 5, E: 10, D: &d}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := lw.Publish(bus.TopicActionLand, bus.Land{}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"topic":"fcm/action/goto/local"`) {
		t.Errorf("First line = %s", lines[0])
	}
	if !strings.Contains(lines[0], `"n":5`) || !strings.Contains(lines[0], `"hdg":null`) {
		t.Errorf("Goto payload = %s", lines[0])
	}
}
