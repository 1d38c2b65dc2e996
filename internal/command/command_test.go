package command

import (
	"math"
	"testing"

	"github.com/drone-gcs/movingmap/internal/bus"
	"github.com/drone-gcs/movingmap/internal/ned"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()
	proj, err := ned.NewProjection(50)
	if err != nil {
		t.Fatalf("Failed to create projection: %v", err)
	}
	return NewTranslator(proj, 1.5)
}

func TestClickIntents_Airborne(t *testing.T) {
	tr := newTestTranslator(t)

	intents := tr.ClickIntents(ned.ScreenPoint{X: 500, Y: -250}, true)
	if len(intents) != 2 {
		t.Fatalf("Expected 2 intents airborne, got %d", len(intents))
	}

	goto_ := intents[0]
	if goto_.Topic != bus.TopicActionGotoLocal {
		t.Errorf("First intent topic = %s, want %s", goto_.Topic, bus.TopicActionGotoLocal)
	}
	payload, ok := goto_.Payload.(bus.GotoLocal)
	if !ok {
		t.Fatalf("Goto payload has type %T", goto_.Payload)
	}
	if math.Abs(payload.N-5) > 1e-9 || math.Abs(payload.E-10) > 1e-9 {
		t.Errorf("Goto coordinates = (%v, %v), want (5, 10)", payload.N, payload.E)
	}
	if payload.D != nil || payload.Heading != nil {
		t.Error("Altitude and heading must be nil to hold current values")
	}
	if payload.Relative {
		t.Error("Goto must use absolute coordinates")
	}

	if intents[1].Topic != bus.TopicActionLand {
		t.Errorf("Second intent topic = %s, want %s", intents[1].Topic, bus.TopicActionLand)
	}

	for _, intent := range intents {
		if _, ok := intent.Payload.(bus.Takeoff); ok {
			t.Error("Takeoff offered while airborne")
		}
	}
}

func TestClickIntents_Grounded(t *testing.T) {
	tr := newTestTranslator(t)

	intents := tr.ClickIntents(ned.ScreenPoint{X: 500, Y: -250}, false)
	if len(intents) != 1 {
		t.Fatalf("Expected 1 intent grounded, got %d", len(intents))
	}

	takeoff := intents[0]
	if takeoff.Topic != bus.TopicActionTakeoff {
		t.Errorf("Intent topic = %s, want %s", takeoff.Topic, bus.TopicActionTakeoff)
	}
	payload, ok := takeoff.Payload.(bus.Takeoff)
	if !ok {
		t.Fatalf("Takeoff payload has type %T", takeoff.Payload)
	}
	if payload.RelativeAltitude != 1.5 {
		t.Errorf("RelativeAltitude = %v, want 1.5", payload.RelativeAltitude)
	}

	for _, intent := range intents {
		switch intent.Payload.(type) {
		case bus.GotoLocal, bus.Land:
			t.Errorf("%T offered while grounded", intent.Payload)
		}
	}
}

func TestClickIntents_LabelRoundsCoordinates(t *testing.T) {
	tr := newTestTranslator(t)

	// 123.4 px / 50 = 2.468 m east, -617.15 px / 50 = 12.343 m north.
	intents := tr.ClickIntents(ned.ScreenPoint{X: 123.4, Y: -617.15}, true)

	if want := "Goto 12.3, 2.5"; intents[0].Label != want {
		t.Errorf("Label = %q, want %q", intents[0].Label, want)
	}

	// The transmitted value is not rounded.
	payload := intents[0].Payload.(bus.GotoLocal)
	if payload.N == 12.3 || payload.E == 2.5 {
		t.Error("Payload coordinates must keep full precision")
	}
}
