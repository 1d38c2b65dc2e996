// Package command turns pointer interactions on the map into outbound
// flight commands, gated by the vehicle's airborne state.
package command

import (
	"fmt"

	"github.com/drone-gcs/movingmap/internal/bus"
	"github.com/drone-gcs/movingmap/internal/ned"
)

// Intent is a single command choice offered to the operator. Label is the
// human-readable menu text; Topic and Payload are what gets published when
// the intent is chosen. Labels round coordinates to one decimal place, but
// the transmitted payload keeps full precision.
type Intent struct {
	Topic   string
	Label   string
	Payload any
}

// Translator converts clicked scene points back into NED coordinates and
// produces the command intents valid for the current airborne state.
type Translator struct {
	proj            ned.Projection
	takeoffAltitude float64
}

// NewTranslator creates a translator using the given projection and the
// configured takeoff target altitude, relative to the ground, in meters.
func NewTranslator(proj ned.Projection, takeoffAltitude float64) *Translator {
	return &Translator{proj: proj, takeoffAltitude: takeoffAltitude}
}

// ClickIntents returns the set of intents for a click at the given scene
// point. Airborne, the choice is a reposition to the clicked coordinate,
// with altitude and heading held, or a landing at the current position.
// Grounded, the only valid action is a takeoff; the clicked coordinate is
// ignored.
func (t *Translator) ClickIntents(pt ned.ScreenPoint, airborne bool) []Intent {
	if !airborne {
		return []Intent{{
			Topic:   bus.TopicActionTakeoff,
			Label:   "Takeoff",
			Payload: bus.Takeoff{RelativeAltitude: t.takeoffAltitude},
		}}
	}

	n, e := t.proj.ToWorld(pt)
	return []Intent{
		{
			Topic: bus.TopicActionGotoLocal,
			Label: fmt.Sprintf("Goto %.1f, %.1f", n, e),
			Payload: bus.GotoLocal{
				N:        n,
				E:        e,
				D:        nil, // hold current altitude
				Heading:  nil, // hold current heading
				Relative: false,
			},
		},
		{
			Topic:   bus.TopicActionLand,
			Label:   "Land at current position",
			Payload: bus.Land{},
		},
	}
}
