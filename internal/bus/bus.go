// Package bus defines the message topics and payloads the panel exchanges
// with the flight control computer. The transport itself is external; the
// panel only depends on the Publisher interface and per-topic handlers.
package bus

// Inbound topics, one handler per topic.
const (
	TopicAttitudeEuler = "fcm/attitude/euler/degrees"
	TopicPositionLocal = "fcm/position/local"
	TopicAirborne      = "fcm/airborne"
)

// Outbound command topics.
const (
	TopicActionGotoLocal = "fcm/action/goto/local"
	TopicActionLand      = "fcm/action/land"
	TopicActionTakeoff   = "fcm/action/takeoff"
)

// AttitudeEuler is the vehicle attitude in degrees. Yaw is unconstrained;
// roll and pitch are clamped by the consuming model, not here.
type AttitudeEuler struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// PositionLocal is the vehicle position in the local NED frame, in meters.
type PositionLocal struct {
	N float64 `json:"n"`
	E float64 `json:"e"`
	D float64 `json:"d"`
}

// Airborne reports whether the vehicle is currently flying.
type Airborne struct {
	Airborne bool `json:"airborne"`
}

// GotoLocal commands a reposition to a local NED coordinate. A nil D or
// Heading means "hold current".
type GotoLocal struct {
	N        float64  `json:"n"`
	E        float64  `json:"e"`
	D        *float64 `json:"d"`
	Heading  *float64 `json:"hdg"`
	Relative bool     `json:"relative"`
}

// Land commands a landing at the current position. It has no payload
// fields; the type exists so every topic publishes a typed message.
type Land struct{}

// Takeoff commands a takeoff to a relative altitude in meters.
type Takeoff struct {
	RelativeAltitude float64 `json:"rel_alt"`
}

// Publisher sends outbound command payloads to the flight control computer.
type Publisher interface {
	Publish(topic string, payload any) error
}
