package flightlog

import "time"

// Session is a single recorded flight. Config is the panel configuration
// snapshot captured at session start, as JSON.
type Session struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"startTime"`
	VehicleID string    `json:"vehicleID"`
	Config    *string   `json:"config,omitempty"`
}

// Position is a recorded local-position sample in the NED frame, meters.
type Position struct {
	Timestamp time.Time `json:"timestamp"`
	N         float64   `json:"n"`
	E         float64   `json:"e"`
	D         float64   `json:"d"`
}

// Attitude is a recorded attitude sample in degrees.
type Attitude struct {
	Timestamp time.Time `json:"timestamp"`
	Roll      float64   `json:"roll"`
	Pitch     float64   `json:"pitch"`
	Yaw       float64   `json:"yaw"`
}

// Event is a recorded state change, currently only the airborne flag.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Airborne  bool      `json:"airborne"`
}

// Command is a recorded outbound command with its JSON payload.
type Command struct {
	Timestamp time.Time `json:"timestamp"`
	Topic     string    `json:"topic"`
	Payload   *string   `json:"payload,omitempty"`
}
