package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// LineWriter publishes outbound commands as newline-delimited JSON
// envelopes, the mirror image of the inbound framing. It implements
// bus.Publisher.
type LineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineWriter creates a publisher writing envelopes to w, typically the
// stdin of the external bus client process.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// Publish writes one envelope line for the given topic and payload.
func (lw *LineWriter) Publish(topic string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		p, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling payload: %w", err)
		}
		raw = p
	}

	line, err := json.Marshal(Envelope{Topic: topic, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()

	if _, err = lw.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing envelope: %w", err)
	}
	return nil
}
