// Package feed adapts a line-delimited JSON telemetry stream to the panel's
// typed handlers, and publishes outbound commands in the same framing. The
// stream usually comes from the stdout of an external bus client process;
// cancelling that process closes the pipe and ends the feed.
package feed

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/drone-gcs/movingmap/internal/bus"
)

// ParseErrorsThreshold defines the number of consecutive parse errors allowed.
const ParseErrorsThreshold = 5

// ErrTooManyParseErrors is returned when the number of consecutive parse
// errors exceeds the threshold.
var ErrTooManyParseErrors = errors.New("too many consecutive parse errors")

// Envelope frames one message on the wire: a topic and its JSON payload.
type Envelope struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Sink receives decoded inbound messages, one handler per topic. The feed
// calls handlers sequentially from its read loop; each handler runs to
// completion before the next message is decoded.
type Sink interface {
	HandleAttitude(m bus.AttitudeEuler)
	HandlePosition(m bus.PositionLocal)
	HandleAirborne(m bus.Airborne)
}

// WithLogger sets the logger for the feed.
func WithLogger(logger *slog.Logger) func(*Feed) {
	return func(f *Feed) {
		f.logger = logger
	}
}

// WithParseErrorsThreshold sets the threshold for consecutive parse errors.
func WithParseErrorsThreshold(threshold uint8) func(*Feed) {
	return func(f *Feed) {
		f.parseErrorsThreshold = threshold
	}
}

// Feed decodes envelopes from a reader and dispatches them to a sink.
type Feed struct {
	sink                 Sink
	logger               *slog.Logger
	parseErrorsThreshold uint8
}

// New creates a feed with a discard logger.
func New(sink Sink, options ...func(*Feed)) *Feed {
	f := Feed{
		sink:                 sink,
		logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
		parseErrorsThreshold: ParseErrorsThreshold,
	}

	for _, option := range options {
		option(&f)
	}

	return &f
}

// Run reads the stream until EOF or a fatal error. Unknown topics are
// logged and skipped; malformed lines count toward the consecutive parse
// error threshold.
func (f *Feed) Run(r io.Reader) error {
	var parseErrors uint8

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := f.dispatch(line); err != nil {
			parseErrors++
			f.logger.Warn(fmt.Sprintf("error parsing message: %s", err.Error()), slog.String("line", line))

			if parseErrors >= f.parseErrorsThreshold {
				return ErrTooManyParseErrors
			}
			continue
		}

		parseErrors = 0 // reset counter
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		return fmt.Errorf("reading stream: %w", err)
	}

	return nil
}

func (f *Feed) dispatch(line string) error {
	var env Envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}

	switch env.Topic {
	case bus.TopicAttitudeEuler:
		var m bus.AttitudeEuler
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return fmt.Errorf("decoding attitude: %w", err)
		}
		f.sink.HandleAttitude(m)

	case bus.TopicPositionLocal:
		var m bus.PositionLocal
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return fmt.Errorf("decoding position: %w", err)
		}
		f.sink.HandlePosition(m)

	case bus.TopicAirborne:
		var m bus.Airborne
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return fmt.Errorf("decoding airborne: %w", err)
		}
		f.sink.HandleAirborne(m)

	default:
		f.logger.Debug("ignoring unknown topic", slog.String("topic", env.Topic))
	}

	return nil
}
