// Package panel wires the moving-map models together under a single
// controller: coordinate projection, trail history, attitude and altitude
// instruments, the viewport camera and command translation. The controller
// owns all mutable state; external callers push samples through the handler
// methods and read derived display values, never the other way around.
//
// All updates run on one event loop. Handlers run to completion before the
// next message is processed, so no locking is needed.
package panel

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/drone-gcs/movingmap/internal/bus"
	"github.com/drone-gcs/movingmap/internal/command"
	"github.com/drone-gcs/movingmap/internal/instrument"
	"github.com/drone-gcs/movingmap/internal/ned"
	"github.com/drone-gcs/movingmap/internal/track"
	"github.com/drone-gcs/movingmap/internal/viewport"
)

// Config carries every tunable the panel consumes. Values are passed
// explicitly; the panel reads no global configuration.
type Config struct {
	// PixelsPerMeter is the scene scale. Zero selects the default of 50.
	PixelsPerMeter float64

	// MaxTracks bounds the trail history. Zero disables the trail.
	MaxTracks int

	// TakeoffAltitude is the relative takeoff target in meters.
	TakeoffAltitude float64

	// Altitude range in meters above ground for trail coloring and the
	// altitude ladder. Zero values select the 0..20 m default.
	AltitudeMin float64
	AltitudeMax float64

	// Trail color endpoints for the altitude smear.
	TrackColorLow  color.RGBA
	TrackColorHigh color.RGBA

	// Attitude indicator geometry. Zero PixelsPerDegree selects the
	// native 1.7; zero scales select 1.
	AttitudePixelsPerDegree float64
	AttitudeScaleX          float64
	AttitudeScaleY          float64

	// Altitude ladder icon geometry. The visual height is the icon's
	// rendered height after aspect-preserving fit-scaling; the bounding
	// height is the box the scene positions it by.
	IconBoundingHeight float64
	IconVisualHeight   float64
}

// DefaultTakeoffAltitude is the relative takeoff target used when the
// configuration does not set one, in meters.
const DefaultTakeoffAltitude = 2.0

func (c *Config) applyDefaults() {
	if c.PixelsPerMeter == 0 {
		c.PixelsPerMeter = ned.DefaultPixelsPerMeter
	}
	if c.TakeoffAltitude == 0 {
		c.TakeoffAltitude = DefaultTakeoffAltitude
	}
	if c.AltitudeMin == 0 && c.AltitudeMax == 0 {
		c.AltitudeMax = 20
	}
	if c.TrackColorLow == (color.RGBA{}) && c.TrackColorHigh == (color.RGBA{}) {
		c.TrackColorLow = color.RGBA{R: 0, G: 0, B: 255, A: 255}
		c.TrackColorHigh = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	}
	if c.AttitudePixelsPerDegree == 0 {
		c.AttitudePixelsPerDegree = instrument.DefaultPixelsPerDegree
	}
	if c.AttitudeScaleX == 0 {
		c.AttitudeScaleX = 1
	}
	if c.AttitudeScaleY == 0 {
		c.AttitudeScaleY = 1
	}
	if c.IconBoundingHeight == 0 {
		c.IconBoundingHeight = instrument.AltitudeIconHeight
	}
	if c.IconVisualHeight == 0 {
		c.IconVisualHeight = c.IconBoundingHeight
	}
}

// WithLogger sets the logger for the panel.
func WithLogger(logger *slog.Logger) func(*Panel) {
	return func(p *Panel) {
		p.logger = logger
	}
}

// Panel is the moving-map controller. It is the single owner of the trail
// history, instrument models, camera state and airborne flag.
type Panel struct {
	cfg    Config
	logger *slog.Logger

	proj       ned.Projection
	tracks     *track.History
	gradient   *track.Gradient
	attitude   instrument.Attitude
	altitude   *instrument.Altitude
	camera     *viewport.Controller
	translator *command.Translator

	scene     Scene
	publisher bus.Publisher

	airborne  bool
	markerPos ned.ScreenPoint
	markerRot float64
}

// New creates a panel bound to a scene and an outbound publisher.
func New(cfg Config, scene Scene, publisher bus.Publisher, options ...func(*Panel)) (*Panel, error) {
	cfg.applyDefaults()

	proj, err := ned.NewProjection(cfg.PixelsPerMeter)
	if err != nil {
		return nil, fmt.Errorf("creating projection: %w", err)
	}

	gradient, err := track.NewGradient(cfg.TrackColorLow, cfg.TrackColorHigh, cfg.AltitudeMin, cfg.AltitudeMax)
	if err != nil {
		return nil, fmt.Errorf("creating track gradient: %w", err)
	}

	altitude, err := instrument.NewAltitude(cfg.AltitudeMin, cfg.AltitudeMax)
	if err != nil {
		return nil, fmt.Errorf("creating altitude model: %w", err)
	}

	p := Panel{
		cfg:        cfg,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		proj:       proj,
		tracks:     track.NewHistory(cfg.MaxTracks),
		gradient:   gradient,
		altitude:   altitude,
		camera:     viewport.NewController(),
		translator: command.NewTranslator(proj, cfg.TakeoffAltitude),
		scene:      scene,
		publisher:  publisher,
	}

	for _, option := range options {
		option(&p)
	}

	p.scene.SetPanningEnabled(p.camera.PanningEnabled())
	return &p, nil
}

// HandleAttitude consumes an attitude sample. Yaw rotates the map marker;
// roll and pitch drive the attitude indicator.
func (p *Panel) HandleAttitude(m bus.AttitudeEuler) {
	p.markerRot = m.Yaw
	p.scene.RotateMarker(m.Yaw)

	p.attitude.SetRoll(m.Roll)
	p.attitude.SetPitch(m.Pitch)
	p.applyAttitudeFrame()
}

// HandlePosition consumes a position sample: extends the trail from the
// marker's previous center to the new one, moves the marker, updates the
// altitude ladder, and recenters the camera if it is following. The scene
// is flushed before the recenter so the camera reads committed layout.
func (p *Panel) HandlePosition(m bus.PositionLocal) {
	newPos := p.proj.ToScreen(m.N, m.E)

	seg, evicted, ok := p.tracks.Append(p.markerPos, newPos, p.gradient.At(-m.D))
	p.scene.AddTrackSegment(seg)
	if ok {
		p.scene.RemoveTrackSegment(evicted)
	}

	p.markerPos = newPos
	p.scene.MoveMarker(newPos)

	p.altitude.Set(m.D)
	p.applyAltitude()

	p.scene.Flush()
	if p.camera.ObservePosition(newPos) {
		p.scene.CenterView(p.camera.Center())
	}
}

// HandleAirborne consumes the airborne flag. It only gates which command
// intents a click offers; nothing is redrawn.
func (p *Panel) HandleAirborne(m bus.Airborne) {
	p.airborne = m.Airborne
}

// Airborne reports the last received airborne state.
func (p *Panel) Airborne() bool {
	return p.airborne
}

// MarkerPosition returns the marker center in scene coordinates.
func (p *Panel) MarkerPosition() ned.ScreenPoint {
	return p.markerPos
}

// Tracks exposes the trail history for read-only projection by renderers.
func (p *Panel) Tracks() *track.History {
	return p.tracks
}

// AltitudeDisplay returns the current altitude readout in meters.
func (p *Panel) AltitudeDisplay() float64 {
	return p.altitude.Display()
}

// ToggleFollow flips between follow and free camera mode and returns the
// new state. Entering follow mode recenters on the marker immediately.
func (p *Panel) ToggleFollow() bool {
	following := p.camera.Toggle()
	p.scene.SetPanningEnabled(p.camera.PanningEnabled())

	if following {
		p.scene.Flush()
		if p.camera.ObservePosition(p.markerPos) {
			p.scene.CenterView(p.camera.Center())
		}
	}

	p.logger.Info("follow mode toggled", slog.Bool("following", following))
	return following
}

// Following reports whether the camera is tracking the marker.
func (p *Panel) Following() bool {
	return p.camera.Following()
}

// Pan applies a user pan gesture in scene coordinates. Ignored while the
// camera is following.
func (p *Panel) Pan(dx, dy float64) {
	if !p.camera.PanningEnabled() {
		return
	}
	p.camera.Pan(dx, dy)
	p.scene.CenterView(p.camera.Center())
}

// ZoomIn zooms the view in by one step. Permitted in both camera modes.
func (p *Panel) ZoomIn() {
	p.camera.ZoomIn()
	p.scene.SetZoom(p.camera.Zoom())
}

// ZoomOut zooms the view out by one step.
func (p *Panel) ZoomOut() {
	p.camera.ZoomOut()
	p.scene.SetZoom(p.camera.Zoom())
}

// ClickIntents returns the command choices for a click at a scene point,
// based on the current airborne state.
func (p *Panel) ClickIntents(pt ned.ScreenPoint) []command.Intent {
	return p.translator.ClickIntents(pt, p.airborne)
}

// Dispatch publishes a chosen intent to the flight control computer.
func (p *Panel) Dispatch(intent command.Intent) error {
	if err := p.publisher.Publish(intent.Topic, intent.Payload); err != nil {
		return fmt.Errorf("publishing %s: %w", intent.Topic, err)
	}

	p.logger.Info("command dispatched", slog.String("topic", intent.Topic), slog.String("label", intent.Label))
	return nil
}

// ClearTracks removes the trail without touching any other state.
func (p *Panel) ClearTracks() {
	for _, id := range p.tracks.Clear() {
		p.scene.RemoveTrackSegment(id)
	}
}

// Reset returns the panel to its initial state: marker at the origin with
// no rotation, trail cleared, attitude level, vehicle on the ground, camera
// following at 1x zoom.
func (p *Panel) Reset() {
	p.ClearTracks()

	p.markerPos = ned.ScreenPoint{}
	p.markerRot = 0
	p.scene.MoveMarker(p.markerPos)
	p.scene.RotateMarker(0)

	// One full update cycle after the attitude reset, so the face layer
	// slides back instead of jumping.
	p.attitude.Reset()
	p.applyAttitudeFrame()

	p.altitude.Reset()
	p.applyAltitude()

	p.camera.Reset()
	p.scene.SetPanningEnabled(p.camera.PanningEnabled())
	p.scene.SetZoom(p.camera.Zoom())

	p.scene.Flush()
	p.scene.CenterView(p.camera.Center())

	p.logger.Info("panel reset")
}

func (p *Panel) applyAttitudeFrame() {
	d := p.attitude.FrameDelta(p.cfg.AttitudePixelsPerDegree, p.cfg.AttitudeScaleX, p.cfg.AttitudeScaleY)
	p.scene.MoveAttitudeFace(d.MoveX, d.MoveY)
	p.scene.RotateAttitudeLayers(d.Rotation)
}

func (p *Panel) applyAltitude() {
	y := instrument.IconY(
		p.altitude.Normalized(),
		instrument.AltitudeCanvasHeight,
		instrument.AltitudeGroundWidth,
		p.cfg.IconBoundingHeight,
		p.cfg.IconVisualHeight,
	)
	p.scene.SetAltitudeIcon(y)
	p.scene.SetAltitudeReadout(p.altitude.Display())
}
