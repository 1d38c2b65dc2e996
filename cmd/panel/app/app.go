package app

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/drone-gcs/movingmap/internal/bus"
	"github.com/drone-gcs/movingmap/internal/feed"
	"github.com/drone-gcs/movingmap/internal/flightlog"
	"github.com/drone-gcs/movingmap/internal/panel"
	"github.com/drone-gcs/movingmap/internal/render"
)

const (
	storageDir       = "data"
	defaultVehicleID = "vehicle"
)

// Run wires the telemetry source, the panel, the flight log and the
// snapshot writer together, and blocks until the source stream ends or the
// context is cancelled.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create flight log: %w", err)
	}
	defer store.Close()

	vehicleID := config.Storage.VehicleID
	if vehicleID == "" {
		vehicleID = defaultVehicleID
	}

	sessionID, err := store.CreateSession(ctx, vehicleID, config.Panel)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	source, commands, wait, err := startSource(ctx, config.Source)
	if err != nil {
		return fmt.Errorf("starting telemetry source: %w", err)
	}

	publisher := &recordingPublisher{
		inner:     feed.NewLineWriter(commands),
		store:     store,
		sessionID: sessionID,
		logger:    logger,
	}

	panelConfig, err := config.panelConfig()
	if err != nil {
		return fmt.Errorf("invalid panel configuration: %w", err)
	}

	scene := newHeadlessScene()
	p, err := panel.New(panelConfig, scene, publisher, panel.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating panel: %w", err)
	}

	sink := &recordingSink{
		panel:     p,
		store:     store,
		sessionID: sessionID,
		logger:    logger,
	}

	snapshotCtx, stopSnapshots := context.WithCancel(ctx)
	defer stopSnapshots()

	var wg sync.WaitGroup
	if config.Snapshots.Enabled {
		interval, err := config.Snapshots.IntervalDuration()
		if err != nil {
			return err
		}

		renderer, err := render.NewMapRenderer(render.Config{
			Width:          config.Snapshots.Width,
			Height:         config.Snapshots.Height,
			PixelsPerMeter: panelConfig.PixelsPerMeter,
			FontPath:       config.Snapshots.FontPath,
		})
		if err != nil {
			return fmt.Errorf("creating snapshot renderer: %w", err)
		}

		snapshots := &snapshotWriter{
			renderer:  renderer,
			scene:     scene,
			sink:      sink,
			vehicleID: vehicleID,
			outputDir: config.Snapshots.OutputDirectory,
			logger:    logger,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			snapshots.run(snapshotCtx, interval)
		}()
	}

	logger.Info("panel running",
		slog.Int64("session", sessionID),
		slog.String("vehicle", vehicleID))

	runErr := feed.New(sink, feed.WithLogger(logger)).Run(source)

	stopSnapshots()
	wg.Wait()

	if waitErr := wait(); waitErr != nil && runErr == nil {
		runErr = fmt.Errorf("telemetry source: %w", waitErr)
	}
	return runErr
}

// startSource opens the telemetry stream. With a configured command it
// starts the process and returns its stdout for telemetry and stdin for
// commands; otherwise it falls back to this process's own stdio.
func startSource(ctx context.Context, config SourceConfig) (io.Reader, io.Writer, func() error, error) {
	if config.Command == "" {
		return os.Stdin, os.Stdout, func() error { return nil }, nil
	}

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening stdout pipe: %w", err)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening stdin pipe: %w", err)
	}

	if err = cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("starting %s: %w", config.Command, err)
	}

	wait := func() error {
		_ = stdin.Close()
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}
	return stdout, stdin, wait, nil
}

func createStorage(config *StorageConfig) (*flightlog.Store, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	dbPath := filepath.Join(wd, storageDir)
	if config.DataDirectory != "" {
		dbPath = config.DataDirectory
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(wd, dbPath)
		}
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("flight log directory '%s': %w", dbPath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid flight log directory '%s'", dbPath)
	}

	dbPath = filepath.Join(dbPath, fmt.Sprintf("flight_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return flightlog.New(dbPath), nil
}

// recordingSink forwards telemetry to the panel and records it in the
// flight log. Storage failures are logged, never fatal to the flight.
type recordingSink struct {
	panel     *panel.Panel
	store     *flightlog.Store
	sessionID int64
	logger    *slog.Logger

	mu          sync.Mutex
	samples     int
	distance    float64
	maxAltitude float64
	lastPos     *bus.PositionLocal
}

func (s *recordingSink) HandleAttitude(m bus.AttitudeEuler) {
	s.panel.HandleAttitude(m)

	err := s.store.StoreAttitude(context.Background(), s.sessionID, flightlog.Attitude{
		Timestamp: time.Now().UTC(),
		Roll:      m.Roll,
		Pitch:     m.Pitch,
		Yaw:       m.Yaw,
	})
	if err != nil {
		s.logger.Warn(fmt.Sprintf("recording attitude: %s", err.Error()))
	}
}

func (s *recordingSink) HandlePosition(m bus.PositionLocal) {
	s.panel.HandlePosition(m)

	s.mu.Lock()
	s.samples++
	if alt := -m.D; alt > s.maxAltitude {
		s.maxAltitude = alt
	}
	if s.lastPos != nil {
		dn := m.N - s.lastPos.N
		de := m.E - s.lastPos.E
		s.distance += math.Hypot(dn, de)
	}
	last := m
	s.lastPos = &last
	s.mu.Unlock()

	err := s.store.StorePosition(context.Background(), s.sessionID, flightlog.Position{
		Timestamp: time.Now().UTC(),
		N:         m.N,
		E:         m.E,
		D:         m.D,
	})
	if err != nil {
		s.logger.Warn(fmt.Sprintf("recording position: %s", err.Error()))
	}
}

func (s *recordingSink) HandleAirborne(m bus.Airborne) {
	s.panel.HandleAirborne(m)

	err := s.store.StoreEvent(context.Background(), s.sessionID, flightlog.Event{
		Timestamp: time.Now().UTC(),
		Airborne:  m.Airborne,
	})
	if err != nil {
		s.logger.Warn(fmt.Sprintf("recording airborne event: %s", err.Error()))
	}
}

func (s *recordingSink) stats(vehicleID string) render.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Stats{
		VehicleID:   vehicleID,
		Samples:     s.samples,
		Distance:    s.distance,
		MaxAltitude: s.maxAltitude,
	}
}

// recordingPublisher records outbound commands before forwarding them.
type recordingPublisher struct {
	inner     bus.Publisher
	store     *flightlog.Store
	sessionID int64
	logger    *slog.Logger
}

func (p *recordingPublisher) Publish(topic string, payload any) error {
	if err := p.store.StoreCommand(context.Background(), p.sessionID, topic, payload); err != nil {
		p.logger.Warn(fmt.Sprintf("recording command: %s", err.Error()), slog.String("topic", topic))
	}
	return p.inner.Publish(topic, payload)
}

// snapshotWriter renders the live scene to timestamped PNG files on a
// fixed interval.
type snapshotWriter struct {
	renderer  *render.MapRenderer
	scene     *headlessScene
	sink      *recordingSink
	vehicleID string
	outputDir string
	logger    *slog.Logger
}

func (w *snapshotWriter) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.write(); err != nil {
				w.logger.Warn(fmt.Sprintf("writing snapshot: %s", err.Error()))
			}
		}
	}
}

func (w *snapshotWriter) write() error {
	segments, marker, rotation := w.scene.snapshot()

	img, err := w.renderer.Render(segments, marker, rotation, w.sink.stats(w.vehicleID))
	if err != nil {
		return err
	}

	name := fmt.Sprintf("map_%s.png", time.Now().UTC().Format("20060102_150405"))
	f, err := os.Create(filepath.Join(w.outputDir, name))
	if err != nil {
		return err
	}

	if err = png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
