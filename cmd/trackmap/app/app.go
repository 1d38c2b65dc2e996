package app

import (
	"context"
	"fmt"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/drone-gcs/movingmap/internal/flightlog"
	"github.com/drone-gcs/movingmap/internal/ned"
	"github.com/drone-gcs/movingmap/internal/render"
	"github.com/drone-gcs/movingmap/internal/track"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := flightlog.New(config.DBPath)
	defer store.Close()

	return renderTrack(ctx, store, config, logger)
}

func renderTrack(ctx context.Context, store *flightlog.Store, config *Config, logger *slog.Logger) error {
	session, err := store.Session(ctx, config.SessionID)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}

	logger.Info("reading session",
		slog.Int64("session", session.ID),
		slog.String("vehicle", session.VehicleID),
		slog.String("started", session.StartTime.Local().Format(time.DateTime)))

	trail, stats, err := buildTrail(ctx, store, config, session)
	if err != nil {
		return err
	}

	logger.Info("finished reading positions",
		slog.Group("stats",
			slog.Int("samples", stats.Samples),
			slog.String("distance", fmt.Sprintf("%0.1fm", stats.Distance)),
			slog.String("maxAltitude", fmt.Sprintf("%0.1fm", stats.MaxAltitude)),
		))

	renderer, err := render.NewMapRenderer(render.Config{
		Width:          config.Width,
		Height:         config.Height,
		PixelsPerMeter: config.PixelsPerMeter,
		FontPath:       config.FontPath,
		NoAnnotations:  config.NoAnnotations,
	})
	if err != nil {
		return fmt.Errorf("creating map renderer: %w", err)
	}

	logger.Info("rendering track map",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
		))

	img, err := renderer.Render(trail.segments, trail.marker, 0, stats)
	if err != nil {
		return fmt.Errorf("rendering track map: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

type trail struct {
	segments []track.Segment
	marker   ned.ScreenPoint
}

// buildTrail replays the recorded positions through the same projection
// and altitude gradient the live panel uses.
func buildTrail(ctx context.Context, store *flightlog.Store, config *Config, session *flightlog.Session) (*trail, render.Stats, error) {
	proj, err := ned.NewProjection(config.PixelsPerMeter)
	if err != nil {
		return nil, render.Stats{}, fmt.Errorf("creating projection: %w", err)
	}

	gradient, err := track.NewGradient(
		color.RGBA{B: 255, A: 255},
		color.RGBA{R: 255, A: 255},
		config.AltitudeMin, config.AltitudeMax)
	if err != nil {
		return nil, render.Stats{}, fmt.Errorf("creating gradient: %w", err)
	}

	iter, err := store.ReadPositions(ctx, config.SessionID)
	if err != nil {
		return nil, render.Stats{}, fmt.Errorf("reading positions: %w", err)
	}
	defer iter.Close()

	t := trail{}
	stats := render.Stats{VehicleID: session.VehicleID, Start: session.StartTime}

	var prev *flightlog.Position
	for iter.Next() {
		pos := iter.Current()

		pt := proj.ToScreen(pos.N, pos.E)
		if prev != nil {
			t.segments = append(t.segments, track.Segment{
				ID:    track.SegmentID(stats.Samples),
				From:  t.marker,
				To:    pt,
				Color: gradient.At(-pos.D),
			})
			stats.Distance += math.Hypot(pos.N-prev.N, pos.E-prev.E)
		}
		t.marker = pt

		if alt := -pos.D; alt > stats.MaxAltitude {
			stats.MaxAltitude = alt
		}
		stats.Samples++
		stats.End = pos.Timestamp
		prev = &pos
	}
	if err = iter.Error(); err != nil {
		return nil, render.Stats{}, fmt.Errorf("iterating positions: %w", err)
	}

	return &t, stats, nil
}
