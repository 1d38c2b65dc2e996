package render

import (
	"image/color"
	"testing"

	"github.com/drone-gcs/movingmap/internal/ned"
	"github.com/drone-gcs/movingmap/internal/track"
)

func TestNewMapRenderer_Defaults(t *testing.T) {
	r, err := NewMapRenderer(Config{})
	if err != nil {
		t.Fatalf("NewMapRenderer() error = %v", err)
	}
	if r.cfg.Width != defaultWidth || r.cfg.Height != defaultHeight {
		t.Errorf("default size = %dx%d, want %dx%d", r.cfg.Width, r.cfg.Height, defaultWidth, defaultHeight)
	}
	if r.cfg.PixelsPerMeter != ned.DefaultPixelsPerMeter {
		t.Errorf("default scale = %f, want %f", r.cfg.PixelsPerMeter, ned.DefaultPixelsPerMeter)
	}
}

func TestNewMapRenderer_InvalidConfig(t *testing.T) {
	if _, err := NewMapRenderer(Config{Width: -1}); err == nil {
		t.Error("NewMapRenderer() with negative width: expected error")
	}
}

func TestRender_EmptyTrail(t *testing.T) {
	r, err := NewMapRenderer(Config{Width: 200, Height: 200, NoAnnotations: true})
	if err != nil {
		t.Fatalf("NewMapRenderer() error = %v", err)
	}

	img, err := r.Render(nil, ned.ScreenPoint{}, 0, Stats{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := img.Bounds().Dx(); got != 200 {
		t.Errorf("image width = %d, want 200", got)
	}
}

func TestRender_SegmentPaintsTrailColor(t *testing.T) {
	r, err := NewMapRenderer(Config{Width: 400, Height: 400, NoAnnotations: true})
	if err != nil {
		t.Fatalf("NewMapRenderer() error = %v", err)
	}

	red := color.RGBA{R: 255, A: 255}
	segments := []track.Segment{
		{ID: 1, From: ned.ScreenPoint{X: -50, Y: 0}, To: ned.ScreenPoint{X: 50, Y: 0}, Color: red},
	}

	img, err := r.Render(segments, ned.ScreenPoint{X: 50, Y: 0}, 0, Stats{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// The segment runs through the image center at 1:1 scale.
	found := false
	for x := 0; x < img.Bounds().Max.X; x++ {
		for y := 0; y < img.Bounds().Max.Y; y++ {
			if img.RGBAAt(x, y) == red {
				found = true
			}
		}
	}
	if !found {
		t.Error("Render() left no trail-colored pixels")
	}
}

func TestRender_WithAnnotations(t *testing.T) {
	r, err := NewMapRenderer(Config{Width: 300, Height: 300})
	if err != nil {
		t.Fatalf("NewMapRenderer() error = %v", err)
	}

	_, err = r.Render(nil, ned.ScreenPoint{}, 0, Stats{VehicleID: "drone-1", Samples: 3, Distance: 12.5, MaxAltitude: 2})
	if err != nil {
		t.Fatalf("Render() with annotations error = %v", err)
	}
}

func TestRender_MissingFontFile(t *testing.T) {
	r, err := NewMapRenderer(Config{Width: 100, Height: 100, FontPath: "does-not-exist.ttf"})
	if err != nil {
		t.Fatalf("NewMapRenderer() error = %v", err)
	}

	if _, err = r.Render(nil, ned.ScreenPoint{}, 0, Stats{}); err == nil {
		t.Error("Render() with missing font: expected error")
	}
}

func TestFitView(t *testing.T) {
	tests := []struct {
		name      string
		segments  []track.Segment
		marker    ned.ScreenPoint
		wantScale float64
	}{
		{
			name:      "small trail keeps native scale",
			segments:  []track.Segment{{From: ned.ScreenPoint{X: -10, Y: -10}, To: ned.ScreenPoint{X: 10, Y: 10}}},
			marker:    ned.ScreenPoint{X: 10, Y: 10},
			wantScale: 1,
		},
		{
			name:      "wide trail scales down",
			segments:  []track.Segment{{From: ned.ScreenPoint{X: -1000, Y: 0}, To: ned.ScreenPoint{X: 1000, Y: 0}}},
			marker:    ned.ScreenPoint{X: 1000, Y: 0},
			wantScale: (400 - 2*fitPadding) / 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := fitView(tt.segments, tt.marker, 400, 400)
			if diff := v.scale - tt.wantScale; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("scale = %f, want %f", v.scale, tt.wantScale)
			}
		})
	}
}

func TestViewToImage_CentersFocus(t *testing.T) {
	v := view{focus: ned.ScreenPoint{X: 100, Y: 50}, scale: 1, centerX: 200, centerY: 200}

	got := v.toImage(ned.ScreenPoint{X: 100, Y: 50})
	if got.X != 200 || got.Y != 200 {
		t.Errorf("toImage(focus) = %v, want (200, 200)", got)
	}

	got = v.toImage(ned.ScreenPoint{X: 110, Y: 40})
	if got.X != 210 || got.Y != 190 {
		t.Errorf("toImage(offset) = %v, want (210, 190)", got)
	}
}
