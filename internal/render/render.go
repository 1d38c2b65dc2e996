// Package render draws a moving-map snapshot to an image: the metric grid,
// the recorded trail, the home marker and the vehicle marker, with optional
// text annotations. It is the offline counterpart of the live scene, used
// by the trackmap tool and for periodic snapshots from the live panel.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/drone-gcs/movingmap/internal/ned"
	"github.com/drone-gcs/movingmap/internal/track"
)

const (
	defaultWidth  = 800
	defaultHeight = 800

	// Grid geometry at 1x zoom: one line per meter, emphasized axes.
	gridMeterSpacing = 1.0
	gridAlpha        = 122
	axisLineWidth    = 5

	trackLineWidth = 3
	markerSize     = 14.0
	homeMarkerSize = 10.0
	fitPadding     = 60.0
	infoBarHeight  = 28
	minFitScale    = 0.02
)

// Config holds the snapshot renderer options.
type Config struct {
	// Width and Height of the output image in pixels. Zero selects
	// 800x800.
	Width  int
	Height int

	// PixelsPerMeter is the scene scale the trail was projected with.
	// Zero selects the default of 50.
	PixelsPerMeter float64

	// FontPath optionally names a TTF file for annotations. When empty,
	// a built-in bitmap face is used.
	FontPath string

	// NoAnnotations disables the axis labels and info bar.
	NoAnnotations bool
}

// Stats summarizes the rendered session for the info bar.
type Stats struct {
	VehicleID   string
	Samples     int
	Distance    float64 // meters flown
	MaxAltitude float64 // meters above ground
	Start       time.Time
	End         time.Time
}

// MapRenderer renders track snapshots.
type MapRenderer struct {
	cfg Config
}

// NewMapRenderer creates a renderer, applying defaults for zero values.
func NewMapRenderer(cfg Config) (*MapRenderer, error) {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = defaultHeight
	}
	if cfg.PixelsPerMeter == 0 {
		cfg.PixelsPerMeter = ned.DefaultPixelsPerMeter
	}
	if cfg.Width < 0 || cfg.Height < 0 || cfg.PixelsPerMeter < 0 {
		return nil, fmt.Errorf("invalid render config: %dx%d at %f px/m", cfg.Width, cfg.Height, cfg.PixelsPerMeter)
	}
	return &MapRenderer{cfg: cfg}, nil
}

// Render draws the trail segments and the vehicle marker at its final
// position and rotation. The view is fitted around the trail with padding;
// an empty trail centers the view on the scene origin.
func (r *MapRenderer) Render(segments []track.Segment, marker ned.ScreenPoint, rotationDeg float64, stats Stats) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	view := fitView(segments, marker, r.cfg.Width, r.cfg.Height)

	r.drawGrid(img, view)
	r.drawHome(img, view)

	for _, seg := range segments {
		drawThickLine(img, view.toImage(seg.From), view.toImage(seg.To), seg.Color, trackLineWidth)
	}

	r.drawMarker(img, view.toImage(marker), rotationDeg)

	if !r.cfg.NoAnnotations {
		ann, err := newAnnotator(r.cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		defer ann.Close()

		if err = ann.annotate(img, view, stats); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	return img, nil
}

// view maps scene coordinates onto the image: the scene focus point lands
// on the image center, scaled by the fit factor.
type view struct {
	focus   ned.ScreenPoint
	scale   float64
	centerX float64
	centerY float64
}

func (v view) toImage(pt ned.ScreenPoint) image.Point {
	return image.Point{
		X: int(math.Round((pt.X-v.focus.X)*v.scale + v.centerX)),
		Y: int(math.Round((pt.Y-v.focus.Y)*v.scale + v.centerY)),
	}
}

// fitView fits the trail's bounding box (plus the marker) into the image
// with padding. The view never scales up past 1:1 scene pixels.
func fitView(segments []track.Segment, marker ned.ScreenPoint, width, height int) view {
	minX, minY := marker.X, marker.Y
	maxX, maxY := marker.X, marker.Y

	for _, seg := range segments {
		for _, pt := range []ned.ScreenPoint{seg.From, seg.To} {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}

	availW := float64(width) - 2*fitPadding
	availH := float64(height) - 2*fitPadding - infoBarHeight

	scale := 1.0
	if w := maxX - minX; w > availW {
		scale = availW / w
	}
	if h := maxY - minY; h > availH {
		scale = math.Min(scale, availH/h)
	}
	scale = math.Max(scale, minFitScale)

	return view{
		focus:   ned.ScreenPoint{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		scale:   scale,
		centerX: float64(width) / 2,
		centerY: (float64(height) - infoBarHeight) / 2,
	}
}

// drawGrid draws vertical and horizontal meter lines across the image, with
// the scene axes through the origin drawn wider.
func (r *MapRenderer) drawGrid(img *image.RGBA, v view) {
	bounds := img.Bounds()
	gridColor := color.RGBA{A: gridAlpha}

	step := gridMeterSpacing * r.cfg.PixelsPerMeter * v.scale
	if step < 4 {
		// Zoomed out too far for a per-meter grid to read as anything
		// but noise.
		step = math.Max(step*10, 4)
	}

	// Scene X position of the first grid line left of the image.
	originX := v.centerX - v.focus.X*v.scale
	originY := v.centerY - v.focus.Y*v.scale

	for x := math.Mod(originX, step); x < float64(bounds.Max.X); x += step {
		drawVerticalLine(img, int(math.Round(x)), gridColor, 1)
	}
	for y := math.Mod(originY, step); y < float64(bounds.Max.Y); y += step {
		drawHorizontalLine(img, int(math.Round(y)), gridColor, 1)
	}

	axisColor := color.RGBA{A: gridAlpha}
	drawVerticalLine(img, int(math.Round(originX)), axisColor, axisLineWidth)
	drawHorizontalLine(img, int(math.Round(originY)), axisColor, axisLineWidth)
}

// drawHome marks the NED origin with a cross.
func (r *MapRenderer) drawHome(img *image.RGBA, v view) {
	origin := v.toImage(ned.ScreenPoint{})
	homeColor := color.RGBA{G: 128, A: 255}

	drawThickLine(img, image.Point{X: origin.X - homeMarkerSize, Y: origin.Y}, image.Point{X: origin.X + homeMarkerSize, Y: origin.Y}, homeColor, 2)
	drawThickLine(img, image.Point{X: origin.X, Y: origin.Y - homeMarkerSize}, image.Point{X: origin.X, Y: origin.Y + homeMarkerSize}, homeColor, 2)
}

// drawMarker draws the vehicle as a triangle pointing along its rotation,
// zero degrees pointing up the screen (north).
func (r *MapRenderer) drawMarker(img *image.RGBA, at image.Point, rotationDeg float64) {
	rad := rotationDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	rotate := func(x, y float64) image.Point {
		return image.Point{
			X: at.X + int(math.Round(x*cos-y*sin)),
			Y: at.Y + int(math.Round(x*sin+y*cos)),
		}
	}

	nose := rotate(0, -markerSize)
	left := rotate(-markerSize/2, markerSize/2)
	right := rotate(markerSize/2, markerSize/2)

	markerColor := color.RGBA{R: 220, A: 255}
	drawThickLine(img, nose, left, markerColor, 2)
	drawThickLine(img, left, right, markerColor, 2)
	drawThickLine(img, right, nose, markerColor, 2)
}
