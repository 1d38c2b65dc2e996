package render

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/drone-gcs/movingmap/internal/ned"
)

const (
	fontDPI     float64 = 72
	fontSize    float64 = 14
	lineSpacing float64 = 1.1

	axisLabelMargin = 6
)

// annotator draws text labels onto a snapshot image. With a TTF path it
// renders with freetype hinting; otherwise it falls back to a built-in
// bitmap face.
type annotator struct {
	face font.Face
}

func newAnnotator(fontPath string) (*annotator, error) {
	if fontPath == "" {
		return &annotator{face: basicfont.Face7x13}, nil
	}

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    fontSize,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})

	return &annotator{face: face}, nil
}

func (a *annotator) Close() error {
	if closer, ok := a.face.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, v view, stats Stats) error {
	a.drawAxisLabels(img, v)
	a.drawInfoBar(img, stats)
	return nil
}

// drawAxisLabels marks the positive and negative ends of the scene axes.
// North runs up the screen, east runs right.
func (a *annotator) drawAxisLabels(img *image.RGBA, v view) {
	bounds := img.Bounds()
	origin := v.toImage(ned.ScreenPoint{})

	labelColor := color.RGBA{A: 255}

	lineHeight := a.face.Metrics().Height.Ceil()

	a.drawString(img, "N+", origin.X+axisLabelMargin, bounds.Min.Y+lineHeight, labelColor)
	a.drawString(img, "N-", origin.X+axisLabelMargin, bounds.Max.Y-infoBarHeight-axisLabelMargin, labelColor)
	a.drawString(img, "E-", bounds.Min.X+axisLabelMargin, origin.Y-axisLabelMargin, labelColor)

	width := font.MeasureString(a.face, "E+").Ceil()
	a.drawString(img, "E+", bounds.Max.X-width-axisLabelMargin, origin.Y-axisLabelMargin, labelColor)
}

// drawInfoBar fills a strip along the bottom with the session summary.
func (a *annotator) drawInfoBar(img *image.RGBA, stats Stats) {
	bounds := img.Bounds()
	barTop := bounds.Max.Y - infoBarHeight

	for y := barTop; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 32, G: 32, B: 32, A: 255})
		}
	}

	info := fmt.Sprintf("%s  |  %d samples  |  flown %s  |  max alt %s",
		stats.VehicleID,
		stats.Samples,
		a.humanMeters(stats.Distance),
		a.humanMeters(stats.MaxAltitude),
	)
	if !stats.Start.IsZero() {
		info += "  |  " + stats.Start.Format("2006-01-02 15:04:05")
	}

	baseline := barTop + (infoBarHeight+a.face.Metrics().Ascent.Ceil())/2
	a.drawString(img, info, bounds.Min.X+axisLabelMargin, baseline, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func (a *annotator) drawString(img *image.RGBA, s string, x, y int, c color.RGBA) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: a.face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
}

func (a *annotator) humanMeters(m float64) string {
	si, suffix := humanize.ComputeSI(m)
	return fmt.Sprintf("%0.1f %sm", si, suffix)
}
