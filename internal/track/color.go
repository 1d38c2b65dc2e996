package track

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// trackAlpha matches the translucent pen the trail is drawn with.
const trackAlpha = 200

// Gradient maps an altitude above ground to a trail color by blending
// between two endpoint colors. Altitudes outside [MinAltitude, MaxAltitude]
// clamp to the nearest endpoint.
type Gradient struct {
	low  colorful.Color
	high colorful.Color

	minAltitude float64
	maxAltitude float64
	alpha       uint8
}

// NewGradient creates a gradient between low and high over the given
// altitude range in meters. The range must be non-degenerate; a min equal to
// or above max is a configuration error.
func NewGradient(low, high color.RGBA, minAltitude, maxAltitude float64) (*Gradient, error) {
	if minAltitude >= maxAltitude {
		return nil, fmt.Errorf("invalid altitude range: min=%f, max=%f", minAltitude, maxAltitude)
	}
	return &Gradient{
		low:         toColorful(low),
		high:        toColorful(high),
		minAltitude: minAltitude,
		maxAltitude: maxAltitude,
		alpha:       trackAlpha,
	}, nil
}

// At returns the trail color for an altitude above ground in meters.
func (g *Gradient) At(altitude float64) color.RGBA {
	t := (altitude - g.minAltitude) / (g.maxAltitude - g.minAltitude)
	t = min(max(t, 0), 1)

	blended := g.low.BlendRgb(g.high, t).Clamped()
	r, gr, b := blended.RGB255()
	return color.RGBA{R: r, G: gr, B: b, A: g.alpha}
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
