package render

import (
	"image"
	"image/color"
)

// drawThickLine rasterizes a line between two points by stamping a square
// brush along the longest axis. Good enough for trail segments at the
// widths the panel uses.
func drawThickLine(img *image.RGBA, from, to image.Point, c color.RGBA, width int) {
	dx := to.X - from.X
	dy := to.Y - from.Y

	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		stamp(img, from.X, from.Y, c, width)
		return
	}

	for i := 0; i <= steps; i++ {
		x := from.X + dx*i/steps
		y := from.Y + dy*i/steps
		stamp(img, x, y, c, width)
	}
}

func drawVerticalLine(img *image.RGBA, x int, c color.RGBA, width int) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		stamp(img, x, y, c, width)
	}
}

func drawHorizontalLine(img *image.RGBA, y int, c color.RGBA, width int) {
	bounds := img.Bounds()
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		stamp(img, x, y, c, width)
	}
}

// stamp blends a width x width square centered on (x, y), honoring the
// color's alpha against whatever is already in the image.
func stamp(img *image.RGBA, x, y int, c color.RGBA, width int) {
	half := width / 2
	for oy := -half; oy <= half; oy++ {
		for ox := -half; ox <= half; ox++ {
			blendPixel(img, x+ox, y+oy, c)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return
	}
	if c.A == 255 {
		img.SetRGBA(x, y, c)
		return
	}

	bg := img.RGBAAt(x, y)
	a := uint32(c.A)
	inv := 255 - a
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(bg.R)*inv) / 255),
		G: uint8((uint32(c.G)*a + uint32(bg.G)*inv) / 255),
		B: uint8((uint32(c.B)*a + uint32(bg.B)*inv) / 255),
		A: 255,
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
