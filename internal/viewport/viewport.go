// Package viewport tracks the camera over the moving map: whether it
// follows the vehicle or is free for the user to pan, and the discrete
// zoom level.
package viewport

import "github.com/drone-gcs/movingmap/internal/ned"

// ZoomStep is the multiplicative factor applied per discrete zoom input.
const ZoomStep = 1.2

// Zoom limits relative to the base scale. The bounds keep extreme wheel
// input from collapsing the view to a point or overflowing scene
// coordinates.
const (
	MinZoom = 0.05
	MaxZoom = 20.0
)

// Controller decides whether panning is user-driven or camera-driven and
// keeps the camera centered on the vehicle while following. It starts in
// follow mode, matching the panel's initial state.
type Controller struct {
	following bool
	zoom      float64
	center    ned.ScreenPoint
}

// NewController creates a camera controller in follow mode at 1x zoom,
// centered on the scene origin.
func NewController() *Controller {
	return &Controller{following: true, zoom: 1}
}

// Following reports whether the camera is tracking the vehicle.
func (c *Controller) Following() bool {
	return c.following
}

// SetFollow switches between follow and free mode. Entering follow mode
// does not recenter by itself; the next position update does.
func (c *Controller) SetFollow(follow bool) {
	c.following = follow
}

// Toggle flips between follow and free mode and returns the new state.
func (c *Controller) Toggle() bool {
	c.following = !c.following
	return c.following
}

// PanningEnabled reports whether user pan gestures are honored. Panning is
// disabled while the camera is driven by position updates.
func (c *Controller) PanningEnabled() bool {
	return !c.following
}

// Pan moves the camera center by a scene-space delta. Ignored in follow
// mode, where the camera is driven programmatically.
func (c *Controller) Pan(dx, dy float64) {
	if c.following {
		return
	}
	c.center.X += dx
	c.center.Y += dy
}

// ObservePosition is called after each position update, once the scene has
// committed the marker's new position. In follow mode it recenters the
// camera on the marker and reports true; in free mode the camera stays put.
func (c *Controller) ObservePosition(marker ned.ScreenPoint) (recentered bool) {
	if !c.following {
		return false
	}
	c.center = marker
	return true
}

// Center returns the camera center in scene coordinates.
func (c *Controller) Center() ned.ScreenPoint {
	return c.center
}

// Zoom returns the current zoom multiplier over the base scale.
func (c *Controller) Zoom() float64 {
	return c.zoom
}

// ZoomIn zooms the camera in by one step. Zoom is permitted in both modes.
func (c *Controller) ZoomIn() {
	c.applyZoom(ZoomStep)
}

// ZoomOut zooms the camera out by one step.
func (c *Controller) ZoomOut() {
	c.applyZoom(1 / ZoomStep)
}

func (c *Controller) applyZoom(factor float64) {
	z := c.zoom * factor
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	c.zoom = z
}

// Reset returns the camera to follow mode at 1x zoom on the scene origin.
func (c *Controller) Reset() {
	c.following = true
	c.zoom = 1
	c.center = ned.ScreenPoint{}
}
