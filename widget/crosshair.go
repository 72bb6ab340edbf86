// Package widget builds HUD elements out of overlay shapes
package widget

import (
	"github.com/ridge/overlay"
	"github.com/ridge/overlay/wire"
)

// Crosshair gap and arm length around the aiming point
const (
	crosshairGap = 8
	crosshairArm = 24
)

// Crosshair is four guide lines around a small circle marking the aiming
// point
type Crosshair struct {
	lines  [4]overlay.Line
	center overlay.Circle
}

// NewCrosshair creates an invisible crosshair centered at (x, y)
func NewCrosshair(e *overlay.Engine, color wire.Color, x, y uint16) *Crosshair {
	return &Crosshair{
		lines: [4]overlay.Line{
			e.NewLine(color, 2, x-crosshairArm, y, x-crosshairGap, y),
			e.NewLine(color, 2, x+crosshairGap, y, x+crosshairArm, y),
			e.NewLine(color, 2, x, y+crosshairArm, x, y+crosshairGap),
			e.NewLine(color, 2, x, y-crosshairGap, x, y-crosshairArm),
		},
		center: e.NewCircle(color, 2, x, y, 1),
	}
}

// SetVisible shows or hides the whole crosshair
func (c *Crosshair) SetVisible(visible bool) {
	for _, l := range c.lines {
		l.SetVisible(visible)
	}
	c.center.SetVisible(visible)
}

// SetPriority sets the priority of all parts
func (c *Crosshair) SetPriority(priority uint8) {
	for _, l := range c.lines {
		l.SetPriority(priority)
	}
	c.center.SetPriority(priority)
}

// SetColor recolors all parts
func (c *Crosshair) SetColor(color wire.Color) {
	for _, l := range c.lines {
		l.SetColor(color)
	}
	c.center.SetColor(color)
}
