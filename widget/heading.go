package widget

import (
	"math"

	"github.com/ridge/overlay"
	"github.com/ridge/overlay/wire"
)

// Heading is a short arc around a center pointing in a direction, such as
// the chassis orientation relative to the turret
type Heading struct {
	arc  overlay.Arc
	span uint16
}

// NewHeading creates an invisible heading indicator spanning span degrees
func NewHeading(e *overlay.Engine, color wire.Color, width, x, y, r, span uint16) *Heading {
	return &Heading{
		arc:  e.NewArc(color, width, x, y, 0, span, r, r),
		span: span,
	}
}

// Set points the indicator at angle radians, counterclockwise from the top
func (h *Heading) Set(angle float64) {
	h.arc.SetAngle(clientAngle(angle), h.span)
}

// SetColor sets the color
func (h *Heading) SetColor(color wire.Color) {
	h.arc.SetColor(color)
}

// SetPriority sets the priority of the indicator
func (h *Heading) SetPriority(priority uint8) {
	h.arc.SetPriority(priority)
}

// SetVisible shows or hides the indicator
func (h *Heading) SetVisible(visible bool) {
	h.arc.SetVisible(visible)
}

// clientAngle converts counterclockwise radians into the clockwise degrees
// the client expects
func clientAngle(angle float64) uint16 {
	degrees := int(math.Round((2*math.Pi - angle) / math.Pi * 180))
	degrees %= 360
	if degrees < 0 {
		degrees += 360
	}
	return uint16(degrees)
}
