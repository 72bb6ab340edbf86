package widget

import (
	"math"

	"github.com/ridge/overlay"
	"github.com/ridge/overlay/wire"
	"golang.org/x/exp/slices"
)

// Level colors a gauge while its value is below Below
type Level struct {
	Below float64
	Color wire.Color
}

// GaugeConfig describes a gauge: an arc of a ring that grows clockwise from
// Start with the value, and the value printed next to it
type GaugeConfig struct {
	X, Y   uint16 // ring center
	R      uint16
	Width  uint16
	Start  uint16 // degrees clockwise from the top
	Span   uint16 // degrees covered at Limit
	Limit  float64
	Color  wire.Color // above all levels
	Levels []Level

	ReadoutX, ReadoutY uint16
	FontSize           uint16
}

// Gauge shows a value as the length of an arc and as a number
type Gauge struct {
	config  GaugeConfig
	arc     overlay.Arc
	readout overlay.Integer
}

// NewGauge creates an invisible gauge showing zero
func NewGauge(e *overlay.Engine, config GaugeConfig) *Gauge {
	config.Levels = slices.Clone(config.Levels)
	slices.SortFunc(config.Levels, func(a, b Level) bool { return a.Below < b.Below })

	g := &Gauge{
		config:  config,
		arc:     e.NewArc(config.Color, config.Width, config.X, config.Y, config.Start, config.Start+1, config.R, config.R),
		readout: e.NewInteger(wire.ColorWhite, config.FontSize, 2, config.ReadoutX, config.ReadoutY, 0),
	}
	g.Set(0)
	return g
}

// Set updates the gauge. The arc is clamped to [0, Limit]; the readout shows
// the value as is.
func (g *Gauge) Set(value float64) {
	g.readout.SetValue(int32(math.Round(value)))

	clamped := math.Max(0, math.Min(value, g.config.Limit))
	sweep := 0.0
	if g.config.Limit > 0 {
		sweep = float64(g.config.Span) * clamped / g.config.Limit
	}
	g.arc.SetAngleEnd(uint16(int(g.config.Start)+int(sweep)+1) % 360)
	g.arc.SetColor(g.color(clamped))
}

func (g *Gauge) color(value float64) wire.Color {
	for _, l := range g.config.Levels {
		if value < l.Below {
			return l.Color
		}
	}
	return g.config.Color
}

// SetVisible shows or hides the gauge
func (g *Gauge) SetVisible(visible bool) {
	g.arc.SetVisible(visible)
	g.readout.SetVisible(visible)
}

// SetPriority sets the priority of both parts
func (g *Gauge) SetPriority(priority uint8) {
	g.arc.SetPriority(priority)
	g.readout.SetPriority(priority)
}
