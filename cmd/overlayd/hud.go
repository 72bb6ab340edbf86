package main

import (
	"math"
	"time"

	"github.com/ridge/overlay"
	"github.com/ridge/overlay/widget"
	"github.com/ridge/overlay/wire"
)

const (
	screenWidth  = 1920
	screenHeight = 1080
	xCenter      = screenWidth / 2
	yCenter      = screenHeight / 2
)

// hud is a demo operator screen animated with synthetic telemetry
type hud struct {
	crosshair *widget.Crosshair
	ammo      *widget.Gauge
	battery   *widget.Gauge
	heading   *widget.Heading
	voltage   overlay.Float
	mode      overlay.Text
	guides    [4]overlay.Line

	ammoLeft int
}

func newHUD(e *overlay.Engine) *hud {
	h := &hud{
		crosshair: widget.NewCrosshair(e, wire.ColorWhite, xCenter-12, yCenter-37),
		ammo: widget.NewGauge(e, widget.GaugeConfig{
			X: xCenter, Y: yCenter, R: 385, Width: 15,
			Start: 95, Span: 40, Limit: 400,
			Color:    wire.ColorGreen,
			Levels:   []widget.Level{{Below: 25, Color: wire.ColorPink}, {Below: 50, Color: wire.ColorYellow}},
			ReadoutX: xCenter + 100, ReadoutY: yCenter - 10, FontSize: 15,
		}),
		battery: widget.NewGauge(e, widget.GaugeConfig{
			X: xCenter, Y: yCenter, R: 385, Width: 15,
			Start: 225, Span: 40, Limit: 30,
			Color:    wire.ColorPink,
			ReadoutX: xCenter - 330, ReadoutY: yCenter - 10, FontSize: 15,
		}),
		heading: widget.NewHeading(e, wire.ColorPink, 8, xCenter, yCenter, 84, 30),
		voltage: e.NewFloat(wire.ColorWhite, 20, 2, xCenter+10, 820, 0),
		mode:    e.NewText(wire.ColorCyan, 20, 2, xCenter-60, 900, "FOLLOW"),
		guides: [4]overlay.Line{
			e.NewLine(wire.ColorWhite, 2, xCenter-360, yCenter, xCenter-110, yCenter),
			e.NewLine(wire.ColorWhite, 2, xCenter+110, yCenter, xCenter+360, yCenter),
			e.NewLine(wire.ColorWhite, 2, xCenter, 800, xCenter, yCenter+110),
			e.NewLine(wire.ColorWhite, 2, xCenter, yCenter-110, xCenter, 200),
		},
		ammoLeft: 400,
	}

	// The aiming aids matter most; static guides can wait
	h.crosshair.SetPriority(200)
	h.ammo.SetPriority(100)
	h.heading.SetPriority(100)

	h.crosshair.SetVisible(true)
	h.ammo.SetVisible(true)
	h.battery.SetVisible(true)
	h.heading.SetVisible(true)
	h.voltage.SetVisible(true)
	h.mode.SetVisible(true)
	for _, l := range h.guides {
		l.SetVisible(true)
	}
	return h
}

// update moves the HUD to the state at elapsed time since start
func (h *hud) update(elapsed time.Duration) {
	s := elapsed.Seconds()

	// One shot every three seconds
	h.ammoLeft = 400 - int(s/3)
	if h.ammoLeft < 0 {
		h.ammoLeft = 0
	}
	h.ammo.Set(float64(h.ammoLeft))

	voltage := 24 + 2*math.Sin(s/3)
	h.battery.Set(voltage)
	h.voltage.SetValue(voltage)

	h.heading.Set(math.Mod(s/2, 2*math.Pi))

	spinning := int(s/10)%2 == 1
	if spinning {
		h.heading.SetColor(wire.ColorGreen)
		h.mode.SetText("SPIN")
	} else {
		h.heading.SetColor(wire.ColorPink)
		h.mode.SetText("FOLLOW")
	}
}
