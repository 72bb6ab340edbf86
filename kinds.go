package overlay

import (
	"math"
	"unicode/utf8"

	"github.com/ridge/overlay/wire"
)

// geometry is the kind-specific part of a shape. The set of implementations
// is closed; encode dispatches over it with a type switch.
type geometry interface {
	kind() wire.Kind
}

type lineGeometry struct{ x2, y2 uint16 }

type rectangleGeometry struct{ x2, y2 uint16 }

type circleGeometry struct{ r uint16 }

type ellipseGeometry struct{ rx, ry uint16 }

type arcGeometry struct {
	start, end uint16 // degrees, clockwise from the top
	rx, ry     uint16
}

type floatGeometry struct {
	fontSize uint16
	value    int32 // thousandths
}

type integerGeometry struct {
	fontSize uint16
	value    int32
}

type textGeometry struct {
	fontSize uint16
	text     string
}

func (*lineGeometry) kind() wire.Kind      { return wire.KindLine }
func (*rectangleGeometry) kind() wire.Kind { return wire.KindRectangle }
func (*circleGeometry) kind() wire.Kind    { return wire.KindCircle }
func (*ellipseGeometry) kind() wire.Kind   { return wire.KindEllipse }
func (*arcGeometry) kind() wire.Kind       { return wire.KindArc }
func (*floatGeometry) kind() wire.Kind     { return wire.KindFloat }
func (*integerGeometry) kind() wire.Kind   { return wire.KindInteger }
func (*textGeometry) kind() wire.Kind      { return wire.KindText }

// Line is a segment from (X, Y) to (X2, Y2)
type Line struct{ *Shape }

// NewLine creates an invisible line
func (e *Engine) NewLine(color wire.Color, width, x, y, x2, y2 uint16) Line {
	return Line{e.newShape(&lineGeometry{x2: x2, y2: y2}, color, width, x, y)}
}

func (l Line) line() *lineGeometry { return l.geometry.(*lineGeometry) }

// X2 returns the horizontal position of the end point
func (l Line) X2() uint16 { return l.line().x2 }

// Y2 returns the vertical position of the end point
func (l Line) Y2() uint16 { return l.line().y2 }

// SetX2 sets the horizontal position of the end point
func (l Line) SetX2(x2 uint16) { set(l.Shape, &l.line().x2, x2) }

// SetY2 sets the vertical position of the end point
func (l Line) SetY2(y2 uint16) { set(l.Shape, &l.line().y2, y2) }

// Rectangle is an outline with opposite corners (X, Y) and (X2, Y2)
type Rectangle struct{ *Shape }

// NewRectangle creates an invisible rectangle
func (e *Engine) NewRectangle(color wire.Color, width, x, y, x2, y2 uint16) Rectangle {
	return Rectangle{e.newShape(&rectangleGeometry{x2: x2, y2: y2}, color, width, x, y)}
}

func (r Rectangle) rectangle() *rectangleGeometry { return r.geometry.(*rectangleGeometry) }

// X2 returns the horizontal position of the opposite corner
func (r Rectangle) X2() uint16 { return r.rectangle().x2 }

// Y2 returns the vertical position of the opposite corner
func (r Rectangle) Y2() uint16 { return r.rectangle().y2 }

// SetX2 sets the horizontal position of the opposite corner
func (r Rectangle) SetX2(x2 uint16) { set(r.Shape, &r.rectangle().x2, x2) }

// SetY2 sets the vertical position of the opposite corner
func (r Rectangle) SetY2(y2 uint16) { set(r.Shape, &r.rectangle().y2, y2) }

// Circle is centered at (X, Y)
type Circle struct{ *Shape }

// NewCircle creates an invisible circle
func (e *Engine) NewCircle(color wire.Color, width, x, y, r uint16) Circle {
	return Circle{e.newShape(&circleGeometry{r: r}, color, width, x, y)}
}

func (c Circle) circle() *circleGeometry { return c.geometry.(*circleGeometry) }

// R returns the radius
func (c Circle) R() uint16 { return c.circle().r }

// SetR sets the radius
func (c Circle) SetR(r uint16) { set(c.Shape, &c.circle().r, r) }

// Ellipse is centered at (X, Y)
type Ellipse struct{ *Shape }

// NewEllipse creates an invisible ellipse
func (e *Engine) NewEllipse(color wire.Color, width, x, y, rx, ry uint16) Ellipse {
	return Ellipse{e.newShape(&ellipseGeometry{rx: rx, ry: ry}, color, width, x, y)}
}

func (el Ellipse) ellipse() *ellipseGeometry { return el.geometry.(*ellipseGeometry) }

// RX returns the horizontal semi-axis
func (el Ellipse) RX() uint16 { return el.ellipse().rx }

// RY returns the vertical semi-axis
func (el Ellipse) RY() uint16 { return el.ellipse().ry }

// SetRX sets the horizontal semi-axis
func (el Ellipse) SetRX(rx uint16) { set(el.Shape, &el.ellipse().rx, rx) }

// SetRY sets the vertical semi-axis
func (el Ellipse) SetRY(ry uint16) { set(el.Shape, &el.ellipse().ry, ry) }

// SetR makes the ellipse a circle of radius r
func (el Ellipse) SetR(r uint16) {
	el.SetRX(r)
	el.SetRY(r)
}

// Arc is a part of an ellipse centered at (X, Y), from AngleStart to AngleEnd
// degrees clockwise from the top
type Arc struct{ *Shape }

// NewArc creates an invisible arc
func (e *Engine) NewArc(color wire.Color, width, x, y, start, end, rx, ry uint16) Arc {
	return Arc{e.newShape(&arcGeometry{start: start, end: end, rx: rx, ry: ry}, color, width, x, y)}
}

func (a Arc) arc() *arcGeometry { return a.geometry.(*arcGeometry) }

// AngleStart returns the start angle
func (a Arc) AngleStart() uint16 { return a.arc().start }

// AngleEnd returns the end angle
func (a Arc) AngleEnd() uint16 { return a.arc().end }

// SetAngleStart sets the start angle
func (a Arc) SetAngleStart(start uint16) { set(a.Shape, &a.arc().start, start) }

// SetAngleEnd sets the end angle
func (a Arc) SetAngleEnd(end uint16) { set(a.Shape, &a.arc().end, end) }

// SetAngle places an arc spanning span degrees around center
func (a Arc) SetAngle(center, span uint16) {
	a.SetAngleStart(normalizeAngle(int(center) - int(span)/2))
	a.SetAngleEnd(normalizeAngle(int(center) + int(span)/2))
}

// RX returns the horizontal semi-axis
func (a Arc) RX() uint16 { return a.arc().rx }

// RY returns the vertical semi-axis
func (a Arc) RY() uint16 { return a.arc().ry }

// SetRX sets the horizontal semi-axis
func (a Arc) SetRX(rx uint16) { set(a.Shape, &a.arc().rx, rx) }

// SetRY sets the vertical semi-axis
func (a Arc) SetRY(ry uint16) { set(a.Shape, &a.arc().ry, ry) }

// SetR makes the arc circular with radius r
func (a Arc) SetR(r uint16) {
	a.SetRX(r)
	a.SetRY(r)
}

func normalizeAngle(angle int) uint16 {
	angle %= 360
	if angle < 0 {
		angle += 360
	}
	return uint16(angle)
}

// Float is a number displayed with three decimals, anchored at (X, Y)
type Float struct{ *Shape }

// NewFloat creates an invisible float label
func (e *Engine) NewFloat(color wire.Color, fontSize, width, x, y uint16, value float64) Float {
	return Float{e.newShape(&floatGeometry{fontSize: fontSize, value: fixedPoint(value)}, color, width, x, y)}
}

func (f Float) float() *floatGeometry { return f.geometry.(*floatGeometry) }

// Value returns the displayed value
func (f Float) Value() float64 { return float64(f.float().value) / 1000 }

// SetValue sets the displayed value, rounded to thousandths
func (f Float) SetValue(value float64) { set(f.Shape, &f.float().value, fixedPoint(value)) }

// FontSize returns the font size
func (f Float) FontSize() uint16 { return f.float().fontSize }

// SetFontSize sets the font size
func (f Float) SetFontSize(size uint16) { set(f.Shape, &f.float().fontSize, size) }

func fixedPoint(value float64) int32 {
	return int32(math.Round(value * 1000))
}

// Integer is a whole number anchored at (X, Y)
type Integer struct{ *Shape }

// NewInteger creates an invisible integer label
func (e *Engine) NewInteger(color wire.Color, fontSize, width, x, y uint16, value int32) Integer {
	return Integer{e.newShape(&integerGeometry{fontSize: fontSize, value: value}, color, width, x, y)}
}

func (i Integer) integer() *integerGeometry { return i.geometry.(*integerGeometry) }

// Value returns the displayed value
func (i Integer) Value() int32 { return i.integer().value }

// SetValue sets the displayed value
func (i Integer) SetValue(value int32) { set(i.Shape, &i.integer().value, value) }

// FontSize returns the font size
func (i Integer) FontSize() uint16 { return i.integer().fontSize }

// SetFontSize sets the font size
func (i Integer) SetFontSize(size uint16) { set(i.Shape, &i.integer().fontSize, size) }

// Text is a string anchored at (X, Y). Text shapes are sent one per frame.
type Text struct{ *Shape }

// NewText creates an invisible text label. The text is cut to
// wire.TextPayloadSize bytes.
func (e *Engine) NewText(color wire.Color, fontSize, width, x, y uint16, text string) Text {
	return Text{e.newShape(&textGeometry{fontSize: fontSize, text: truncate(text)}, color, width, x, y)}
}

func (t Text) text() *textGeometry { return t.geometry.(*textGeometry) }

// Text returns the displayed string
func (t Text) Text() string { return t.text().text }

// SetText sets the displayed string, cut to wire.TextPayloadSize bytes
func (t Text) SetText(text string) { set(t.Shape, &t.text().text, truncate(text)) }

// FontSize returns the font size
func (t Text) FontSize() uint16 { return t.text().fontSize }

// SetFontSize sets the font size
func (t Text) SetFontSize(size uint16) { set(t.Shape, &t.text().fontSize, size) }

// truncate cuts text to at most wire.TextPayloadSize bytes without splitting
// a rune
func truncate(text string) string {
	if len(text) <= wire.TextPayloadSize {
		return text
	}
	n := wire.TextPayloadSize
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
