package overlay

import (
	"fmt"

	"github.com/ridge/overlay/wire"
)

// Bytes 1 and 2 of the record name carry no meaning; they keep the names of
// our shapes apart from those of other senders
const (
	nameTag1 = 0xef
	nameTag2 = 0xfe
)

// describe encodes the shape for the given operation.
//
// A hidden shape is sent with zero width and font size: the client keeps the
// identity but draws nothing.
func (s *Shape) describe(op wire.Operation) wire.Description {
	if op == wire.OpNone {
		return wire.NoOperation()
	}

	d := wire.Description{
		Name:      [3]byte{byte(s.identity), nameTag1, nameTag2},
		Operation: op,
		Kind:      s.Kind(),
		Layer:     0,
		Color:     s.color,
		Width:     s.width,
		X:         s.x,
		Y:         s.y,
	}

	switch g := s.geometry.(type) {
	case *lineGeometry:
		d.DetailD, d.DetailE = g.x2, g.y2
	case *rectangleGeometry:
		d.DetailD, d.DetailE = g.x2, g.y2
	case *circleGeometry:
		d.DetailC = g.r
	case *ellipseGeometry:
		d.DetailD, d.DetailE = g.rx, g.ry
	case *arcGeometry:
		d.DetailA, d.DetailB = g.start, g.end
		d.DetailD, d.DetailE = g.rx, g.ry
	case *floatGeometry:
		d.DetailA = g.fontSize
		d.SetValue(g.value)
	case *integerGeometry:
		d.DetailA = g.fontSize
		d.SetValue(g.value)
	case *textGeometry:
		d.DetailA = g.fontSize
		d.DetailB = uint16(len(g.text))
	default:
		panic(fmt.Errorf("unexpected geometry %T", g))
	}

	if !s.visible {
		d.Width = 0
		switch d.Kind {
		case wire.KindFloat, wire.KindInteger, wire.KindText:
			d.DetailA = 0
		}
	}
	return d
}

// describeText encodes a text shape with its payload
func (s *Shape) describeText(op wire.Operation) wire.Text {
	t := wire.Text{Description: s.describe(op)}
	if op != wire.OpNone {
		copy(t.Payload[:], s.geometry.(*textGeometry).text)
	}
	return t
}
