// Package wire contains the bit-exact encoding of the shape records and
// command frames understood by the remote display client.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Operation is the action the client applies to a described shape
type Operation uint8

// Operation values
const (
	OpNone   Operation = 0
	OpAdd    Operation = 1
	OpModify Operation = 2
	OpDelete Operation = 3
)

func (op Operation) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Kind is the shape type as seen by the client
type Kind uint8

// Kind values
const (
	KindLine      Kind = 0
	KindRectangle Kind = 1
	KindCircle    Kind = 2
	KindEllipse   Kind = 3
	KindArc       Kind = 4
	KindFloat     Kind = 5
	KindInteger   Kind = 6
	KindText      Kind = 7
)

var kindNames = [...]string{"line", "rectangle", "circle", "ellipse", "arc", "float", "integer", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Color is a palette index. ColorSelf is the team color of the sender.
type Color uint8

// Color values
const (
	ColorSelf   Color = 0
	ColorYellow Color = 1
	ColorGreen  Color = 2
	ColorOrange Color = 3
	ColorPurple Color = 4
	ColorPink   Color = 5
	ColorCyan   Color = 6
	ColorBlack  Color = 7
	ColorWhite  Color = 8
)

// DescriptionSize is the size of an encoded Description
const DescriptionSize = 15

// Description is the unpacked form of a single shape record.
//
// Every field is truncated to its wire width on encoding; out-of-range values
// are not rejected.
type Description struct {
	Name      [3]byte
	Operation Operation // 3 bits
	Kind      Kind      // 3 bits
	Layer     uint8     // 4 bits
	Color     Color     // 4 bits
	DetailA   uint16    // 9 bits
	DetailB   uint16    // 9 bits

	Width uint16 // 10 bits
	X     uint16 // 11 bits
	Y     uint16 // 11 bits

	DetailC uint16 // 10 bits
	DetailD uint16 // 11 bits
	DetailE uint16 // 11 bits
}

// NoOperation returns the padding record
func NoOperation() Description {
	return Description{}
}

// Value returns DetailC, DetailD and DetailE reinterpreted as one signed
// 32-bit number, as used by float and integer shapes
func (d Description) Value() int32 {
	return int32(pack3(d.DetailC, d.DetailD, d.DetailE))
}

// SetValue stores a signed 32-bit number across DetailC, DetailD and DetailE
func (d *Description) SetValue(v int32) {
	d.DetailC, d.DetailD, d.DetailE = unpack3(uint32(v))
}

// AppendBinary appends the 15-byte encoding of d to b
func (d Description) AppendBinary(b []byte) []byte {
	b = append(b, d.Name[:]...)

	word1 := uint32(d.Operation)&mask(3) |
		(uint32(d.Kind)&mask(3))<<3 |
		(uint32(d.Layer)&mask(4))<<6 |
		(uint32(d.Color)&mask(4))<<10 |
		(uint32(d.DetailA)&mask(9))<<14 |
		(uint32(d.DetailB)&mask(9))<<23
	b = binary.LittleEndian.AppendUint32(b, word1)
	b = binary.LittleEndian.AppendUint32(b, pack3(d.Width, d.X, d.Y))
	return binary.LittleEndian.AppendUint32(b, pack3(d.DetailC, d.DetailD, d.DetailE))
}

// ParseDescription decodes a Description from the first DescriptionSize
// bytes of b
func ParseDescription(b []byte) (Description, error) {
	if len(b) < DescriptionSize {
		return Description{}, fmt.Errorf("description too short: %d bytes", len(b))
	}

	var d Description
	copy(d.Name[:], b[:3])

	word1 := binary.LittleEndian.Uint32(b[3:])
	d.Operation = Operation(word1 & mask(3))
	d.Kind = Kind(word1 >> 3 & mask(3))
	d.Layer = uint8(word1 >> 6 & mask(4))
	d.Color = Color(word1 >> 10 & mask(4))
	d.DetailA = uint16(word1 >> 14 & mask(9))
	d.DetailB = uint16(word1 >> 23 & mask(9))

	d.Width, d.X, d.Y = unpack3(binary.LittleEndian.Uint32(b[7:]))
	d.DetailC, d.DetailD, d.DetailE = unpack3(binary.LittleEndian.Uint32(b[11:]))
	return d, nil
}

func mask(bits uint) uint32 {
	return 1<<bits - 1
}

// pack3 packs a 10/11/11-bit triple into one word
func pack3(a, b, c uint16) uint32 {
	return uint32(a)&mask(10) | (uint32(b)&mask(11))<<10 | (uint32(c)&mask(11))<<21
}

func unpack3(w uint32) (uint16, uint16, uint16) {
	return uint16(w & mask(10)), uint16(w >> 10 & mask(11)), uint16(w >> 21 & mask(11))
}
