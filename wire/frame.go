package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ID identifies a participant of the referee network
type ID uint16

// Command codes of the interaction frames carrying shapes
const (
	CommandDraw1 uint16 = 0x0101
	CommandDraw2 uint16 = 0x0102
	CommandDraw5 uint16 = 0x0103
	CommandDraw7 uint16 = 0x0104
	CommandText  uint16 = 0x0110
)

// MaxRecords is the largest number of records a single frame can carry
const MaxRecords = 7

var grammar = [...]struct {
	records int
	command uint16
}{
	{1, CommandDraw1},
	{2, CommandDraw2},
	{5, CommandDraw5},
	{7, CommandDraw7},
}

// CommandForSlots returns the smallest packet size able to carry n records
// and its command code. Panics if n exceeds MaxRecords.
func CommandForSlots(n int) (int, uint16) {
	for _, g := range grammar {
		if n <= g.records {
			return g.records, g.command
		}
	}
	panic(fmt.Errorf("%d records do not fit in a frame", n))
}

// RecordsForCommand returns the number of records carried by a draw command,
// or false if the command is not a draw command
func RecordsForCommand(command uint16) (int, bool) {
	for _, g := range grammar {
		if g.command == command {
			return g.records, true
		}
	}
	return 0, false
}

// TextPayloadSize is the fixed size of the character payload of a text record
const TextPayloadSize = 24

// Text is a text shape record: a description followed by its characters.
// Description.DetailB holds the number of meaningful payload bytes.
type Text struct {
	Description
	Payload [TextPayloadSize]byte
}

// AppendBinary appends the encoding of t to b
func (t Text) AppendBinary(b []byte) []byte {
	b = t.Description.AppendBinary(b)
	return append(b, t.Payload[:]...)
}

// ParseText decodes a Text record
func ParseText(b []byte) (Text, error) {
	if len(b) < DescriptionSize+TextPayloadSize {
		return Text{}, fmt.Errorf("text record too short: %d bytes", len(b))
	}
	d, err := ParseDescription(b)
	if err != nil {
		return Text{}, err
	}
	t := Text{Description: d}
	copy(t.Payload[:], b[DescriptionSize:])
	return t, nil
}

// String returns the meaningful part of the payload
func (t Text) String() string {
	n := int(t.DetailB)
	if n > TextPayloadSize {
		n = TextPayloadSize
	}
	return string(t.Payload[:n])
}

// Frame is one outbound interaction command.
//
// The zero Frame is empty and means there is nothing to send this tick.
type Frame struct {
	Sender   ID
	Receiver ID
	Command  uint16
	Records  []Description // for draw commands
	Text     *Text         // for CommandText
}

// Empty is true if the frame carries nothing
func (f Frame) Empty() bool {
	return f.Command == 0
}

const headerSize = 6

// MarshalBinary encodes the frame body: command, sender, receiver, then the
// records. The result is what the transport wraps into its envelope.
func (f Frame) MarshalBinary() ([]byte, error) {
	if f.Empty() {
		return nil, errors.New("empty frame")
	}
	b := make([]byte, 0, headerSize+len(f.Records)*DescriptionSize+TextPayloadSize)
	b = binary.LittleEndian.AppendUint16(b, f.Command)
	b = binary.LittleEndian.AppendUint16(b, uint16(f.Sender))
	b = binary.LittleEndian.AppendUint16(b, uint16(f.Receiver))

	if f.Command == CommandText {
		if f.Text == nil || len(f.Records) != 0 {
			return nil, errors.New("text frame must carry exactly one text record")
		}
		return f.Text.AppendBinary(b), nil
	}

	n, ok := RecordsForCommand(f.Command)
	if !ok {
		return nil, fmt.Errorf("unknown command 0x%04x", f.Command)
	}
	if len(f.Records) != n || f.Text != nil {
		return nil, fmt.Errorf("command 0x%04x expects %d records, got %d", f.Command, n, len(f.Records))
	}
	for _, d := range f.Records {
		b = d.AppendBinary(b)
	}
	return b, nil
}

// ParseFrame decodes a frame body produced by MarshalBinary
func ParseFrame(b []byte) (Frame, error) {
	if len(b) < headerSize {
		return Frame{}, fmt.Errorf("frame too short: %d bytes", len(b))
	}
	f := Frame{
		Command:  binary.LittleEndian.Uint16(b),
		Sender:   ID(binary.LittleEndian.Uint16(b[2:])),
		Receiver: ID(binary.LittleEndian.Uint16(b[4:])),
	}
	b = b[headerSize:]

	if f.Command == CommandText {
		t, err := ParseText(b)
		if err != nil {
			return Frame{}, err
		}
		f.Text = &t
		return f, nil
	}

	n, ok := RecordsForCommand(f.Command)
	if !ok {
		return Frame{}, fmt.Errorf("unknown command 0x%04x", f.Command)
	}
	if len(b) != n*DescriptionSize {
		return Frame{}, fmt.Errorf("command 0x%04x expects %d bytes of records, got %d", f.Command, n*DescriptionSize, len(b))
	}
	f.Records = make([]Description, 0, n)
	for i := 0; i < n; i++ {
		d, err := ParseDescription(b[i*DescriptionSize:])
		if err != nil {
			return Frame{}, err
		}
		f.Records = append(f.Records, d)
	}
	return f, nil
}
