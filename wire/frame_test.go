package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandForSlots(t *testing.T) {
	t.Parallel()

	for n, expected := range map[int]struct {
		records int
		command uint16
	}{
		0: {1, CommandDraw1},
		1: {1, CommandDraw1},
		2: {2, CommandDraw2},
		3: {5, CommandDraw5},
		5: {5, CommandDraw5},
		6: {7, CommandDraw7},
		7: {7, CommandDraw7},
	} {
		records, command := CommandForSlots(n)
		require.Equal(t, expected.records, records, "slots: %d", n)
		require.Equal(t, expected.command, command, "slots: %d", n)
	}
	require.Panics(t, func() { CommandForSlots(8) })
}

func TestFrameRoundTrip(t *testing.T) {
	t.Parallel()

	f := Frame{
		Sender:   3,
		Receiver: 0x0103,
		Command:  CommandDraw2,
		Records: []Description{
			{Name: [3]byte{1, 0xef, 0xfe}, Operation: OpAdd, Kind: KindLine, Width: 2, X: 100, Y: 200, DetailD: 300, DetailE: 400},
			NoOperation(),
		},
	}
	b, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 6+2*DescriptionSize)
	require.Equal(t, []byte{0x02, 0x01, 0x03, 0x00, 0x03, 0x01}, b[:6])

	parsed, err := ParseFrame(b)
	require.NoError(t, err)
	require.Equal(t, f, parsed)
}

func TestFrameText(t *testing.T) {
	t.Parallel()

	text := Text{Description: Description{Operation: OpAdd, Kind: KindText, DetailA: 20, DetailB: 5}}
	copy(text.Payload[:], "hello")
	f := Frame{Sender: 3, Receiver: 0x0103, Command: CommandText, Text: &text}

	b, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 6+DescriptionSize+TextPayloadSize)

	parsed, err := ParseFrame(b)
	require.NoError(t, err)
	require.Equal(t, f, parsed)
	require.Equal(t, "hello", parsed.Text.String())
}

func TestFrameInvalid(t *testing.T) {
	t.Parallel()

	_, err := Frame{}.MarshalBinary()
	require.Error(t, err)

	_, err = Frame{Command: CommandDraw5, Records: []Description{{}}}.MarshalBinary()
	require.Error(t, err)

	_, err = Frame{Command: CommandText}.MarshalBinary()
	require.Error(t, err)

	_, err = Frame{Command: 0x0200}.MarshalBinary()
	require.Error(t, err)

	_, err = ParseFrame([]byte{0x01, 0x01, 0, 0, 0, 0, 1})
	require.Error(t, err)
}
