package overlay

import (
	"math/rand"
	"testing"

	"github.com/ridge/overlay/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleEmpty(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	e.NewCircle(wire.ColorWhite, 1, 0, 0, 1)

	frame := e.Assemble()
	require.True(t, frame.Empty())
	require.Zero(t, e.Stats().Frames)
	require.Equal(t, uint64(1), e.Stats().Ticks)
}

func TestAssembleFullFrame(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	var shapes []Line
	for i := 0; i < 9; i++ {
		shapes = append(shapes, newVisibleLine(e, 0))
	}

	frame := e.Assemble()
	require.Equal(t, wire.CommandDraw7, frame.Command)
	require.Len(t, frame.Records, wire.MaxRecords)
	require.Zero(t, e.Stats().Padding)
	require.Equal(t, wire.ID(3), frame.Sender)
	require.Equal(t, wire.ID(0x0103), frame.Receiver)
	for i, r := range frame.Records {
		require.Equal(t, wire.OpAdd, r.Operation)
		require.Equal(t, Identity(i+1), shapes[i].Identity())
	}

	for _, s := range shapes[7:] {
		require.True(t, s.Queued())
		require.Zero(t, s.Identity())
	}

	// The two left behind go first next time
	frame = e.Assemble()
	require.Equal(t, byte(8), frame.Records[0].Name[0])
	require.Equal(t, byte(9), frame.Records[1].Name[0])
}

func TestAssemblePadding(t *testing.T) {
	t.Parallel()
	for shapes, command := range map[int]uint16{
		1: wire.CommandDraw1,
		2: wire.CommandDraw2,
		3: wire.CommandDraw5,
		5: wire.CommandDraw5,
		6: wire.CommandDraw7,
	} {
		e := newTestEngine(t)
		for i := 0; i < shapes; i++ {
			newVisibleLine(e, 0)
		}
		frame := e.Assemble()
		require.Equal(t, command, frame.Command)
		size, _ := wire.CommandForSlots(shapes)
		require.Len(t, frame.Records, size)
		for _, r := range frame.Records[shapes:] {
			require.Equal(t, wire.NoOperation(), r)
		}
		require.Equal(t, uint64(size-shapes), e.Stats().Padding)
	}
}

func TestAssembleText(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	l := newVisibleLine(e, 255)
	text := e.NewText(wire.ColorYellow, 20, 2, 100, 200, "hello")
	text.SetVisible(true)

	// The line is ahead, so the text waits
	frame := e.Assemble()
	require.Equal(t, wire.CommandDraw1, frame.Command)
	require.Nil(t, frame.Text)
	require.Equal(t, byte(l.Identity()), frame.Records[0].Name[0])
	require.True(t, text.Queued())

	frame = e.Assemble()
	require.Equal(t, wire.CommandDraw1, frame.Command)
	require.True(t, text.Queued())

	// Text at the head travels alone
	frame = e.Assemble()
	require.Equal(t, wire.CommandText, frame.Command)
	require.Empty(t, frame.Records)
	require.NotNil(t, frame.Text)
	require.Equal(t, wire.OpAdd, frame.Text.Operation)
	require.Equal(t, wire.KindText, frame.Text.Kind)
	require.Equal(t, uint16(5), frame.Text.DetailB)
	require.Equal(t, uint16(20), frame.Text.DetailA)
	require.Equal(t, "hello", string(frame.Text.Payload[:5]))
	require.Equal(t, Identity(2), text.Identity())
	require.Equal(t, uint64(1), e.Stats().TextFrames)

	_, err := frame.MarshalBinary()
	require.NoError(t, err)
}

func TestAssembleExhausted(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	var shapes []Line
	for i := 0; i < int(MaxIdentity); i++ {
		shapes = append(shapes, newVisibleLine(e, 0))
	}
	drain(t, e, 1000)

	extra := newVisibleLine(e, 0)
	frame := e.Assemble()
	require.Equal(t, wire.CommandDraw1, frame.Command)
	require.Equal(t, []wire.Description{wire.NoOperation()}, frame.Records)
	require.Zero(t, extra.Identity())
	require.True(t, extra.Queued())

	// Hiding a shape frees its identity for the waiting one
	victim := shapes[0]
	victim.SetVisible(false)
	frame = e.Assemble()
	require.Equal(t, wire.CommandDraw1, frame.Command)
	require.Equal(t, Identity(1), extra.Identity())
	require.Equal(t, uint8(MaxRepeat), extra.ExistenceConfidence())
	require.Equal(t, wire.OpModify, frame.Records[0].Operation)
	require.Equal(t, byte(1), frame.Records[0].Name[0])
	require.Zero(t, victim.Identity())
	require.False(t, victim.Queued())
	require.Equal(t, uint64(1), e.Stats().Swaps)

	// The victim does not get its identity back for free
	victim.SetVisible(true)
	e.Assemble()
	require.Zero(t, victim.Identity())
	require.True(t, victim.Queued())
}

func TestAssembleInvariants(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	rnd := rand.New(rand.NewSource(1))

	var shapes []*Shape
	for i := 0; i < 230; i++ {
		var s *Shape
		switch i % 4 {
		case 0:
			s = e.NewLine(wire.ColorWhite, 1, 0, 0, 10, 10).Shape
		case 1:
			s = e.NewCircle(wire.ColorGreen, 1, 0, 0, 10).Shape
		case 2:
			s = e.NewInteger(wire.ColorCyan, 10, 1, 0, 0, 0).Shape
		case 3:
			s = e.NewText(wire.ColorYellow, 10, 1, 0, 0, "x").Shape
		}
		s.SetPriority(uint8(rnd.Intn(256)))
		shapes = append(shapes, s)
	}

	for tick := 0; tick < 500; tick++ {
		for i := 0; i < 20; i++ {
			s := shapes[rnd.Intn(len(shapes))]
			if rnd.Intn(2) == 0 {
				s.SetVisible(!s.Visible())
			} else {
				s.SetX(uint16(rnd.Intn(1920)))
			}
		}

		frame := e.Assemble()
		if frame.Empty() {
			continue
		}
		_, err := frame.MarshalBinary()
		require.NoError(t, err)

		if frame.Command == wire.CommandText {
			require.Empty(t, frame.Records)
			require.NotEqual(t, wire.OpNone, frame.Text.Operation)
		} else {
			require.Nil(t, frame.Text)
			seen := map[byte]bool{}
			for _, r := range frame.Records {
				if r.Operation == wire.OpNone {
					continue
				}
				require.NotEqual(t, wire.KindText, r.Kind)
				require.False(t, seen[r.Name[0]], "identity %d twice in one frame", r.Name[0])
				seen[r.Name[0]] = true
			}
		}

		owners := map[Identity]Handle{}
		for _, s := range shapes {
			assert.LessOrEqual(t, s.existence, uint8(MaxRepeat))
			assert.LessOrEqual(t, s.sync, uint8(MaxRepeat))
			if s.identity == 0 {
				require.Zero(t, s.existence)
				continue
			}
			require.LessOrEqual(t, s.identity, MaxIdentity)
			other, ok := owners[s.identity]
			require.False(t, ok, "identity %d owned by %d and %d", s.identity, other, s.handle)
			owners[s.identity] = s.handle
		}
	}
}
