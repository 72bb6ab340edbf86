package monitor

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/ridge/overlay"
	"github.com/ridge/overlay/wire"
	"github.com/stretchr/testify/require"
)

func testFrame() wire.Frame {
	d := wire.Description{
		Name:      [3]byte{7, 0xef, 0xfe},
		Operation: wire.OpModify,
		Kind:      wire.KindInteger,
		Color:     wire.ColorGreen,
		Width:     2,
		X:         100,
		Y:         200,
		DetailA:   20,
	}
	d.SetValue(-5)
	return wire.Frame{Sender: 3, Receiver: 0x0103, Command: wire.CommandDraw2, Records: []wire.Description{d, wire.NoOperation()}}
}

func TestRenderFrame(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(renderFrame(5, testFrame()))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"seq": 5,
		"command": "0x0102",
		"sender": 3,
		"receiver": 259,
		"records": [
			{"identity": 7, "op": "modify", "kind": "integer", "color": 2, "width": 2, "x": 100, "y": 200, "details": [20, 0, 1019, 2047, 2047], "value": -5},
			{"identity": 0, "op": "none", "color": 0, "width": 0, "x": 0, "y": 0, "details": [0, 0, 0, 0, 0]}
		]
	}`, string(b))
}

func TestRenderText(t *testing.T) {
	t.Parallel()
	text := wire.Text{Description: wire.Description{
		Name:      [3]byte{9, 0xef, 0xfe},
		Operation: wire.OpAdd,
		Kind:      wire.KindText,
		DetailA:   18,
		DetailB:   2,
	}}
	copy(text.Payload[:], "hi")

	v := renderFrame(1, wire.Frame{Command: wire.CommandText, Text: &text})
	require.Len(t, v.Records, 1)
	require.Equal(t, "hi", v.Records[0].Text)
	require.Equal(t, "text", v.Records[0].Kind)
}

func TestPublish(t *testing.T) {
	t.Parallel()
	m := New()

	id1, ch1 := m.subscribe()
	_, ch2 := m.subscribe()
	require.NotEqual(t, uuid.Nil, id1)
	require.Equal(t, 2, m.Stats().Subscribers)

	m.Publish(testFrame())
	for _, ch := range []<-chan []byte{ch1, ch2} {
		var v frameView
		require.NoError(t, json.Unmarshal(<-ch, &v))
		require.Equal(t, uint64(1), v.Seq)
		require.Equal(t, "0x0102", v.Command)
	}

	m.unsubscribe(id1)
	m.Publish(testFrame())
	require.Len(t, ch1, 0)
	require.Len(t, ch2, 1)
	require.Equal(t, 1, m.Stats().Subscribers)
}

func TestPublishSlowSubscriber(t *testing.T) {
	t.Parallel()
	m := New()
	_, ch := m.subscribe()

	for i := 0; i < backlog+10; i++ {
		m.Publish(testFrame())
	}
	require.Len(t, ch, backlog)
	require.Equal(t, uint64(10), m.Stats().Dropped)
}

func TestSetStats(t *testing.T) {
	t.Parallel()
	m := New()
	m.SetStats(overlay.Stats{Frames: 3, Shapes: 2}, 3, 81)

	stats := m.Stats()
	require.Equal(t, uint64(3), stats.Engine.Frames)
	require.Equal(t, 2, stats.Engine.Shapes)
	require.Equal(t, uint64(81), stats.LinkBytes)
	require.Zero(t, stats.Subscribers)
}
