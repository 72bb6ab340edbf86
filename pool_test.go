package overlay

import (
	"math/rand"
	"testing"

	"github.com/ridge/overlay/wire"
	"github.com/stretchr/testify/require"
)

func TestPoolSequential(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	for i := 1; i <= 10; i++ {
		s := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1)
		ok, identity, existence := e.pool.predictAssign(s.Shape)
		require.True(t, ok)
		require.Equal(t, Identity(i), identity)
		require.Zero(t, existence)

		require.True(t, e.pool.tryAssign(s.Shape))
		require.Equal(t, Identity(i), s.Identity())
		require.False(t, e.pool.tryAssign(s.Shape))
	}
}

func TestPoolExhausted(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	for i := 0; i < int(MaxIdentity); i++ {
		require.True(t, e.pool.tryAssign(e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape))
	}
	s := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1)
	ok, _, _ := e.pool.predictAssign(s.Shape)
	require.False(t, ok)
	require.False(t, e.pool.tryAssign(s.Shape))
	require.False(t, e.pool.tryAssign(s.Shape))
	require.Zero(t, s.Identity())
	require.Equal(t, uint64(2), e.Stats().Exhausted)
	require.Equal(t, int(MaxIdentity), e.Stats().Issued)
}

func TestPoolRecycle(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	var shapes []*Shape
	for i := 0; i < int(MaxIdentity); i++ {
		s := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape
		require.True(t, e.pool.tryAssign(s))
		s.setExistence(uint8(1 + i%MaxRepeat))
		shapes = append(shapes, s)
	}

	e.pool.enableRecycling(shapes[7])  // existence 4
	e.pool.enableRecycling(shapes[9])  // existence 2
	e.pool.enableRecycling(shapes[13]) // existence 2
	require.True(t, shapes[9].Recyclable())
	require.Equal(t, 3, e.pool.recyclable())

	s := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape
	ok, identity, existence := e.pool.predictAssign(s)
	require.True(t, ok)
	require.Equal(t, Identity(10), identity)
	require.Equal(t, uint8(2), existence)

	require.True(t, e.pool.tryAssign(s))
	require.Equal(t, Identity(10), s.Identity())
	require.Equal(t, uint8(2), s.ExistenceConfidence())
	require.Zero(t, shapes[9].Identity())
	require.Zero(t, shapes[9].ExistenceConfidence())
	require.False(t, shapes[9].Recyclable())
	require.Equal(t, 2, e.pool.recyclable())
	require.Equal(t, uint64(1), e.Stats().Swaps)

	// Ties go to the lowest handle
	next := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape
	require.True(t, e.pool.tryAssign(next))
	require.Equal(t, Identity(14), next.Identity())

	// Rerank follows the existence confidence
	shapes[7].setExistence(1)
	last := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape
	require.True(t, e.pool.tryAssign(last))
	require.Equal(t, Identity(8), last.Identity())
	require.Equal(t, uint8(1), last.ExistenceConfidence())
}

func TestPoolDisableRecycling(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	s := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape
	require.True(t, e.pool.tryAssign(s))
	e.pool.enableRecycling(s)
	e.pool.disableRecycling(s)
	e.pool.disableRecycling(s)
	require.False(t, s.Recyclable())

	require.Panics(t, func() {
		e.pool.enableRecycling(e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape)
	})
}

func TestPoolRecycleOrderRandom(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	rnd := rand.New(rand.NewSource(42))

	var shapes []*Shape
	for i := 0; i < 50; i++ {
		s := e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape
		require.True(t, e.pool.tryAssign(s))
		s.setExistence(uint8(1 + rnd.Intn(MaxRepeat)))
		shapes = append(shapes, s)
	}

	for step := 0; step < 1000; step++ {
		s := shapes[rnd.Intn(len(shapes))]
		switch rnd.Intn(3) {
		case 0:
			e.pool.enableRecycling(s)
		case 1:
			e.pool.disableRecycling(s)
		case 2:
			s.setExistence(uint8(1 + rnd.Intn(MaxRepeat)))
		}

		var want *Shape
		for _, s := range shapes {
			if s.Recyclable() && (want == nil || s.existence < want.existence) {
				want = s
			}
		}
		ok, identity, existence := e.pool.predictAssign(e.NewCircle(wire.ColorWhite, 1, 0, 0, 1).Shape)
		require.True(t, ok)
		if want == nil {
			require.Equal(t, Identity(51), identity)
			require.Zero(t, existence)
			continue
		}
		require.Equal(t, want.identity, identity)
		require.Equal(t, want.existence, existence)
	}
}
