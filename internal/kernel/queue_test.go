package kernel

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushNotVisibleUntilNextTick(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)

	assert.Empty(t, slices.Collect(q.All()), "pushes must not be visible in the same tick")
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 2, q.Pending())

	q.NextTick()

	assert.Equal(t, []int{1, 2}, slices.Collect(q.All()))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_NextTickClearsNextBuffer(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.NextTick()

	q.Push(3)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 1, q.Pending())

	q.NextTick()
	assert.Equal(t, []int{3}, slices.Collect(q.All()))
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_EmptyNextTick(t *testing.T) {
	q := NewQueue[int]()
	q.NextTick()

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Pending())
	assert.Empty(t, slices.Collect(q.All()))
}

func TestQueue_ZeroValueUsable(t *testing.T) {
	var q Queue[string]
	q.Push("a")
	q.NextTick()
	assert.Equal(t, []string{"a"}, q.Collect())
}

func TestQueue_DoubleNextTickWithoutPushes(t *testing.T) {
	q := NewQueue[int]()
	q.Push(7)
	q.NextTick()
	require.Equal(t, []int{7}, q.Collect())

	q.NextTick()
	assert.Empty(t, q.Collect(), "second advance must expose the cleared next buffer")
}

func TestQueue_IterationIsRestartable(t *testing.T) {
	q := NewQueue[int]()
	for i := 1; i <= 4; i++ {
		q.Push(i)
	}
	q.NextTick()

	first := slices.Collect(q.All())
	second := slices.Collect(q.All())
	assert.Equal(t, first, second)
	assert.Equal(t, []int{1, 2, 3, 4}, first)
}

func TestQueue_IterationStopsEarly(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)
	q.NextTick()

	var seen []int
	for v := range q.All() {
		seen = append(seen, v)
		if v == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, seen)
}

func TestQueue_AllMutableEditsInPlace(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.NextTick()

	for v := range q.AllMutable() {
		*v *= 10
	}
	assert.Equal(t, []int{10, 20}, slices.Collect(q.All()))
}

func TestQueue_PushDuringIteration(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.NextTick()

	var seen []int
	for v := range q.All() {
		seen = append(seen, v)
		q.Push(v * 100)
	}

	assert.Equal(t, []int{1, 2}, seen, "pushes must not extend the current traversal")
	assert.Equal(t, []int{100, 200}, slices.Collect(q.Upcoming()))

	q.NextTick()
	assert.Equal(t, []int{100, 200}, q.Collect())
}

func TestQueue_CollectReturnsCopy(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.NextTick()

	got := q.Collect()
	got[0] = 99
	assert.Equal(t, []int{1}, q.Collect())
}

func TestQueue_NextTickReleasesPointers(t *testing.T) {
	q := NewQueue[*int]()
	v := 5
	q.Push(&v)
	q.NextTick()

	backing := q.current[:1]
	q.NextTick()
	assert.Nil(t, backing[0], "retired slot should be zeroed")
}

func TestQueue_ManyTicksPreserveOrder(t *testing.T) {
	q := NewQueue[int]()
	for tick := 0; tick < 5; tick++ {
		for i := 0; i < 3; i++ {
			q.Push(tick*10 + i)
		}
		q.NextTick()
		assert.Equal(t, []int{tick * 10, tick*10 + 1, tick*10 + 2}, q.Collect(), "tick %d", tick)
	}
}
