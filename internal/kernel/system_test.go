package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemFunc_Update(t *testing.T) {
	sys := SystemFunc[int, string](func(n *int, q *Queue[string]) {
		*n += q.Len()
		q.Push("done")
	})

	q := NewQueue[string]()
	q.Push("a")
	q.Push("b")
	q.NextTick()

	n := 0
	sys.Update(&n, q)

	assert.Equal(t, 2, n)
	assert.Equal(t, 1, q.Pending())
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "summer", NameOf(summer{}))
	assert.Equal(t, "kernel.tagger", NameOf(tagger("x")))
}

func TestSystemContract_SumAndRepublish(t *testing.T) {
	state := sumState{}
	q := NewQueue[int]()
	q.Push(10)
	q.Push(20)
	q.NextTick()

	summer{}.Update(&state, q)

	assert.Equal(t, 30, state.sum)
	assert.True(t, state.done)
	assert.Equal(t, []int{10, 20}, q.Collect(), "current buffer is untouched by the update")

	q.NextTick()
	assert.Equal(t, []int{30}, q.Collect())
}
