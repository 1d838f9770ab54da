package kernel

import (
	"bytes"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sumState struct {
	sum  int
	done bool
}

// summer adds every delivered integer to the state and republishes the sum.
type summer struct{}

func (summer) Update(state *sumState, queue *Queue[int]) {
	for v := range queue.All() {
		state.sum += v
	}
	queue.Push(state.sum)
	if state.sum > 10 {
		state.done = true
	}
}

func (summer) Name() string { return "summer" }

func quietRunner[S, M any](opts ...Option) *Runner[S, M] {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewRunner[S, M](opts...)
}

func TestRun_EmptySelectionExitsWithoutTicking(t *testing.T) {
	calls := 0
	var received []System[bool, bool]
	sel := func(_ *bool, _ *Queue[bool], systems []System[bool, bool]) []System[bool, bool] {
		calls++
		received = systems
		return nil
	}

	ticks := quietRunner[bool, bool]().Run(true, NewQueue[bool](), sel)

	assert.Equal(t, int64(0), ticks)
	assert.Equal(t, 1, calls)
	assert.Nil(t, received, "first selector call must receive a nil list")
}

func TestRun_NilQueueIsReplaced(t *testing.T) {
	var seen *Queue[int]
	sel := func(_ *sumState, q *Queue[int], _ []System[sumState, int]) []System[sumState, int] {
		seen = q
		return nil
	}

	Run[sumState, int](sumState{}, nil, sel)
	assert.NotNil(t, seen)
}

func TestRun_FirstTickSeesSeededMessages(t *testing.T) {
	var (
		sum      int
		upcoming []int
	)
	sel := func(s *sumState, q *Queue[int], systems []System[sumState, int]) []System[sumState, int] {
		if systems == nil {
			q.Push(1)
			q.Push(2)
			return []System[sumState, int]{summer{}}
		}
		sum = s.sum
		upcoming = slices.Collect(q.Upcoming())
		return nil
	}

	ticks := quietRunner[sumState, int]().Run(sumState{}, NewQueue[int](), sel)

	assert.Equal(t, int64(1), ticks)
	assert.Equal(t, 3, sum)
	assert.Equal(t, []int{3}, upcoming)
}

func TestRun_SystemUpdateBeforeAdvanceSeesNothing(t *testing.T) {
	state := sumState{}
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)

	summer{}.Update(&state, q)
	assert.Equal(t, 0, state.sum, "nothing is visible before the first advance")

	q.NextTick()
	assert.Equal(t, []int{1, 2, 0}, q.Collect())
}

func TestRun_TerminatesOnceSumExceedsTen(t *testing.T) {
	var sums []int
	selectCalls := 0
	sel := func(s *sumState, q *Queue[int], systems []System[sumState, int]) []System[sumState, int] {
		selectCalls++
		if systems == nil {
			q.Push(1)
			return []System[sumState, int]{summer{}}
		}
		sums = append(sums, s.sum)
		if s.done {
			return nil
		}
		return systems
	}

	ticks := quietRunner[sumState, int]().Run(sumState{}, NewQueue[int](), sel)

	// Each tick adds the previous sum to itself: 1, 2, 4, 8, 16.
	assert.Equal(t, []int{1, 2, 4, 8, 16}, sums)
	assert.Equal(t, int64(5), ticks)
	assert.Equal(t, 6, selectCalls)
	for _, s := range sums[:len(sums)-1] {
		assert.LessOrEqual(t, s, 10, "loop must not stop before the sum exceeds 10")
	}
}

type tagger string

func (tg tagger) Update(state *[]string, _ *Queue[string]) {
	*state = append(*state, string(tg))
}

func TestRun_DispatchFollowsSelectedOrder(t *testing.T) {
	a, b, c := tagger("a"), tagger("b"), tagger("c")
	orders := [][]System[[]string, string]{
		{a, b},
		{b, a},
		{c, a, b},
	}

	var log []string
	tick := 0
	sel := func(s *[]string, _ *Queue[string], _ []System[[]string, string]) []System[[]string, string] {
		log = *s
		if tick == len(orders) {
			return nil
		}
		next := orders[tick]
		tick++
		return next
	}

	quietRunner[[]string, string]().Run(nil, NewQueue[string](), sel)

	assert.Equal(t, []string{"a", "b", "b", "a", "c", "a", "b"}, log)
}

func TestRun_SelectorReceivesPreviousList(t *testing.T) {
	first := []System[int, int]{SystemFunc[int, int](func(*int, *Queue[int]) {})}
	var got [][]System[int, int]
	sel := func(_ *int, _ *Queue[int], systems []System[int, int]) []System[int, int] {
		got = append(got, systems)
		if systems == nil {
			return first
		}
		return nil
	}

	quietRunner[int, int]().Run(0, nil, sel)

	require.Len(t, got, 2)
	assert.Nil(t, got[0])
	assert.Len(t, got[1], 1)
}

func TestRun_MessagesHaveExactlyOneTickLatency(t *testing.T) {
	type state struct {
		seen [][]string
	}
	producer := SystemFunc[state, string](func(s *state, q *Queue[string]) {
		q.Push("from-producer")
	})
	consumer := SystemFunc[state, string](func(s *state, q *Queue[string]) {
		s.seen = append(s.seen, slices.Collect(q.All()))
	})

	var final state
	sel := func(s *state, q *Queue[string], systems []System[state, string]) []System[state, string] {
		if systems == nil {
			return []System[state, string]{producer, consumer}
		}
		if len(s.seen) == 3 {
			final = *s
			return nil
		}
		return systems
	}

	quietRunner[state, string]().Run(state{}, nil, sel)

	require.Len(t, final.seen, 3)
	assert.Empty(t, final.seen[0], "consumer must not see producer's push in the same tick")
	assert.Equal(t, []string{"from-producer"}, final.seen[1])
	assert.Equal(t, []string{"from-producer"}, final.seen[2], "messages live for exactly one tick")
}

func TestRun_StateMutationsPersistAcrossTicks(t *testing.T) {
	inc := SystemFunc[int, struct{}](func(n *int, _ *Queue[struct{}]) { *n++ })

	var last int
	sel := func(n *int, _ *Queue[struct{}], _ []System[int, struct{}]) []System[int, struct{}] {
		last = *n
		if *n >= 3 {
			return nil
		}
		return []System[int, struct{}]{inc}
	}

	ticks := quietRunner[int, struct{}]().Run(0, nil, sel)
	assert.Equal(t, 3, last)
	assert.Equal(t, int64(3), ticks)
}

type recordingObserver struct {
	infos     []TickInfo
	delivered [][]int
	produced  [][]int
}

func (o *recordingObserver) ObserveTick(info TickInfo, q *Queue[int]) {
	o.infos = append(o.infos, info)
	o.delivered = append(o.delivered, q.Collect())
	o.produced = append(o.produced, slices.Collect(q.Upcoming()))
}

func TestRunner_ObserverSeesEveryTick(t *testing.T) {
	obs := &recordingObserver{}
	r := quietRunner[sumState, int](WithClock(NewClockAt(40)))
	r.Observe(obs)

	sel := func(s *sumState, q *Queue[int], systems []System[sumState, int]) []System[sumState, int] {
		if systems == nil {
			q.Push(3)
			return []System[sumState, int]{summer{}}
		}
		if s.sum >= 6 {
			return nil
		}
		return systems
	}

	ticks := r.Run(sumState{}, nil, sel)

	require.Equal(t, int64(2), ticks)
	require.Len(t, obs.infos, 2)
	assert.Equal(t, int64(41), obs.infos[0].Seq)
	assert.Equal(t, int64(42), obs.infos[1].Seq)
	assert.Equal(t, []string{"summer"}, obs.infos[0].Systems)
	assert.Equal(t, [][]int{{3}, {3}}, obs.delivered)
	assert.Equal(t, [][]int{{3}, {6}}, obs.produced)
	assert.Equal(t, int64(42), r.Clock().Current())
}

func TestRunner_PanicPropagatesAndIsLogged(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner[int, int](WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	boom := SystemFunc[int, int](func(*int, *Queue[int]) { panic("boom") })
	sel := func(_ *int, _ *Queue[int], systems []System[int, int]) []System[int, int] {
		return []System[int, int]{boom}
	}

	assert.PanicsWithValue(t, "boom", func() {
		r.Run(0, nil, sel)
	})
	assert.Contains(t, buf.String(), "run aborted")
	assert.Contains(t, buf.String(), "kernel.SystemFunc[int,int]")
}

func TestRunner_ReusableAcrossRuns(t *testing.T) {
	clock := NewClock()
	r := quietRunner[int, int](WithClock(clock))

	once := func(_ *int, _ *Queue[int], systems []System[int, int]) []System[int, int] {
		if systems == nil {
			return []System[int, int]{SystemFunc[int, int](func(*int, *Queue[int]) {})}
		}
		return nil
	}

	assert.Equal(t, int64(1), r.Run(0, nil, once))
	assert.Equal(t, int64(1), r.Run(0, nil, once))
	assert.Equal(t, int64(2), clock.Current(), "ticks are numbered continuously")
}
