package hello

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flightbrain/internal/kernel"
	"github.com/roach88/flightbrain/internal/testutil"
)

type messageLog struct {
	ticks [][]string
}

func (l *messageLog) ObserveTick(_ kernel.TickInfo, q *kernel.Queue[Message]) {
	var names []string
	for msg := range q.All() {
		names = append(names, msg.String())
	}
	l.ticks = append(l.ticks, names)
}

func TestRun_PrintsGreetingOnceAndStops(t *testing.T) {
	var out bytes.Buffer
	log := &messageLog{}
	r := kernel.NewRunner[State, Message](kernel.WithLogger(testutil.DiscardLogger()))
	r.Observe(log)

	ticks := Run(r, &out)

	assert.Equal(t, Greeting+"\n", out.String())
	assert.Equal(t, int64(4), ticks)
	require.Len(t, log.ticks, 4)
	assert.Equal(t, []string{"Init"}, log.ticks[0])
	assert.Equal(t, []string{`Log("Hello, World!")`}, log.ticks[1])
	assert.Empty(t, log.ticks[2])
	assert.Equal(t, []string{"Shutdown"}, log.ticks[3])
}

func TestSystem_ShutdownSetsDone(t *testing.T) {
	var out bytes.Buffer
	state := State{}
	q := kernel.NewQueue[Message]()
	q.Push(Message{Kind: KindShutdown})
	q.NextTick()

	NewSystem(&out).Update(&state, q)

	assert.True(t, state.Done)
	assert.Empty(t, out.String())
	assert.Equal(t, 0, q.Pending())
}

func TestSystem_InitProducesLog(t *testing.T) {
	state := State{}
	q := kernel.NewQueue[Message]()
	q.Push(Message{Kind: KindInit})
	q.NextTick()

	NewSystem(&bytes.Buffer{}).Update(&state, q)

	assert.Equal(t, []Message{{Kind: KindLog, Text: Greeting}}, slices.Collect(q.Upcoming()))
}

func TestMessage_String(t *testing.T) {
	assert.Equal(t, "Init", Message{Kind: KindInit}.String())
	assert.Equal(t, "Shutdown", Message{Kind: KindShutdown}.String())
	assert.Equal(t, `Log("hi")`, Message{Kind: KindLog, Text: "hi"}.String())
	assert.Equal(t, "Unknown(99)", Message{Kind: 99}.String())
}
