package calc

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestInput_ReadsOneLinePerPoll(t *testing.T) {
	in := NewInput(strings.NewReader("+ 1\n* 2\n"), false)
	state := &State{}

	q := deliver(Signal(KindPollInput))
	in.Update(state, q)
	assert.Equal(t, []Message{cmd(OpAdd, 1)}, pushed(q))

	q = deliver(Signal(KindPollInput))
	in.Update(state, q)
	assert.Equal(t, []Message{cmd(OpMultiply, 2)}, pushed(q))
}

func TestInput_NoPollNoRead(t *testing.T) {
	in := NewInput(strings.NewReader("+ 1\n"), false)
	q := deliver(ResultMsg(1))

	in.Update(&State{}, q)

	assert.Empty(t, pushed(q))
}

func TestInput_LastLineWithoutNewline(t *testing.T) {
	in := NewInput(strings.NewReader("= 5"), false)
	q := deliver(Signal(KindPollInput))

	in.Update(&State{}, q)

	assert.Equal(t, []Message{cmd(OpSet, 5)}, pushed(q))
}

func TestInput_EOFShutsDown(t *testing.T) {
	in := NewInput(strings.NewReader(""), false)
	q := deliver(Signal(KindPollInput))

	in.Update(&State{}, q)

	assert.Equal(t, []Message{Signal(KindShutdown)}, pushed(q))
}

func TestInput_ReadFailureShutsDownWithError(t *testing.T) {
	in := NewInput(iotest.ErrReader(errors.New("tty gone")), false)
	q := deliver(Signal(KindPollInput))

	in.Update(&State{}, q)

	assert.Equal(t, []Message{Signal(KindShutdown), ErrorMsg("tty gone")}, pushed(q))
}

func TestInput_BatchHeader(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		detect    bool
		wantBatch bool
		wantNext  []Message
	}{
		{"header consumed", "batch\n+ 1\n", true, true, []Message{cmd(OpAdd, 1)}},
		{"crlf header", "batch\r\n+ 1\n", true, true, []Message{cmd(OpAdd, 1)}},
		{"header only", "batch", true, true, []Message{Signal(KindShutdown)}},
		{"detection off", "batch\n", false, false, []Message{cmdVar(OpLoad, "batch")}},
		{"no header", "+ 1\n", true, false, []Message{cmd(OpAdd, 1)}},
		{"longer word", "batches\n", true, false, []Message{cmdVar(OpLoad, "batches")}},
		{"empty input", "", true, false, []Message{Signal(KindShutdown)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput(strings.NewReader(tt.input), tt.detect)
			state := &State{}

			q := deliver(Signal(KindInit))
			in.Update(state, q)
			assert.Empty(t, pushed(q))
			assert.Equal(t, tt.wantBatch, state.Batch)

			q = deliver(Signal(KindPollInput))
			in.Update(state, q)
			assert.Equal(t, tt.wantNext, pushed(q))
		})
	}
}
