package calc

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/roach88/flightbrain/internal/kernel"
)

// batchHeader switches the program to batch mode when it is the first
// line of input.
const batchHeader = "batch"

// Input reads one line per PollInput message and pushes the parsed
// commands. End of input pushes Shutdown.
type Input struct {
	r           *bufio.Reader
	detectBatch bool
}

// NewInput creates the input system reading from r. With detectBatch, a
// leading "batch" line is consumed on Init and turns on batch mode.
func NewInput(r io.Reader, detectBatch bool) *Input {
	return &Input{
		r:           bufio.NewReader(r),
		detectBatch: detectBatch,
	}
}

func (in *Input) Name() string { return "input" }

// Update implements kernel.System.
func (in *Input) Update(state *State, queue *kernel.Queue[Message]) {
	if state.Done {
		return
	}

	poll := false
	for msg := range queue.All() {
		switch msg.Kind {
		case KindInit:
			if in.detectBatch && in.consumeBatchHeader() {
				state.Batch = true
			}
			return
		case KindShutdown:
			return
		case KindPollInput:
			poll = true
		}
	}
	if !poll {
		return
	}

	line, err := in.r.ReadString('\n')
	if line == "" && err != nil {
		// io.EOF or a read failure: either way there is no more input.
		queue.Push(Signal(KindShutdown))
		if !errors.Is(err, io.EOF) {
			queue.Push(ErrorMsg(err.Error()))
		}
		return
	}
	for _, msg := range ParseLine(line) {
		queue.Push(msg)
	}
}

// consumeBatchHeader discards the first line if it is the batch header.
func (in *Input) consumeBatchHeader() bool {
	// Only look at what the first read delivers, so an interactive
	// session is never held waiting for bytes that may not come.
	if _, err := in.r.Peek(1); err != nil {
		return false
	}
	peek, _ := in.r.Peek(min(in.r.Buffered(), len(batchHeader)+2))
	line, _, _ := strings.Cut(string(peek), "\n")
	if !strings.EqualFold(strings.TrimRight(line, "\r"), batchHeader) {
		return false
	}
	n := len(line)
	if n < len(peek) {
		n++ // newline
	}
	_, _ = in.r.Discard(n)
	return true
}
