// Package hello is the smallest useful kernel program: it prints a
// greeting through a Log message and shuts itself down.
package hello

import (
	"fmt"
	"io"

	"github.com/roach88/flightbrain/internal/kernel"
)

// Greeting is the text the program prints.
const Greeting = "Hello, World!"

// Kind identifies a message variant.
type Kind int

const (
	// KindInit is seeded by the selector before the first tick.
	KindInit Kind = iota + 1
	// KindLog carries a line to print.
	KindLog
	// KindShutdown asks the program to stop.
	KindShutdown
)

// Message is the hello program's message type.
type Message struct {
	Kind Kind
	Text string // KindLog only
}

func (m Message) String() string {
	switch m.Kind {
	case KindInit:
		return "Init"
	case KindLog:
		return fmt.Sprintf("Log(%q)", m.Text)
	case KindShutdown:
		return "Shutdown"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m.Kind))
	}
}

// State is shared program state.
type State struct {
	Done bool
}

// System greets on Init, prints Log messages, and requests shutdown on the
// first tick that delivers nothing.
type System struct {
	out io.Writer
}

// NewSystem creates the greeter writing to out.
func NewSystem(out io.Writer) *System {
	return &System{out: out}
}

func (s *System) Name() string { return "hello" }

// Update implements kernel.System.
func (s *System) Update(state *State, queue *kernel.Queue[Message]) {
	greet := false
	for msg := range queue.All() {
		switch msg.Kind {
		case KindInit:
			greet = true
		case KindLog:
			fmt.Fprintln(s.out, msg.Text)
		case KindShutdown:
			state.Done = true
		}
	}

	if greet {
		queue.Push(Message{Kind: KindLog, Text: Greeting})
	} else if queue.Len() == 0 {
		queue.Push(Message{Kind: KindShutdown})
	}
}

// Selector seeds Init, keeps the greeter running and stops once Done.
func Selector(out io.Writer) kernel.Selector[State, Message] {
	return func(state *State, queue *kernel.Queue[Message], systems []kernel.System[State, Message]) []kernel.System[State, Message] {
		if state.Done {
			return nil
		}
		if systems == nil {
			queue.Push(Message{Kind: KindInit})
			return []kernel.System[State, Message]{NewSystem(out)}
		}
		return systems
	}
}

// Run executes the program on r and returns the number of ticks.
func Run(r *kernel.Runner[State, Message], out io.Writer) int64 {
	return r.Run(State{}, kernel.NewQueue[Message](), Selector(out))
}
