// Package calc is an interactive calculator built from three kernel
// systems that only talk through messages:
//
//	Calculator -> Result/Error/FlushOutput -> Output -> PollInput -> Input -> Command
//
// Each hop costs one tick. A full command round trip (read, compute,
// print) therefore takes three ticks.
package calc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/flightbrain/internal/config"
	"github.com/roach88/flightbrain/internal/kernel"
)

// Options configures a calculator run.
type Options struct {
	In  io.Reader
	Out io.Writer

	Config config.Config

	// DetectBatch enables the leading "batch" line switch.
	DetectBatch bool

	// OnExit receives the final state just before the run ends.
	OnExit func(State)

	Logger *slog.Logger
}

// Selector returns the calculator's selection function.
//
// On the first call it seeds Init and builds Calculator, Output, Input, in
// that dispatch order. It ends the run on the tick after a Shutdown was
// delivered, or when cfg.MaxTicks ticks have run.
func Selector(opts Options) kernel.Selector[State, Message] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config

	finish := func(state *State) []kernel.System[State, Message] {
		if opts.OnExit != nil {
			opts.OnExit(*state)
		}
		return nil
	}

	return func(state *State, queue *kernel.Queue[Message], systems []kernel.System[State, Message]) []kernel.System[State, Message] {
		state.Tick++
		first := systems == nil

		if first {
			queue.Push(Signal(KindInit))
			systems = []kernel.System[State, Message]{
				Calculator{},
				NewOutput(opts.Out, cfg.Prompt),
				NewInput(opts.In, opts.DetectBatch),
			}
		} else {
			for msg := range queue.All() {
				if msg.Kind == KindShutdown {
					state.Done = true
				}
			}
		}

		if state.Done {
			logger.Debug("calculator shut down", "tick", state.Tick)
			return finish(state)
		}
		if cfg.MaxTicks > 0 && state.Tick > cfg.MaxTicks {
			logger.Warn("calculator stopped at tick limit", "max_ticks", cfg.MaxTicks)
			return finish(state)
		}

		if cfg.TraceTicks && !first {
			queue.Push(LogMsg(tickLine(state.Tick-1, queue)))
		}
		return systems
	}
}

// tickLine renders the messages delivered in the tick that just ran,
// leaving out earlier tick lines.
func tickLine(tick int, queue *kernel.Queue[Message]) string {
	var parts []string
	for msg := range queue.All() {
		if msg.Kind == KindLog {
			continue
		}
		parts = append(parts, msg.String())
	}
	line := fmt.Sprintf("Tick %d : ", tick)
	return line + strings.Join(parts, ", ")
}

// Run executes the calculator on r and returns the number of ticks.
// Start from config.Default() when no configuration file is used.
func Run(r *kernel.Runner[State, Message], opts Options) int64 {
	return r.Run(NewState(opts.Config), kernel.NewQueue[Message](), Selector(opts))
}
