package calc

import (
	"fmt"
	"io"

	"github.com/roach88/flightbrain/internal/kernel"
)

// DefaultTarget labels results that were not redirected into a variable.
const DefaultTarget = "Value"

var helpText = []string{
	"Commands:",
	"    exit | quit : Terminate the program",
	"    help : Print commands",
	"    clear : Set accumulator to zero",
	"    = <value> : Set accumulator to <value>",
	"    + <value> : Add value to accumulator",
	"    - <value> : Subtract value from accumulator",
	"    * <value> : Multiply accumulator by value",
	"    / <value> : Divide accumulator by value",
	"    set <variable> : Set variable to the accumulator",
}

// Output collects results, errors, logs and help requests and prints them
// when a FlushOutput message arrives. Every flush ends with a PollInput
// for the next line.
type Output struct {
	out    io.Writer
	prompt string

	target    string
	value     float64
	hasResult bool
	help      bool
	logs      []string
	errs      []string
}

// NewOutput creates the output system writing to out.
func NewOutput(out io.Writer, prompt string) *Output {
	return &Output{
		out:    out,
		prompt: prompt,
		target: DefaultTarget,
	}
}

func (o *Output) Name() string { return "output" }

// Update implements kernel.System.
func (o *Output) Update(state *State, queue *kernel.Queue[Message]) {
	if state.Done {
		return
	}

	flush := false
	for msg := range queue.All() {
		switch msg.Kind {
		case KindInit:
			return
		case KindShutdown:
			if state.Batch {
				fmt.Fprintln(o.out, FormatNumber(state.Accumulator))
			}
			return
		case KindResult:
			o.value = msg.Value
			o.hasResult = true
		case KindError:
			o.errs = append(o.errs, msg.Text)
		case KindLog:
			o.logs = append(o.logs, msg.Text)
		case KindHelp:
			o.help = true
		case KindCommand:
			if op := msg.Command.Op; op == OpTarget || op == OpStore {
				o.target = msg.Command.Variable
			}
		case KindFlushOutput:
			flush = true
		}
	}

	if flush {
		if !state.Batch {
			o.flush()
		}
		o.reset()
		queue.Push(Signal(KindPollInput))
	}
}

func (o *Output) flush() {
	for _, line := range o.logs {
		fmt.Fprintln(o.out, line)
	}
	for _, msg := range o.errs {
		fmt.Fprintf(o.out, "Error: %s\n", msg)
	}
	if o.help {
		for _, line := range helpText {
			fmt.Fprintln(o.out, line)
		}
	} else if o.hasResult {
		fmt.Fprintf(o.out, "%s: %s\n", o.target, FormatNumber(o.value))
	}
	fmt.Fprint(o.out, o.prompt)
}

func (o *Output) reset() {
	o.target = DefaultTarget
	o.value = 0
	o.hasResult = false
	o.help = false
	o.logs = o.logs[:0]
	o.errs = o.errs[:0]
}
