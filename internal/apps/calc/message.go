package calc

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies a message variant.
type Kind int

const (
	// KindInit is seeded by the selector before the first tick.
	KindInit Kind = iota + 1
	// KindCommand carries a parsed user command.
	KindCommand
	// KindResult carries the value to display.
	KindResult
	// KindLog carries a diagnostic line for the output system.
	KindLog
	// KindError carries a fault raised by a system.
	KindError
	// KindHelp asks the output system to print the command list.
	KindHelp
	// KindPollInput asks the input system to read one line.
	KindPollInput
	// KindFlushOutput asks the output system to print what it collected.
	KindFlushOutput
	// KindShutdown ends the program.
	KindShutdown
)

var kindNames = map[Kind]string{
	KindInit:        "Init",
	KindCommand:     "Command",
	KindResult:      "Result",
	KindLog:         "Log",
	KindError:       "Error",
	KindHelp:        "Help",
	KindPollInput:   "PollInput",
	KindFlushOutput: "FlushOutput",
	KindShutdown:    "Shutdown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Op identifies a calculator command.
type Op int

const (
	OpAdd Op = iota + 1
	OpSubtract
	OpMultiply
	OpDivide
	OpSet
	// OpTarget redirects this line's result into a variable.
	OpTarget
	// OpLoad copies a variable into the accumulator.
	OpLoad
	// OpStore copies the accumulator into a variable.
	OpStore
	OpClear
)

var opNames = map[Op]string{
	OpAdd:      "Add",
	OpSubtract: "Subtract",
	OpMultiply: "Multiply",
	OpDivide:   "Divide",
	OpSet:      "Set",
	OpTarget:   "Target",
	OpLoad:     "Load",
	OpStore:    "Store",
	OpClear:    "Clear",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Command is one calculator operation.
//
// For arithmetic ops and OpSet the operand is Variable when it is non-empty
// and Value otherwise. OpTarget, OpLoad and OpStore always name a Variable.
type Command struct {
	Op       Op
	Value    float64
	Variable string
}

func (c Command) String() string {
	switch c.Op {
	case OpClear:
		return c.Op.String()
	case OpTarget, OpLoad, OpStore:
		return fmt.Sprintf("%s(%s)", c.Op, c.Variable)
	}
	if c.Variable != "" {
		return fmt.Sprintf("%s(%s)", c.Op, c.Variable)
	}
	return fmt.Sprintf("%s(%s)", c.Op, FormatNumber(c.Value))
}

// Message is the calculator's message type.
type Message struct {
	Kind    Kind
	Command Command // KindCommand
	Value   float64 // KindResult
	Text    string  // KindLog, KindError
}

// Signal builds a message that carries no payload.
func Signal(k Kind) Message {
	return Message{Kind: k}
}

// CommandMsg wraps c.
func CommandMsg(c Command) Message {
	return Message{Kind: KindCommand, Command: c}
}

// ResultMsg carries v for display.
func ResultMsg(v float64) Message {
	return Message{Kind: KindResult, Value: v}
}

// LogMsg carries a diagnostic line.
func LogMsg(text string) Message {
	return Message{Kind: KindLog, Text: text}
}

// ErrorMsg carries a fault description.
func ErrorMsg(text string) Message {
	return Message{Kind: KindError, Text: text}
}

func (m Message) String() string {
	switch m.Kind {
	case KindCommand:
		return fmt.Sprintf("Command(%s)", m.Command)
	case KindResult:
		return fmt.Sprintf("Result(%s)", FormatNumber(m.Value))
	case KindLog, KindError:
		return fmt.Sprintf("%s(%q)", m.Kind, m.Text)
	default:
		return m.Kind.String()
	}
}

// FormatNumber renders v in the shortest form that parses back to v.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
