package calc

import "github.com/roach88/flightbrain/internal/kernel"

// DivisionByZero is the text of the error raised for x / 0.
const DivisionByZero = "Division by zero"

// Calculator applies this tick's commands to the accumulator.
//
// Commands run against a working copy of the accumulator. If the line
// targeted a variable (Target or Store) the final value is written to that
// variable and the accumulator is left alone.
type Calculator struct{}

func (Calculator) Name() string { return "calculator" }

// Update implements kernel.System.
func (Calculator) Update(state *State, queue *kernel.Queue[Message]) {
	var (
		flush     bool
		failed    bool
		target    string
		hasTarget bool
		faults    []Message
	)
	acc := state.Accumulator

	for msg := range queue.All() {
		switch msg.Kind {
		case KindInit:
			flush = true
		case KindCommand:
			flush = true
			cmd := msg.Command
			switch cmd.Op {
			case OpAdd:
				acc += operand(state, cmd)
			case OpSubtract:
				acc -= operand(state, cmd)
			case OpMultiply:
				acc *= operand(state, cmd)
			case OpDivide:
				divisor := operand(state, cmd)
				if divisor == 0 {
					failed = true
					faults = append(faults, ErrorMsg(DivisionByZero))
					continue
				}
				acc /= divisor
			case OpSet:
				acc = operand(state, cmd)
			case OpTarget:
				hasTarget = true
				target = cmd.Variable
				acc = state.variable(cmd.Variable)
			case OpLoad:
				acc = state.variable(cmd.Variable)
			case OpStore:
				hasTarget = true
				target = cmd.Variable
				acc = state.Accumulator
			case OpClear:
				acc = 0
			}
		}
	}

	if hasTarget {
		state.setVariable(target, acc)
	} else {
		state.Accumulator = acc
	}

	for _, fault := range faults {
		queue.Push(fault)
	}
	if flush && !failed {
		queue.Push(ResultMsg(acc))
	}
	if flush {
		queue.Push(Signal(KindFlushOutput))
	}
}

// operand resolves a command's argument, reading (and creating) a
// variable when one is named.
func operand(state *State, cmd Command) float64 {
	if cmd.Variable != "" {
		return state.variable(cmd.Variable)
	}
	return cmd.Value
}
