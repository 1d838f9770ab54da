package calc

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ParseLine turns one input line into messages.
//
// Grammar, where <operand> is a number or a variable name:
//
//	(empty) | clear        clear the accumulator
//	exit | quit            shut down
//	help                   print the command list
//	+|-|*|/|= <operand>    arithmetic on the accumulator
//	set <var>              store the accumulator in <var>
//	<number>               set the accumulator
//	<var>                  load <var> into the accumulator
//	<var> <op> <operand>   apply <op> to <var> instead of the accumulator
//
// An operator without an operand, or set without a name, prints help.
// Input is NFC-normalised so variable names compare by their canonical form.
func ParseLine(line string) []Message {
	parts := strings.Fields(norm.NFC.String(line))
	if len(parts) == 0 {
		return []Message{CommandMsg(Command{Op: OpClear})}
	}

	msgs := matchCommand(parts, 0)
	if len(msgs) == 0 {
		msgs = matchCommand(parts, 1)
	}
	return msgs
}

// matchCommand reads parts[index] as the keyword. With index 1, parts[0]
// is the target variable.
func matchCommand(parts []string, index int) []Message {
	remaining := len(parts) - index
	var msgs []Message

	if remaining < 1 {
		// A lone word: a number sets the accumulator, anything else loads.
		if v, ok := parseNumber(parts[0]); ok {
			return []Message{CommandMsg(Command{Op: OpSet, Value: v})}
		}
		return []Message{CommandMsg(Command{Op: OpLoad, Variable: parts[0]})}
	}
	if index == 1 {
		msgs = append(msgs, CommandMsg(Command{Op: OpTarget, Variable: parts[0]}))
	}

	help := false
	switch keyword := parts[index]; keyword {
	case "exit", "quit":
		msgs = append(msgs, Signal(KindShutdown))
	case "help":
		help = true
	case "clear":
		msgs = append(msgs, CommandMsg(Command{Op: OpClear}))
	case "+", "-", "*", "/", "=":
		if remaining > 1 {
			msgs = append(msgs, CommandMsg(operandCommand(operators[keyword], parts[index+1])))
		} else {
			help = true
		}
	case "set":
		if remaining > 1 {
			msgs = append(msgs, CommandMsg(Command{Op: OpStore, Variable: parts[index+1]}))
		} else {
			help = true
		}
	}

	if help {
		msgs = append(msgs, Signal(KindHelp), Signal(KindFlushOutput))
	}
	return msgs
}

var operators = map[string]Op{
	"+": OpAdd,
	"-": OpSubtract,
	"*": OpMultiply,
	"/": OpDivide,
	"=": OpSet,
}

// operandCommand builds op with a numeric operand when word parses as a
// number and a variable operand otherwise.
func operandCommand(op Op, word string) Command {
	if v, ok := parseNumber(word); ok {
		return Command{Op: op, Value: v}
	}
	return Command{Op: op, Variable: word}
}

func parseNumber(word string) (float64, bool) {
	v, err := strconv.ParseFloat(word, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	// Out-of-range literals saturate to ±Inf.
	return v, true
}
