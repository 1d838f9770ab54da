package testutil

import (
	"io"
	"strings"
)

// ScriptedInput returns a reader that yields lines one per line, each
// terminated by a newline, then io.EOF.
func ScriptedInput(lines ...string) io.Reader {
	if len(lines) == 0 {
		return strings.NewReader("")
	}
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}
