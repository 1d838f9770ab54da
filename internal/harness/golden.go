package harness

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/flightbrain/internal/apps/calc"
)

// Transcript renders a result as stable text for golden comparison:
//
//	scenario: add
//	ticks: 10
//	accumulator: 5
//	variables: x=2
//	output: "Value: 0\n> ..."
//	trace:
//	  1: Init
//	  2: Result(0), FlushOutput
func Transcript(name string, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "ticks: %d\n", result.Ticks)
	fmt.Fprintf(&b, "accumulator: %s\n", calc.FormatNumber(result.Accumulator))

	b.WriteString("variables:")
	for _, k := range slices.Sorted(maps.Keys(result.Variables)) {
		fmt.Fprintf(&b, " %s=%s", k, calc.FormatNumber(result.Variables[k]))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "output: %q\n", result.Output)

	b.WriteString("trace:\n")
	for _, tick := range result.Trace {
		fmt.Fprintf(&b, "  %d:", tick.Seq)
		if len(tick.Messages) > 0 {
			b.WriteString(" " + strings.Join(tick.Messages, ", "))
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its transcript against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the transcript doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's transcript against the
// golden file named scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Transcript(scenarioName, result))
}
