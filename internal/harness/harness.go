package harness

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/flightbrain/internal/apps/calc"
	"github.com/roach88/flightbrain/internal/config"
	"github.com/roach88/flightbrain/internal/kernel"
	"github.com/roach88/flightbrain/internal/testutil"
	"github.com/roach88/flightbrain/internal/trace"
)

// Run executes a scenario and returns the result.
//
// Each scenario records into a fresh in-memory journal. The returned error
// covers setup and recording failures; unmet expectations are reported in
// Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	cfg, err := scenarioConfig(scenario)
	if err != nil {
		return nil, err
	}

	st, err := trace.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	logger := testutil.DiscardLogger()

	rec, err := trace.NewRecorder(ctx, st, "calc", calc.Message.String,
		trace.WithIDGenerator(testutil.NewFixedIDs(scenario.Name)),
		trace.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start recording: %w", err)
	}

	runner := kernel.NewRunner[calc.State, calc.Message](kernel.WithLogger(logger))
	runner.Observe(rec)

	var (
		out   bytes.Buffer
		final calc.State
	)
	ticks := calc.Run(runner, calc.Options{
		In:          testutil.ScriptedInput(scenario.Input...),
		Out:         &out,
		Config:      cfg,
		DetectBatch: true,
		Logger:      logger,
		OnExit:      func(s calc.State) { final = s },
	})

	if err := rec.Close(); err != nil {
		return nil, fmt.Errorf("failed to record trace: %w", err)
	}
	_, recorded, err := st.ReadRun(ctx, rec.RunID())
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	result := NewResult()
	result.Output = out.String()
	result.Ticks = ticks
	result.Accumulator = final.Accumulator
	maps.Copy(result.Variables, final.Variables)
	for _, tick := range recorded {
		result.Trace = append(result.Trace, TickRecord{Seq: tick.Seq, Messages: tick.Messages})
	}

	checkExpect(scenario.Expect, result)
	return result, nil
}

// scenarioConfig loads the scenario's config file, if any, and applies the
// scenario's overrides.
func scenarioConfig(scenario *Scenario) (config.Config, error) {
	cfg := config.Default()
	if scenario.Config != "" {
		loaded, err := config.Load(scenario.Config)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if scenario.Batch {
		cfg.Batch = true
	}
	if scenario.MaxTicks > 0 {
		cfg.MaxTicks = scenario.MaxTicks
	}
	if cfg.Variables == nil {
		cfg.Variables = make(map[string]float64, len(scenario.Variables))
	}
	maps.Copy(cfg.Variables, scenario.Variables)
	return cfg, nil
}

func checkExpect(expect Expect, result *Result) {
	if expect.Output != nil && *expect.Output != result.Output {
		result.AddError(fmt.Sprintf("output mismatch:\n  expected: %q\n  actual:   %q",
			*expect.Output, result.Output))
	}

	for _, sub := range expect.Contains {
		if !strings.Contains(result.Output, sub) {
			result.AddError(fmt.Sprintf("output does not contain %q", sub))
		}
	}

	if expect.Accumulator != nil && *expect.Accumulator != result.Accumulator {
		result.AddError(fmt.Sprintf("accumulator: expected %s, got %s",
			calc.FormatNumber(*expect.Accumulator), calc.FormatNumber(result.Accumulator)))
	}

	for _, name := range slices.Sorted(maps.Keys(expect.Variables)) {
		want := expect.Variables[name]
		got, ok := result.Variables[name]
		switch {
		case !ok:
			result.AddError(fmt.Sprintf("variable %q: not set", name))
		case got != want:
			result.AddError(fmt.Sprintf("variable %q: expected %s, got %s",
				name, calc.FormatNumber(want), calc.FormatNumber(got)))
		}
	}
}
