package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/flightbrain/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - show one run in full
}

// RunDetail is one run with its ticks.
type RunDetail struct {
	Run   trace.Run    `json:"run"`
	Ticks []trace.Tick `json:"ticks"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded runs",
		Long: `Inspect a trace database written with --trace-db.

Without --run, lists every recorded run. With --run, shows each tick of
that run: the systems dispatched and the messages they were handed.

Examples:
  flightbrain trace --db ./trace.db
  flightbrain trace --db ./trace.db --run 0192f0c4-...
  flightbrain trace --db ./trace.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to show")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	// Opening would create a missing database.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.RunID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return f.Success(runs, func(w io.Writer) { writeRuns(w, runs) })
	}

	run, ticks, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, trace.ErrRunNotFound) {
		if err := f.Error("E_RUN_NOT_FOUND", fmt.Sprintf("no run %q", opts.RunID), nil); err != nil {
			return err
		}
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	detail := RunDetail{Run: run, Ticks: ticks}
	return f.Success(detail, func(w io.Writer) { writeRunDetail(w, detail) })
}

func writeRuns(w io.Writer, runs []trace.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, run := range runs {
		status := ""
		if !run.Finished {
			status = " (unfinished)"
		}
		fmt.Fprintf(w, "%s  %-6s  %d ticks%s\n", run.ID, run.Program, run.Ticks, status)
	}
}

func writeRunDetail(w io.Writer, d RunDetail) {
	fmt.Fprintf(w, "Run %s (%s): %d ticks\n", d.Run.ID, d.Run.Program, d.Run.Ticks)
	for _, tick := range d.Ticks {
		fmt.Fprintf(w, "  %d [%s]", tick.Seq, strings.Join(tick.Systems, " "))
		if len(tick.Messages) > 0 {
			fmt.Fprintf(w, " %s", strings.Join(tick.Messages, ", "))
		}
		fmt.Fprintln(w)
	}
}
