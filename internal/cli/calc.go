package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/flightbrain/internal/apps/calc"
	"github.com/roach88/flightbrain/internal/config"
	"github.com/roach88/flightbrain/internal/kernel"
)

// CalcOptions holds flags for the calc command.
type CalcOptions struct {
	*RootOptions
	Config     string
	Batch      bool
	TraceTicks bool
	MaxTicks   int
	TraceDB    string
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalcOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run the calculator on stdin",
		Long: `Run the calculator. Commands are read from stdin one line at a time.

Piped input whose first line is "batch" runs in batch mode: nothing is
printed until the input ends, then the final value.

Flags override values from the --config file.

Examples:
  flightbrain calc
  flightbrain calc --config calc.cue
  printf '= 2\n* 21\n' | flightbrain calc --batch
  flightbrain calc --trace-ticks --max-ticks 100`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "CUE configuration file")
	cmd.Flags().BoolVar(&opts.Batch, "batch", false, "batch mode: print only the final value")
	cmd.Flags().BoolVar(&opts.TraceTicks, "trace-ticks", false, "print the messages of every tick")
	cmd.Flags().IntVar(&opts.MaxTicks, "max-ticks", 0, "stop after this many ticks (0 = no limit)")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "record every tick into this SQLite database")

	return cmd
}

func runCalc(opts *CalcOptions, cmd *cobra.Command) error {
	logger := opts.logger()

	cfg, err := calcConfig(opts, cmd)
	if err != nil {
		return err
	}

	runner := kernel.NewRunner[calc.State, calc.Message](kernel.WithLogger(logger))
	finish, err := attachJournal(cmd.Context(), opts.TraceDB, "calc", runner, calc.Message.String, logger)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	ticks := calc.Run(runner, calc.Options{
		In:     in,
		Out:    cmd.OutOrStdout(),
		Config: cfg,
		// Peeking a terminal for the header would hold back the first prompt.
		DetectBatch: !isTerminal(in),
		Logger:      logger,
	})
	logger.Debug("calculator finished", "ticks", ticks)

	return finish()
}

// calcConfig loads --config, if given, and applies the flags that were
// set explicitly.
func calcConfig(opts *CalcOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("batch") {
		cfg.Batch = opts.Batch
	}
	if flags.Changed("trace-ticks") {
		cfg.TraceTicks = opts.TraceTicks
	}
	if flags.Changed("max-ticks") {
		if opts.MaxTicks < 0 {
			return config.Config{}, NewExitError(ExitCommandError, "--max-ticks must be non-negative")
		}
		cfg.MaxTicks = opts.MaxTicks
	}
	return cfg, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
