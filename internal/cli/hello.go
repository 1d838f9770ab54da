package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/flightbrain/internal/apps/hello"
	"github.com/roach88/flightbrain/internal/kernel"
)

// HelloOptions holds flags for the hello command.
type HelloOptions struct {
	*RootOptions
	TraceDB string
}

// NewHelloCommand creates the hello command.
func NewHelloCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HelloOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Print a greeting through the message loop",
		Long: `Run the smallest kernel program: one system greets on Init, prints
its own Log message on the next tick, and shuts down once a tick passes
with nothing to do.

Examples:
  flightbrain hello
  flightbrain hello --trace-db ./trace.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHello(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "record every tick into this SQLite database")

	return cmd
}

func runHello(opts *HelloOptions, cmd *cobra.Command) error {
	logger := opts.logger()
	runner := kernel.NewRunner[hello.State, hello.Message](kernel.WithLogger(logger))

	finish, err := attachJournal(cmd.Context(), opts.TraceDB, "hello", runner, hello.Message.String, logger)
	if err != nil {
		return err
	}

	ticks := hello.Run(runner, cmd.OutOrStdout())
	logger.Debug("hello finished", "ticks", ticks)

	return finish()
}
