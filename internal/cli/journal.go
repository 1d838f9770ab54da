package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/flightbrain/internal/kernel"
	"github.com/roach88/flightbrain/internal/trace"
)

// attachJournal records every tick of r into the trace database at path.
// The returned finish closes the run and the database; it must be called
// once the run is over. An empty path records nothing.
func attachJournal[S, M any](ctx context.Context, path, program string, r *kernel.Runner[S, M], render func(M) string, logger *slog.Logger) (finish func() error, err error) {
	if path == "" {
		return func() error { return nil }, nil
	}

	st, err := trace.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open trace database", err)
	}

	rec, err := trace.NewRecorder(ctx, st, program, render, trace.WithLogger(logger))
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to start trace run", err)
	}
	r.Observe(rec)
	logger.Info("recording trace", "db", path, "run", rec.RunID())

	return func() error {
		recErr := rec.Close()
		closeErr := st.Close()
		if err := errors.Join(recErr, closeErr); err != nil {
			return WrapExitError(ExitFailure, "trace recording failed", err)
		}
		return nil
	}, nil
}
