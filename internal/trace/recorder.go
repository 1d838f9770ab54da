package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/roach88/flightbrain/internal/kernel"
)

// Recorder journals every tick of a kernel run.
//
// It implements kernel.Observer[M]. The observer contract has no error
// return, so the first write failure is logged, kept for Err and Close, and
// recording stops for the rest of the run. The run itself is unaffected.
type Recorder[M any] struct {
	ctx    context.Context
	store  *Store
	runID  string
	render func(M) string
	logger *slog.Logger

	first int64
	ticks int64
	err   error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderSettings)

type recorderSettings struct {
	ids    IDGenerator
	logger *slog.Logger
}

// WithIDGenerator overrides the run ID generator (default: UUIDv7Generator).
func WithIDGenerator(gen IDGenerator) RecorderOption {
	return func(s *recorderSettings) {
		s.ids = gen
	}
}

// WithLogger sets the logger for write failures (default: slog.Default()).
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(s *recorderSettings) {
		s.logger = logger
	}
}

// NewRecorder starts a new run named program in st.
// render turns a message into its journal text; nil uses fmt.Sprint.
func NewRecorder[M any](ctx context.Context, st *Store, program string, render func(M) string, opts ...RecorderOption) (*Recorder[M], error) {
	s := recorderSettings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.ids == nil {
		s.ids = UUIDv7Generator{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if render == nil {
		render = func(m M) string { return fmt.Sprint(m) }
	}

	runID := s.ids.Generate()
	_, err := st.db.ExecContext(ctx, `
		INSERT INTO runs (id, program) VALUES (?, ?)
	`, runID, program)
	if err != nil {
		return nil, fmt.Errorf("start run %s: %w", runID, err)
	}

	return &Recorder[M]{
		ctx:    ctx,
		store:  st,
		runID:  runID,
		render: render,
		logger: s.logger,
	}, nil
}

// RunID returns the ID of the run being recorded.
func (r *Recorder[M]) RunID() string {
	return r.runID
}

// Err returns the first write failure, if any.
func (r *Recorder[M]) Err() error {
	return r.err
}

// ObserveTick implements kernel.Observer.
func (r *Recorder[M]) ObserveTick(info kernel.TickInfo, queue *kernel.Queue[M]) {
	if r.err != nil {
		return
	}
	if err := r.writeTick(info, queue); err != nil {
		r.err = fmt.Errorf("record tick %d: %w", info.Seq, err)
		r.logger.Error("trace recording stopped",
			"run", r.runID,
			"tick", info.Seq,
			"error", err,
		)
		return
	}
	if r.ticks == 0 {
		r.first = info.Seq
	}
	r.ticks++
}

func (r *Recorder[M]) writeTick(info kernel.TickInfo, queue *kernel.Queue[M]) error {
	systems, err := json.Marshal(info.Systems)
	if err != nil {
		return fmt.Errorf("marshal systems: %w", err)
	}

	tx, err := r.store.db.BeginTx(r.ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(r.ctx, `
		INSERT INTO ticks (run_id, seq, systems, delivered, produced)
		VALUES (?, ?, ?, ?, ?)
	`, r.runID, info.Seq, string(systems), queue.Len(), queue.Pending())
	if err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}

	position := 0
	for msg := range queue.All() {
		_, err = tx.ExecContext(r.ctx, `
			INSERT INTO messages (run_id, seq, position, text)
			VALUES (?, ?, ?, ?)
		`, r.runID, info.Seq, position, r.render(msg))
		if err != nil {
			return fmt.Errorf("insert message %d: %w", position, err)
		}
		position++
	}

	return tx.Commit()
}

// Close marks the run finished and stores its tick count.
// It returns the first recording failure, if any.
func (r *Recorder[M]) Close() error {
	_, err := r.store.db.ExecContext(r.ctx, `
		UPDATE runs SET first_tick = ?, ticks = ?, finished = 1 WHERE id = ?
	`, r.first, r.ticks, r.runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", r.runID, err)
	}
	return r.err
}
