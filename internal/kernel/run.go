package kernel

import (
	"log/slog"
)

// Selector decides which systems run in the next tick.
//
// It receives the systems that ran in the previous tick. On the first call
// that list is nil, which lets the selector seed initial messages and build
// its system list. Later calls always receive the non-empty list that was
// just dispatched. Returning an empty list ends the run.
type Selector[S, M any] func(state *S, queue *Queue[M], systems []System[S, M]) []System[S, M]

// TickInfo describes a tick that has just been dispatched.
type TickInfo struct {
	// Seq is the tick number from the runner's clock.
	Seq int64

	// Systems labels the dispatched systems in dispatch order.
	Systems []string
}

// Observer is notified after every dispatched tick.
//
// During ObserveTick, queue.All yields the messages delivered in the tick
// and queue.Upcoming the messages produced for the next one. Observers must
// not push.
type Observer[M any] interface {
	ObserveTick(info TickInfo, queue *Queue[M])
}

// Option configures a Runner.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
	clock  *Clock
}

// WithLogger sets the logger used for tick diagnostics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithClock numbers ticks with clock instead of a fresh one.
func WithClock(clock *Clock) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

// Runner drives the Select, Advance, Dispatch loop.
//
// A Runner may be reused for several runs. It must not be used by two
// goroutines at once.
type Runner[S, M any] struct {
	logger    *slog.Logger
	clock     *Clock
	observers []Observer[M]
}

// NewRunner creates a Runner configured by opts.
func NewRunner[S, M any](opts ...Option) *Runner[S, M] {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = NewClock()
	}
	return &Runner[S, M]{
		logger: s.logger,
		clock:  s.clock,
	}
}

// Observe registers o. Observers are called in registration order.
func (r *Runner[S, M]) Observe(o Observer[M]) {
	r.observers = append(r.observers, o)
}

// Clock returns the runner's tick clock.
func (r *Runner[S, M]) Clock() *Clock {
	return r.clock
}

// Run owns state for the duration of the loop and returns the number of
// ticks executed once sel returns an empty list.
//
// A nil queue is replaced by an empty one. Panics raised by a system or by
// sel are logged and propagated; the run cannot be resumed.
func (r *Runner[S, M]) Run(state S, queue *Queue[M], sel Selector[S, M]) int64 {
	if queue == nil {
		queue = NewQueue[M]()
	}

	var (
		ticks   int64
		current string
	)
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("run aborted",
				"tick", r.clock.Current(),
				"system", current,
				"panic", p,
			)
			panic(p)
		}
	}()

	current = "selector"
	systems := sel(&state, queue, nil)

	for len(systems) > 0 {
		seq := r.clock.Next()
		queue.NextTick()

		r.logger.Debug("tick",
			"seq", seq,
			"systems", len(systems),
			"messages", queue.Len(),
		)

		for _, sys := range systems {
			current = NameOf(sys)
			sys.Update(&state, queue)
		}
		ticks++

		if len(r.observers) > 0 {
			info := TickInfo{Seq: seq, Systems: namesOf(systems)}
			for _, o := range r.observers {
				o.ObserveTick(info, queue)
			}
		}

		current = "selector"
		systems = sel(&state, queue, systems)
	}

	r.logger.Debug("run finished", "ticks", ticks)
	return ticks
}

// Run drives sel until it returns an empty list, using a default Runner.
func Run[S, M any](state S, queue *Queue[M], sel Selector[S, M]) {
	NewRunner[S, M]().Run(state, queue, sel)
}
