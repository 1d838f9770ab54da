package calc

import (
	"maps"

	"github.com/roach88/flightbrain/internal/config"
)

// State is the calculator's shared program state.
type State struct {
	// Tick counts selector calls, starting at 1 for the seeding call.
	Tick int

	Accumulator float64
	Variables   map[string]float64

	// Batch suppresses prompts and results; the accumulator is printed on
	// shutdown instead.
	Batch bool

	// Done is set once a Shutdown message has been delivered.
	Done bool
}

// NewState builds the initial state from cfg.
func NewState(cfg config.Config) State {
	vars := make(map[string]float64, len(cfg.Variables))
	maps.Copy(vars, cfg.Variables)
	return State{
		Variables: vars,
		Batch:     cfg.Batch,
	}
}

// variable returns the value of name, creating it as 0 when missing.
func (s *State) variable(name string) float64 {
	if s.Variables == nil {
		s.Variables = make(map[string]float64)
	}
	v, ok := s.Variables[name]
	if !ok {
		s.Variables[name] = 0
	}
	return v
}

func (s *State) setVariable(name string, v float64) {
	if s.Variables == nil {
		s.Variables = make(map[string]float64)
	}
	s.Variables[name] = v
}
