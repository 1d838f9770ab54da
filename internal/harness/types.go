package harness

// TickRecord is one tick as read back from the trace journal.
type TickRecord struct {
	Seq      int64    `json:"seq"`
	Messages []string `json:"messages"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Output is everything the calculator printed.
	Output string `json:"output"`

	// Ticks is the number of ticks the run executed.
	Ticks int64 `json:"ticks"`

	Accumulator float64            `json:"accumulator"`
	Variables   map[string]float64 `json:"variables"`

	// Trace holds the delivered messages of every tick.
	Trace []TickRecord `json:"trace"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Errors:    []string{},
		Variables: make(map[string]float64),
		Trace:     []TickRecord{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
