// Package solver computes optimal policies for a fully known deterministic
// grid MDP using value iteration and policy iteration.
package solver

import (
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Progress is reported after every value-iteration sweep and after every
// policy-iteration round.
type Progress struct {
	Method Method
	// Sweep counts sweeps completed so far in the run.
	Sweep int
	// Iteration is the policy-iteration round; zero for value iteration.
	Iteration int
	Delta     float64
	// Changed is the number of cells whose action the latest improvement
	// step altered.
	Changed int
	Values  *Values
	Policy  *Policy
}

// Solver runs the dynamic-programming algorithms against a Model. It keeps
// no per-run state, so one Solver may serve concurrent runs.
type Solver struct {
	model  Model
	cfg    Config
	logger zerolog.Logger
	clock  quartz.Clock
}

// Option configures optional Solver collaborators.
type Option func(*Solver)

// WithLogger sets the logger used for sweep and convergence events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to stamp and time results.
func WithClock(clock quartz.Clock) Option {
	return func(s *Solver) {
		s.clock = clock
	}
}

// New validates cfg and returns a Solver for model.
func New(model Model, cfg Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		model:  model,
		cfg:    cfg,
		logger: zerolog.Nop(),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the solver parameters.
func (s *Solver) Config() Config {
	return s.cfg
}

// Extract derives the greedy policy for v under this solver's discount.
func (s *Solver) Extract(v *Values) *Policy {
	return ExtractPolicy(s.model, v, s.cfg.Gamma)
}

func (s *Solver) newResult(method Method, start time.Time, values *Values, policy *Policy) *Result {
	return &Result{
		Version:     resultFileVersion,
		RunID:       uuid.NewString(),
		Method:      method,
		GeneratedAt: s.clock.Now().UTC(),
		Gamma:       s.cfg.Gamma,
		Theta:       s.cfg.Theta,
		Elapsed:     s.clock.Since(start),
		Values:      values,
		Policy:      policy,
	}
}
