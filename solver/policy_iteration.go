package solver

import (
	"context"
	"math"

	"github.com/lox/gridmdp/gridworld"
	"github.com/lox/gridmdp/internal/randutil"
)

// PolicyIteration alternates policy evaluation and greedy improvement until
// an improvement step leaves the policy unchanged. The initial policy draws
// a uniformly random action for every cell from a generator seeded by
// Config.Seed, then clears the goal.
func (s *Solver) PolicyIteration(ctx context.Context, progress func(Progress)) (*Result, error) {
	start := s.clock.Now()
	seed := randutil.Resolve(s.cfg.Seed, s.clock)
	policy := RandomPolicy(s.model, seed)

	var (
		values *Values
		sweeps int
		round  int
	)
	for {
		evaluated, n, err := EvaluatePolicy(ctx, s.model, policy, s.cfg.Gamma, s.cfg.Theta)
		if err != nil {
			return nil, err
		}
		values = evaluated
		sweeps += n
		round++

		improved := s.Extract(values)
		changed := policy.Diff(improved)

		s.logger.Debug().
			Str("method", MethodPolicyIteration.String()).
			Int("iteration", round).
			Int("sweeps", n).
			Int("changed", changed).
			Msg("policy improved")

		if progress != nil {
			progress(Progress{
				Method:    MethodPolicyIteration,
				Sweep:     sweeps,
				Iteration: round,
				Changed:   changed,
				Values:    values.Clone(),
				Policy:    improved.Clone(),
			})
		}

		policy = improved
		if changed == 0 {
			break
		}
	}

	res := s.newResult(MethodPolicyIteration, start, values, policy)
	res.Seed = seed
	res.Sweeps = sweeps
	res.Iterations = round

	s.logger.Info().
		Str("method", MethodPolicyIteration.String()).
		Int("iterations", round).
		Int("sweeps", sweeps).
		Int64("seed", seed).
		Dur("elapsed", res.Elapsed).
		Msg("converged")
	return res, nil
}

// RandomPolicy assigns every cell a uniformly drawn action, blockages
// included, and gives the goal NoAction.
func RandomPolicy(m Model, seed int64) *Policy {
	rng := randutil.New(seed)
	policy := NewPolicy(m.Rows(), m.Cols())
	for _, st := range m.States() {
		policy.Set(st, gridworld.Actions[rng.IntN(len(gridworld.Actions))])
	}
	policy.Set(m.Goal(), gridworld.NoAction)
	return policy
}

// EvaluatePolicy computes the value of following policy by in-place sweeps
// of the fixed-action Bellman backup, starting from zero with the goal at
// GoalValue. It returns the values and the number of sweeps taken.
func EvaluatePolicy(ctx context.Context, m Model, policy *Policy, gamma, theta float64) (*Values, int, error) {
	values := initialValues(m)
	states := m.States()

	sweeps := 0
	for {
		select {
		case <-ctx.Done():
			return nil, sweeps, ctx.Err()
		default:
		}

		delta := 0.0
		for _, st := range states {
			if m.IsGoal(st) {
				continue
			}
			old := values.At(st)
			v := lookahead(m, values, gamma, st, policy.At(st))
			values.Set(st, v)
			delta = math.Max(delta, math.Abs(old-v))
		}
		sweeps++

		if delta < theta {
			return values, sweeps, nil
		}
	}
}
