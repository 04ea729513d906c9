package solver

import (
	"context"
	"math"

	"github.com/lox/gridmdp/gridworld"
)

// ValueIteration sweeps every non-goal state with the Bellman optimality
// backup, updating values in place, until the largest change in a sweep
// falls below theta. The greedy policy of the converged values is returned
// with them. Only context cancellation ends the loop early.
func (s *Solver) ValueIteration(ctx context.Context, progress func(Progress)) (*Result, error) {
	start := s.clock.Now()
	values := initialValues(s.model)
	states := s.model.States()
	gamma := s.cfg.Gamma

	sweep := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		delta := 0.0
		for _, st := range states {
			if s.model.IsGoal(st) {
				continue
			}
			old := values.At(st)
			best := math.Inf(-1)
			for _, a := range gridworld.Actions {
				best = math.Max(best, lookahead(s.model, values, gamma, st, a))
			}
			values.Set(st, best)
			delta = math.Max(delta, math.Abs(old-best))
		}
		sweep++

		s.logger.Debug().
			Str("method", MethodValueIteration.String()).
			Int("sweep", sweep).
			Float64("delta", delta).
			Msg("sweep complete")

		if progress != nil {
			snapshot := values.Clone()
			progress(Progress{
				Method: MethodValueIteration,
				Sweep:  sweep,
				Delta:  delta,
				Values: snapshot,
				Policy: s.Extract(snapshot),
			})
		}

		if delta < s.cfg.Theta {
			break
		}
	}

	res := s.newResult(MethodValueIteration, start, values, s.Extract(values))
	res.Sweeps = sweep
	res.Iterations = sweep

	s.logger.Info().
		Str("method", MethodValueIteration.String()).
		Int("sweeps", sweep).
		Dur("elapsed", res.Elapsed).
		Msg("converged")
	return res, nil
}
