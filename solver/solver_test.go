package solver_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/gridmdp/gridworld"
	"github.com/lox/gridmdp/internal/config"
	"github.com/lox/gridmdp/solver"
)

func tunnelGrid(t *testing.T) *gridworld.Grid {
	t.Helper()
	grid, err := config.Default().Build()
	require.NoError(t, err)
	return grid
}

func newSolver(t *testing.T, grid *gridworld.Grid, seed int64, opts ...solver.Option) *solver.Solver {
	t.Helper()
	cfg := solver.DefaultConfig()
	cfg.Seed = seed
	s, err := solver.New(grid, cfg, opts...)
	require.NoError(t, err)
	return s
}

func passable(grid *gridworld.Grid) func(gridworld.Position) bool {
	return func(p gridworld.Position) bool {
		return grid.Passable(p)
	}
}

func TestValueIterationPinsGoal(t *testing.T) {
	grid := tunnelGrid(t)
	res, err := newSolver(t, grid, 1).ValueIteration(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Values.At(grid.Goal()))
	assert.Equal(t, solver.MethodValueIteration, res.Method)
	assert.Positive(t, res.Sweeps)
	assert.Equal(t, res.Sweeps, res.Iterations)
	assert.NotEmpty(t, res.RunID)
}

func TestValueIterationKnownValues(t *testing.T) {
	grid := tunnelGrid(t)
	res, err := newSolver(t, grid, 1).ValueIteration(context.Background(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.9, res.Values.At(gridworld.Pos(7, 8)), 1e-9)
	assert.InDelta(t, 1.9, res.Values.At(gridworld.Pos(8, 7)), 1e-9)
	assert.InDelta(t, 0.9*1.9, res.Values.At(gridworld.Pos(7, 7)), 1e-9)

	exit := res.Values.At(gridworld.Pos(6, 6))
	assert.InDelta(t, 1.9*math.Pow(0.9, 3), exit, 1e-9)
	assert.InDelta(t, 0.9*exit, res.Values.At(gridworld.Pos(2, 2)), 1e-9)
}

func TestBothSolversStepIntoGoal(t *testing.T) {
	grid := tunnelGrid(t)
	s := newSolver(t, grid, 99)

	vi, err := s.ValueIteration(context.Background(), nil)
	require.NoError(t, err)
	pi, err := s.PolicyIteration(context.Background(), nil)
	require.NoError(t, err)

	for _, res := range []*solver.Result{vi, pi} {
		assert.Equal(t, gridworld.Down, res.Policy.At(gridworld.Pos(7, 8)), res.Method.String())
		assert.Equal(t, gridworld.Right, res.Policy.At(gridworld.Pos(8, 7)), res.Method.String())
	}
}

func TestSentinelCells(t *testing.T) {
	grid := tunnelGrid(t)
	s := newSolver(t, grid, 3)

	vi, err := s.ValueIteration(context.Background(), nil)
	require.NoError(t, err)
	pi, err := s.PolicyIteration(context.Background(), nil)
	require.NoError(t, err)

	for _, res := range []*solver.Result{vi, pi} {
		assert.Equal(t, gridworld.NoAction, res.Policy.At(grid.Goal()))
		for _, b := range grid.Blockages() {
			assert.Equal(t, gridworld.NoAction, res.Policy.At(b), "blockage %s", b)
		}
		for _, st := range grid.States() {
			if grid.Passable(st) && !grid.IsGoal(st) {
				assert.True(t, res.Policy.At(st).Valid(), "state %s", st)
			}
		}
	}
}

func TestPolicyIterationMatchesValueIteration(t *testing.T) {
	grid := tunnelGrid(t)

	for _, seed := range []int64{1, 2, 3, 42, 1234} {
		s := newSolver(t, grid, seed)

		vi, err := s.ValueIteration(context.Background(), nil)
		require.NoError(t, err)
		pi, err := s.PolicyIteration(context.Background(), nil)
		require.NoError(t, err)

		assert.Less(t, pi.Iterations, 50, "seed %d", seed)
		assert.Equal(t, seed, pi.Seed)

		exact, err := solver.EvaluateExact(grid, pi.Policy, s.Config().Gamma)
		require.NoError(t, err)
		assert.Less(t, exact.MaxDiff(vi.Values, passable(grid)), 1e-4, "seed %d", seed)
		assert.Less(t, pi.Values.MaxDiff(vi.Values, passable(grid)), 1e-4, "seed %d", seed)
	}
}

func TestPolicyIterationReproducibleWithSeed(t *testing.T) {
	grid := tunnelGrid(t)

	a, err := newSolver(t, grid, 7).PolicyIteration(context.Background(), nil)
	require.NoError(t, err)
	b, err := newSolver(t, grid, 7).PolicyIteration(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, a.Policy.Equal(b.Policy))
	assert.Equal(t, a.Iterations, b.Iterations)
	assert.Equal(t, a.Sweeps, b.Sweeps)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestPolicyIterationTimeSeed(t *testing.T) {
	grid := tunnelGrid(t)
	res, err := newSolver(t, grid, 0).PolicyIteration(context.Background(), nil)
	require.NoError(t, err)
	assert.NotZero(t, res.Seed, "the resolved seed is recorded")
}

func TestPolicyIterationSeedFromClock(t *testing.T) {
	grid := tunnelGrid(t)
	clk := quartz.NewMock(t)
	s := newSolver(t, grid, 0, solver.WithClock(clk))

	res, err := s.PolicyIteration(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().UnixNano(), res.Seed)

	again, err := newSolver(t, grid, res.Seed).PolicyIteration(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.Policy.Equal(again.Policy))
	assert.Equal(t, res.Iterations, again.Iterations)
}

func TestExtractionIsIdempotent(t *testing.T) {
	grid := tunnelGrid(t)
	s := newSolver(t, grid, 5)

	vi, err := s.ValueIteration(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, s.Extract(vi.Values).Equal(vi.Policy))

	pi, err := s.PolicyIteration(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, s.Extract(pi.Values).Equal(pi.Policy))
}

func TestExtractBreaksTiesInEnumerationOrder(t *testing.T) {
	grid := tunnelGrid(t)
	flat := solver.NewValues(grid.Rows(), grid.Cols())

	policy := solver.ExtractPolicy(grid, flat, 0.9)
	// Every move scores zero except leaving the grid, so Up wins unless it
	// is the move that leaves.
	assert.Equal(t, gridworld.Up, policy.At(gridworld.Pos(4, 4)))
	assert.Equal(t, gridworld.Down, policy.At(gridworld.Pos(0, 4)))
	assert.Equal(t, gridworld.Up, policy.At(gridworld.Pos(2, 2)), "all tunnel moves tie")
}

func TestProgressReportsEverySweep(t *testing.T) {
	grid := tunnelGrid(t)
	s := newSolver(t, grid, 11)

	var reports []solver.Progress
	res, err := s.ValueIteration(context.Background(), func(p solver.Progress) {
		reports = append(reports, p)
	})
	require.NoError(t, err)
	require.Len(t, reports, res.Sweeps)

	last := reports[len(reports)-1]
	assert.Less(t, last.Delta, s.Config().Theta)
	assert.Equal(t, 0, last.Iteration)
	assert.True(t, last.Policy.Equal(res.Policy))

	reports = nil
	res, err = s.PolicyIteration(context.Background(), func(p solver.Progress) {
		reports = append(reports, p)
	})
	require.NoError(t, err)
	require.Len(t, reports, res.Iterations)
	assert.Equal(t, 0, reports[len(reports)-1].Changed)
	assert.Equal(t, res.Sweeps, reports[len(reports)-1].Sweep)
}

func TestCancelledContextStopsSolve(t *testing.T) {
	grid := tunnelGrid(t)
	s := newSolver(t, grid, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ValueIteration(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.PolicyIteration(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClockStampsResult(t *testing.T) {
	grid := tunnelGrid(t)
	clk := quartz.NewMock(t)
	s := newSolver(t, grid, 1, solver.WithClock(clk))

	res, err := s.ValueIteration(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, clk.Now().Equal(res.GeneratedAt))
	assert.Zero(t, res.Elapsed)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		gamma float64
		theta float64
		ok    bool
	}{
		{"defaults", 0.9, 1e-6, true},
		{"zero gamma", 0, 1e-6, true},
		{"gamma of one", 1, 1e-6, false},
		{"negative gamma", -0.1, 1e-6, false},
		{"nan gamma", math.NaN(), 1e-6, false},
		{"zero theta", 0.9, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := solver.Config{Gamma: tt.gamma, Theta: tt.theta}.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, solver.ErrInvalidConfig)
			}
		})
	}

	_, err := solver.New(tunnelGrid(t), solver.Config{Gamma: 1, Theta: 1e-6})
	assert.ErrorIs(t, err, solver.ErrInvalidConfig)
}

func TestParseMethod(t *testing.T) {
	m, err := solver.ParseMethod("value")
	require.NoError(t, err)
	assert.Equal(t, solver.MethodValueIteration, m)

	m, err = solver.ParseMethod("policy-iteration")
	require.NoError(t, err)
	assert.Equal(t, solver.MethodPolicyIteration, m)

	_, err = solver.ParseMethod("q-learning")
	assert.Error(t, err)
}

func TestResultRoundTrip(t *testing.T) {
	grid := tunnelGrid(t)
	res, err := newSolver(t, grid, 21).PolicyIteration(context.Background(), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "policy.json")
	require.NoError(t, res.Save(path))

	loaded, err := solver.LoadResult(path)
	require.NoError(t, err)

	assert.Equal(t, res.RunID, loaded.RunID)
	assert.Equal(t, res.Method, loaded.Method)
	assert.Equal(t, res.Seed, loaded.Seed)
	assert.True(t, res.GeneratedAt.Equal(loaded.GeneratedAt))
	assert.True(t, res.Policy.Equal(loaded.Policy))
	assert.Equal(t, res.Values.Grid(), loaded.Values.Grid())
}

func TestLoadResultRejectsMissingFile(t *testing.T) {
	_, err := solver.LoadResult(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
