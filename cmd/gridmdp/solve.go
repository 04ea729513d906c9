package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/gridmdp/cmd/gridmdp/shared"
	"github.com/lox/gridmdp/gridworld"
	"github.com/lox/gridmdp/internal/render"
	"github.com/lox/gridmdp/solver"
)

// SolveCmd runs the solvers and prints their policies.
type SolveCmd struct {
	SolverFlags `embed:""`

	Out      string `type:"path" help:"Directory to write <method>.json results into"`
	Values   bool   `help:"Also draw the value function of each result"`
	Verify   bool   `help:"Compare each result with an exact linear solve of its policy"`
	Debug    bool   `help:"Enable debug logging"`
	JSONLogs bool   `name:"json-logs" help:"Emit structured JSON logs"`
}

func (c *SolveCmd) Run() error {
	logger := shared.NewLogger(shared.LogOptions{Debug: c.Debug, Structured: c.JSONLogs})

	scenario, grid, cfg, err := c.load()
	if err != nil {
		return err
	}
	methods, err := methodsFor(c.Method)
	if err != nil {
		return err
	}

	logger.Info().
		Str("scenario", scenario.Name).
		Int("rows", grid.Rows()).
		Int("cols", grid.Cols()).
		Int("blockages", len(grid.Blockages())).
		Int("tunnels", len(grid.Teleports())).
		Float64("gamma", cfg.Gamma).
		Float64("theta", cfg.Theta).
		Msg("Solving grid world")

	s, err := solver.New(grid, cfg, solver.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := shared.SignalContext(logger)
	defer stop()

	results, err := solveAll(ctx, s, methods, nil)
	if err != nil {
		return err
	}

	renderer := render.New(nil)
	for _, res := range results {
		scene := render.SceneFor(grid, "Optimal Policy - "+res.Method.Title())
		fmt.Fprintln(os.Stdout, renderer.Policy(scene, res.Policy.Grid()))
		if c.Values {
			scene.Title = "State Values - " + res.Method.Title()
			fmt.Fprintln(os.Stdout, renderer.Values(scene, res.Values.Grid()))
		}

		if err := c.report(logger, grid, cfg, res); err != nil {
			return err
		}
	}

	if len(results) == 2 {
		logger.Info().
			Int("disagreements", results[0].Policy.Diff(results[1].Policy)).
			Float64("max_value_gap", results[0].Values.MaxDiff(results[1].Values, grid.Passable)).
			Msg("Compared solvers")
	}
	return nil
}

// solveAll runs each method concurrently. Every run owns its own value and
// policy containers, and the grid is read-only.
func solveAll(ctx context.Context, s *solver.Solver, methods []solver.Method, progress func(solver.Progress)) ([]*solver.Result, error) {
	results := make([]*solver.Result, len(methods))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range methods {
		g.Go(func() error {
			res, err := runMethod(ctx, s, m, progress)
			if err != nil {
				return fmt.Errorf("%s: %w", m, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *SolveCmd) report(logger zerolog.Logger, grid *gridworld.Grid, cfg solver.Config, res *solver.Result) error {
	summary := solver.Summarize(grid, res.Values)
	event := logger.Info().
		Str("method", res.Method.String()).
		Str("run_id", res.RunID).
		Int("iterations", res.Iterations).
		Int("sweeps", res.Sweeps).
		Dur("elapsed", res.Elapsed).
		Float64("mean_value", summary.Mean).
		Float64("stddev", summary.StdDev).
		Float64("min_value", summary.Min).
		Float64("max_value", summary.Max)
	if res.Method == solver.MethodPolicyIteration {
		event = event.Int64("seed", res.Seed)
	}
	event.Msg("Solve finished")

	if c.Verify {
		exact, err := solver.EvaluateExact(grid, res.Policy, cfg.Gamma)
		if err != nil {
			return fmt.Errorf("verify %s: %w", res.Method, err)
		}
		deviation := exact.MaxDiff(res.Values, grid.Passable)
		ev := logger.Info()
		if deviation > cfg.Theta/(1-cfg.Gamma) {
			ev = logger.Warn()
		}
		ev.Str("method", res.Method.String()).
			Float64("max_deviation", deviation).
			Msg("Verified against exact policy evaluation")
	}

	if c.Out != "" {
		path := filepath.Join(c.Out, res.Method.String()+".json")
		if err := res.Save(path); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("Wrote result")
	}
	return nil
}
