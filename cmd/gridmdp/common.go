package main

import (
	"context"
	"fmt"

	"github.com/lox/gridmdp/gridworld"
	"github.com/lox/gridmdp/internal/config"
	"github.com/lox/gridmdp/solver"
)

// SolverFlags are the solver parameters shared by the solve and watch commands.
type SolverFlags struct {
	Config string   `short:"c" type:"path" help:"Scenario file (.hcl or .toml); the built-in tunnel grid when omitted"`
	Method string   `short:"m" enum:"value,policy,both" default:"both" help:"Solver to run (value|policy|both)"`
	Gamma  *float64 `help:"Discount factor, overrides the scenario (0 <= gamma < 1)"`
	Theta  *float64 `help:"Convergence threshold, overrides the scenario"`
	Seed   *int64   `help:"Seed for the random initial policy (optional)"`
}

// load resolves the scenario, grid and solver config with flag overrides applied.
func (f SolverFlags) load() (*config.Scenario, *gridworld.Grid, solver.Config, error) {
	scenario, err := config.Load(f.Config)
	if err != nil {
		return nil, nil, solver.Config{}, fmt.Errorf("load scenario: %w", err)
	}
	grid, err := scenario.Build()
	if err != nil {
		return nil, nil, solver.Config{}, err
	}

	cfg := scenario.SolverConfig()
	if f.Gamma != nil {
		cfg.Gamma = *f.Gamma
	}
	if f.Theta != nil {
		cfg.Theta = *f.Theta
	}
	if f.Seed != nil {
		cfg.Seed = *f.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, solver.Config{}, err
	}
	return scenario, grid, cfg, nil
}

func methodsFor(name string) ([]solver.Method, error) {
	switch name {
	case "", "both":
		return []solver.Method{solver.MethodValueIteration, solver.MethodPolicyIteration}, nil
	default:
		m, err := solver.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		return []solver.Method{m}, nil
	}
}

func runMethod(ctx context.Context, s *solver.Solver, m solver.Method, progress func(solver.Progress)) (*solver.Result, error) {
	switch m {
	case solver.MethodValueIteration:
		return s.ValueIteration(ctx, progress)
	case solver.MethodPolicyIteration:
		return s.PolicyIteration(ctx, progress)
	default:
		return nil, fmt.Errorf("unsupported method %s", m)
	}
}
