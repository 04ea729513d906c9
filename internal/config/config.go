package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/gridmdp/gridworld"
	"github.com/lox/gridmdp/solver"
)

// Scenario describes a grid world and the solver settings to use on it.
// Coordinates are [row, col] pairs.
type Scenario struct {
	Name      string         `hcl:"name,optional" toml:"name"`
	Rows      int            `hcl:"rows,optional" toml:"rows"`
	Cols      int            `hcl:"cols,optional" toml:"cols"`
	Goal      []int          `hcl:"goal,optional" toml:"goal"`
	Blockages [][]int        `hcl:"blockages,optional" toml:"blockages"`
	Tunnels   []TunnelConfig `hcl:"tunnel,block" toml:"tunnel"`
	Solver    *SolverConfig  `hcl:"solver,block" toml:"solver"`
}

// TunnelConfig is a one-way teleport rule.
type TunnelConfig struct {
	Name string `hcl:"name,label" toml:"name"`
	From []int  `hcl:"from" toml:"from"`
	To   []int  `hcl:"to" toml:"to"`
}

// SolverConfig holds the dynamic-programming parameters. Gamma and Theta are
// pointers so an explicit zero is kept rather than replaced by the default.
type SolverConfig struct {
	Gamma *float64 `hcl:"gamma,optional" toml:"gamma"`
	Theta *float64 `hcl:"theta,optional" toml:"theta"`
	Seed  int64   `hcl:"seed,optional" toml:"seed"`
}

// Default returns the 9x9 tunnel scenario.
func Default() *Scenario {
	return &Scenario{
		Name: "tunnel",
		Rows: 9,
		Cols: 9,
		Goal: []int{8, 8},
		Blockages: [][]int{
			{1, 3}, {2, 3}, {3, 3}, {3, 1}, {3, 2},
			{5, 8}, {5, 7}, {5, 6}, {5, 5}, {6, 5}, {7, 5}, {8, 5},
		},
		Tunnels: []TunnelConfig{
			{Name: "main", From: []int{2, 2}, To: []int{6, 6}},
		},
		Solver: &SolverConfig{
			Gamma: float64Ptr(0.9),
			Theta: float64Ptr(1e-6),
		},
	}
}

// Load reads a scenario from an .hcl or .toml file. An empty path or a
// missing file yields the default scenario.
func Load(path string) (*Scenario, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(src, path)
	case ".toml":
		return ParseTOML(src)
	default:
		return nil, fmt.Errorf("unsupported scenario format %q (want .hcl or .toml)", filepath.Ext(path))
	}
}

// ParseHCL decodes an HCL scenario.
func ParseHCL(src []byte, filename string) (*Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var s Scenario
	diags = gohcl.DecodeBody(file.Body, nil, &s)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return s.finish()
}

// ParseTOML decodes a TOML scenario. Unknown keys are rejected.
func ParseTOML(src []byte) (*Scenario, error) {
	var s Scenario
	md, err := toml.Decode(string(src), &s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown TOML keys: %v", undecoded)
	}
	return s.finish()
}

func (s *Scenario) finish() (*Scenario, error) {
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Rows == 0 {
		s.Rows = 9
	}
	if s.Cols == 0 {
		s.Cols = 9
	}
	if len(s.Goal) == 0 {
		s.Goal = []int{s.Rows - 1, s.Cols - 1}
	}
	if s.Solver == nil {
		s.Solver = &SolverConfig{}
	}
	defaults := solver.DefaultConfig()
	if s.Solver.Gamma == nil {
		s.Solver.Gamma = float64Ptr(defaults.Gamma)
	}
	if s.Solver.Theta == nil {
		s.Solver.Theta = float64Ptr(defaults.Theta)
	}
}

// Validate checks the shape of the scenario. Coordinate placement is checked
// when the grid is built.
func (s *Scenario) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", s.Rows, s.Cols)
	}
	if _, err := cell(s.Goal); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	for i, b := range s.Blockages {
		if _, err := cell(b); err != nil {
			return fmt.Errorf("blockage %d: %w", i, err)
		}
	}
	for _, t := range s.Tunnels {
		if _, err := cell(t.From); err != nil {
			return fmt.Errorf("tunnel %s: from: %w", t.Name, err)
		}
		if _, err := cell(t.To); err != nil {
			return fmt.Errorf("tunnel %s: to: %w", t.Name, err)
		}
	}
	if s.Solver != nil {
		if err := s.SolverConfig().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Build constructs the grid world the scenario describes.
func (s *Scenario) Build() (*gridworld.Grid, error) {
	goal, err := cell(s.Goal)
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}

	blocked := make([]gridworld.Position, 0, len(s.Blockages))
	for _, b := range s.Blockages {
		p, err := cell(b)
		if err != nil {
			return nil, err
		}
		blocked = append(blocked, p)
	}

	opts := []gridworld.Option{gridworld.WithBlockages(blocked...)}
	for _, t := range s.Tunnels {
		from, err := cell(t.From)
		if err != nil {
			return nil, err
		}
		to, err := cell(t.To)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gridworld.WithTeleport(from, to))
	}

	grid, err := gridworld.New(s.Rows, s.Cols, goal, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return grid, nil
}

// SolverConfig converts the solver block into solver parameters.
func (s *Scenario) SolverConfig() solver.Config {
	cfg := solver.DefaultConfig()
	if s.Solver == nil {
		return cfg
	}
	if s.Solver.Gamma != nil {
		cfg.Gamma = *s.Solver.Gamma
	}
	if s.Solver.Theta != nil {
		cfg.Theta = *s.Solver.Theta
	}
	cfg.Seed = s.Solver.Seed
	return cfg
}

// EncodeHCL renders the scenario as an HCL document.
func (s *Scenario) EncodeHCL() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(s, f.Body())
	return f.Bytes()
}

func cell(xy []int) (gridworld.Position, error) {
	if len(xy) != 2 {
		return gridworld.Position{}, fmt.Errorf("coordinate must be [row, col], got %v", xy)
	}
	return gridworld.Pos(xy[0], xy[1]), nil
}

func float64Ptr(v float64) *float64 { return &v }
