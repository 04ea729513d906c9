// Package gridworld models a deterministic grid MDP: a rectangle of cells,
// some permanently blocked, with a single terminal goal and optional teleport
// rules that override normal movement.
package gridworld

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrOutOfBounds is returned when a coordinate falls outside the grid.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrBlocked is returned when a cell that must be passable is blocked.
	ErrBlocked = errors.New("position is blocked")
)

// Position is a (row, column) coordinate. Row 0 is the top of the grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// Add applies the action's delta without any bounds or passability checks.
func (p Position) Add(a Action) Position {
	dr, dc := a.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Teleport moves the agent from From to To whatever action it picks.
type Teleport struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Transition describes the outcome of taking Action in From.
type Transition struct {
	From   Position
	Action Action
	// Attempted is the naive destination before clamping. For a teleport it
	// equals To.
	Attempted Position
	To        Position
	// OffGrid is set when Attempted lies outside the grid.
	OffGrid    bool
	Teleported bool
}

// Grid is an immutable environment description. It holds no mutable state,
// so every method is safe for concurrent use.
type Grid struct {
	rows      int
	cols      int
	open      []bool
	goal      Position
	blocked   []Position
	teleports map[Position]Position
}

// Option customises a Grid at construction.
type Option func(*builder)

type builder struct {
	blocked   []Position
	teleports []Teleport
}

// WithBlockages marks the given cells as permanently impassable.
func WithBlockages(cells ...Position) Option {
	return func(b *builder) {
		b.blocked = append(b.blocked, cells...)
	}
}

// WithTeleport installs a rule sending every action taken in from to to.
func WithTeleport(from, to Position) Option {
	return func(b *builder) {
		b.teleports = append(b.teleports, Teleport{From: from, To: to})
	}
}

// New builds a rows x cols grid with the given goal.
func New(rows, cols int, goal Position, opts ...Option) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}

	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	g := &Grid{
		rows:      rows,
		cols:      cols,
		open:      make([]bool, rows*cols),
		goal:      goal,
		teleports: make(map[Position]Position, len(b.teleports)),
	}
	for i := range g.open {
		g.open[i] = true
	}

	if !g.InBounds(goal) {
		return nil, fmt.Errorf("goal %s: %w", goal, ErrOutOfBounds)
	}

	for _, cell := range b.blocked {
		if !g.InBounds(cell) {
			return nil, fmt.Errorf("blockage %s: %w", cell, ErrOutOfBounds)
		}
		if cell == goal {
			return nil, fmt.Errorf("goal %s: %w", goal, ErrBlocked)
		}
		idx := g.Index(cell)
		if !g.open[idx] {
			continue
		}
		g.open[idx] = false
		g.blocked = append(g.blocked, cell)
	}
	sort.Slice(g.blocked, func(i, j int) bool {
		return g.Index(g.blocked[i]) < g.Index(g.blocked[j])
	})

	for _, tp := range b.teleports {
		for _, end := range []Position{tp.From, tp.To} {
			if !g.InBounds(end) {
				return nil, fmt.Errorf("teleport %s->%s: %w", tp.From, tp.To, ErrOutOfBounds)
			}
			if !g.Passable(end) {
				return nil, fmt.Errorf("teleport %s->%s: endpoint %s: %w", tp.From, tp.To, end, ErrBlocked)
			}
		}
		if tp.From == goal {
			return nil, fmt.Errorf("teleport entry %s cannot be the goal", tp.From)
		}
		if _, dup := g.teleports[tp.From]; dup {
			return nil, fmt.Errorf("duplicate teleport entry %s", tp.From)
		}
		g.teleports[tp.From] = tp.To
	}

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns the number of states, blocked cells included.
func (g *Grid) Size() int { return g.rows * g.cols }

// Goal returns the terminal state.
func (g *Grid) Goal() Position { return g.goal }

// IsGoal reports whether p is the terminal state.
func (g *Grid) IsGoal(p Position) bool { return p == g.goal }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Passable reports whether p is inside the grid and not blocked.
func (g *Grid) Passable(p Position) bool {
	return g.InBounds(p) && g.open[g.Index(p)]
}

// Index maps p to its row-major offset. p must be in bounds.
func (g *Grid) Index(p Position) int {
	return p.Row*g.cols + p.Col
}

// Position is the inverse of Index.
func (g *Grid) Position(idx int) Position {
	return Position{Row: idx / g.cols, Col: idx % g.cols}
}

// States lists every cell in row-major order.
func (g *Grid) States() []Position {
	states := make([]Position, 0, g.Size())
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			states = append(states, Position{Row: r, Col: c})
		}
	}
	return states
}

// Blockages returns the blocked cells in row-major order.
func (g *Grid) Blockages() []Position {
	out := make([]Position, len(g.blocked))
	copy(out, g.blocked)
	return out
}

// Teleports returns the teleport rules ordered by entry cell.
func (g *Grid) Teleports() []Teleport {
	out := make([]Teleport, 0, len(g.teleports))
	for from, to := range g.teleports {
		out = append(out, Teleport{From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool {
		return g.Index(out[i].From) < g.Index(out[j].From)
	})
	return out
}

// Move resolves taking a in p. A teleport entry sends the agent to its exit
// regardless of a. Otherwise a destination off the grid or inside a blockage
// leaves the agent where it was.
func (g *Grid) Move(p Position, a Action) Transition {
	t := Transition{From: p, Action: a}
	if exit, ok := g.teleports[p]; ok {
		t.Attempted = exit
		t.To = exit
		t.Teleported = true
		return t
	}

	t.Attempted = p.Add(a)
	t.OffGrid = !g.InBounds(t.Attempted)
	if t.OffGrid || !g.Passable(t.Attempted) {
		t.To = p
		return t
	}
	t.To = t.Attempted
	return t
}

// Step returns the state reached by taking a in p.
func (g *Grid) Step(p Position, a Action) Position {
	return g.Move(p, a).To
}

// Reward scores a transition: -1 for trying to leave the grid, 1 for
// arriving at the goal and 0 otherwise. Walking into an interior blockage is
// not penalised.
func (g *Grid) Reward(t Transition) float64 {
	if t.To == t.From && t.OffGrid {
		return -1.0
	}
	if t.To == g.goal {
		return 1.0
	}
	return 0.0
}
