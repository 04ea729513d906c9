package solver

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lox/gridmdp/gridworld"
)

// Policy maps each cell to an action. Blockages and the goal hold
// gridworld.NoAction.
type Policy struct {
	rows    int
	cols    int
	actions []gridworld.Action
}

// NewPolicy returns a policy with NoAction everywhere.
func NewPolicy(rows, cols int) *Policy {
	p := &Policy{rows: rows, cols: cols, actions: make([]gridworld.Action, rows*cols)}
	for i := range p.actions {
		p.actions[i] = gridworld.NoAction
	}
	return p
}

// Rows returns the number of grid rows.
func (p *Policy) Rows() int { return p.rows }

// Cols returns the number of grid columns.
func (p *Policy) Cols() int { return p.cols }

// At returns the action chosen in s.
func (p *Policy) At(s gridworld.Position) gridworld.Action {
	return p.actions[s.Row*p.cols+s.Col]
}

// Set assigns the action for s.
func (p *Policy) Set(s gridworld.Position, a gridworld.Action) {
	p.actions[s.Row*p.cols+s.Col] = a
}

// Clone returns an independent copy.
func (p *Policy) Clone() *Policy {
	actions := make([]gridworld.Action, len(p.actions))
	copy(actions, p.actions)
	return &Policy{rows: p.rows, cols: p.cols, actions: actions}
}

// Diff counts the cells where p and o disagree.
func (p *Policy) Diff(o *Policy) int {
	if len(p.actions) != len(o.actions) {
		return max(len(p.actions), len(o.actions))
	}
	n := 0
	for i := range p.actions {
		if p.actions[i] != o.actions[i] {
			n++
		}
	}
	return n
}

// Equal reports element-wise equality.
func (p *Policy) Equal(o *Policy) bool {
	return p.rows == o.rows && p.cols == o.cols && p.Diff(o) == 0
}

// Grid returns the actions as rows of columns.
func (p *Policy) Grid() [][]gridworld.Action {
	out := make([][]gridworld.Action, p.rows)
	for r := range out {
		out[r] = make([]gridworld.Action, p.cols)
		copy(out[r], p.actions[r*p.cols:(r+1)*p.cols])
	}
	return out
}

// MarshalJSON encodes the policy as a matrix of action names.
func (p *Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Grid())
}

// UnmarshalJSON decodes a matrix of action names.
func (p *Policy) UnmarshalJSON(b []byte) error {
	var grid [][]gridworld.Action
	if err := json.Unmarshal(b, &grid); err != nil {
		return err
	}
	rows, cols, err := matrixShape(len(grid), func(r int) int { return len(grid[r]) })
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	*p = *NewPolicy(rows, cols)
	for r := range grid {
		copy(p.actions[r*cols:(r+1)*cols], grid[r])
	}
	return nil
}

// ExtractPolicy builds the greedy policy for v. Each passable non-goal cell
// takes the action with the strictly greatest one-step lookahead, so ties go
// to the earliest action in gridworld.Actions.
func ExtractPolicy(m Model, v *Values, gamma float64) *Policy {
	policy := NewPolicy(m.Rows(), m.Cols())
	for _, s := range m.States() {
		if m.IsGoal(s) || !m.Passable(s) {
			continue
		}
		best := math.Inf(-1)
		choice := gridworld.NoAction
		for _, a := range gridworld.Actions {
			if q := lookahead(m, v, gamma, s, a); q > best {
				best = q
				choice = a
			}
		}
		policy.Set(s, choice)
	}
	return policy
}
