package solver

import "github.com/lox/gridmdp/gridworld"

// Model is the environment surface the solvers need. *gridworld.Grid
// satisfies it.
type Model interface {
	Rows() int
	Cols() int
	Size() int
	Index(gridworld.Position) int
	States() []gridworld.Position
	Goal() gridworld.Position
	IsGoal(gridworld.Position) bool
	Passable(gridworld.Position) bool
	Move(gridworld.Position, gridworld.Action) gridworld.Transition
	Reward(gridworld.Transition) float64
}

// lookahead is the one-step Bellman backup for a single action.
func lookahead(m Model, v *Values, gamma float64, s gridworld.Position, a gridworld.Action) float64 {
	t := m.Move(s, a)
	return m.Reward(t) + gamma*v.At(t.To)
}
