package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// EvaluateExact solves the Bellman expectation equations for policy directly
// as the linear system (I - gamma*P) V = R, with the goal row pinned to
// GoalValue. It is the reference the iterative evaluation approximates.
func EvaluateExact(m Model, policy *Policy, gamma float64) (*Values, error) {
	n := m.Size()
	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)

	for _, st := range m.States() {
		i := m.Index(st)
		a.Set(i, i, 1)
		if m.IsGoal(st) {
			b.SetVec(i, GoalValue)
			continue
		}
		t := m.Move(st, policy.At(st))
		j := m.Index(t.To)
		a.Set(i, j, a.At(i, j)-gamma)
		b.SetVec(i, m.Reward(t))
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("solve bellman system: %w", err)
	}

	values := NewValues(m.Rows(), m.Cols())
	for _, st := range m.States() {
		values.Set(st, x.AtVec(m.Index(st)))
	}
	return values, nil
}
