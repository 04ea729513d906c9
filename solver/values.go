package solver

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lox/gridmdp/gridworld"
)

// GoalValue is the fixed value of the terminal state.
const GoalValue = 1.0

// Values is a state-value function over a rectangular grid.
type Values struct {
	rows int
	cols int
	data []float64
}

// NewValues returns an all-zero value function.
func NewValues(rows, cols int) *Values {
	return &Values{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// initialValues is zero everywhere except the goal, pinned at GoalValue.
func initialValues(m Model) *Values {
	v := NewValues(m.Rows(), m.Cols())
	v.Set(m.Goal(), GoalValue)
	return v
}

// Rows returns the number of grid rows.
func (v *Values) Rows() int { return v.rows }

// Cols returns the number of grid columns.
func (v *Values) Cols() int { return v.cols }

// At returns the value of p.
func (v *Values) At(p gridworld.Position) float64 {
	return v.data[p.Row*v.cols+p.Col]
}

// Set overwrites the value of p.
func (v *Values) Set(p gridworld.Position, x float64) {
	v.data[p.Row*v.cols+p.Col] = x
}

// Clone returns an independent copy.
func (v *Values) Clone() *Values {
	data := make([]float64, len(v.data))
	copy(data, v.data)
	return &Values{rows: v.rows, cols: v.cols, data: data}
}

// Grid returns the values as rows of columns.
func (v *Values) Grid() [][]float64 {
	out := make([][]float64, v.rows)
	for r := range out {
		out[r] = make([]float64, v.cols)
		copy(out[r], v.data[r*v.cols:(r+1)*v.cols])
	}
	return out
}

// MaxDiff returns the largest absolute difference between v and o over the
// cells accepted by include. A nil include compares every cell.
func (v *Values) MaxDiff(o *Values, include func(gridworld.Position) bool) float64 {
	worst := 0.0
	for i := range v.data {
		p := gridworld.Position{Row: i / v.cols, Col: i % v.cols}
		if include != nil && !include(p) {
			continue
		}
		worst = math.Max(worst, math.Abs(v.data[i]-o.data[i]))
	}
	return worst
}

// MarshalJSON encodes the values as a row-major matrix.
func (v *Values) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Grid())
}

// UnmarshalJSON decodes a row-major matrix.
func (v *Values) UnmarshalJSON(b []byte) error {
	var grid [][]float64
	if err := json.Unmarshal(b, &grid); err != nil {
		return err
	}
	rows, cols, err := matrixShape(len(grid), func(r int) int { return len(grid[r]) })
	if err != nil {
		return fmt.Errorf("values: %w", err)
	}
	*v = *NewValues(rows, cols)
	for r := range grid {
		copy(v.data[r*cols:(r+1)*cols], grid[r])
	}
	return nil
}

func matrixShape(rows int, width func(int) int) (int, int, error) {
	if rows == 0 {
		return 0, 0, fmt.Errorf("empty matrix")
	}
	cols := width(0)
	for r := 1; r < rows; r++ {
		if width(r) != cols {
			return 0, 0, fmt.Errorf("row %d has %d columns, want %d", r, width(r), cols)
		}
	}
	if cols == 0 {
		return 0, 0, fmt.Errorf("empty matrix")
	}
	return rows, cols, nil
}
