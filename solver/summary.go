package solver

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of values over passable non-goal cells.
type Summary struct {
	States int     `json:"states"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary of v.
func Summarize(m Model, v *Values) Summary {
	xs := make([]float64, 0, m.Size())
	for _, st := range m.States() {
		if m.IsGoal(st) || !m.Passable(st) {
			continue
		}
		xs = append(xs, v.At(st))
	}
	if len(xs) == 0 {
		return Summary{}
	}

	s := Summary{
		States: len(xs),
		Mean:   stat.Mean(xs, nil),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}
