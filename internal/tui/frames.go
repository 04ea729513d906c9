package tui

import (
	"fmt"
	"sync"

	"github.com/lox/gridmdp/gridworld"
	"github.com/lox/gridmdp/solver"
)

// Frame is one snapshot of a solve.
type Frame struct {
	Method  solver.Method
	Label   string
	Values  [][]float64
	Actions [][]gridworld.Action
}

// FrameFromProgress converts a solver progress report into a Frame.
func FrameFromProgress(p solver.Progress) Frame {
	f := Frame{Method: p.Method}
	switch p.Method {
	case solver.MethodPolicyIteration:
		f.Label = fmt.Sprintf("round %d  sweeps %d  changed %d", p.Iteration, p.Sweep, p.Changed)
	default:
		f.Label = fmt.Sprintf("sweep %d  delta %.3g", p.Sweep, p.Delta)
	}
	if p.Values != nil {
		f.Values = p.Values.Grid()
	}
	if p.Policy != nil {
		f.Actions = p.Policy.Grid()
	}
	return f
}

// Recorder collects frames from solver progress callbacks. It is safe to
// share between concurrently running solves.
type Recorder struct {
	mu     sync.Mutex
	frames map[solver.Method][]Frame
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{frames: make(map[solver.Method][]Frame)}
}

// Record is a solver progress callback.
func (r *Recorder) Record(p solver.Progress) {
	f := FrameFromProgress(p)
	r.mu.Lock()
	r.frames[p.Method] = append(r.frames[p.Method], f)
	r.mu.Unlock()
}

// Frames returns the recorded frames, value iteration first.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, 0, len(r.frames[solver.MethodValueIteration])+len(r.frames[solver.MethodPolicyIteration]))
	out = append(out, r.frames[solver.MethodValueIteration]...)
	out = append(out, r.frames[solver.MethodPolicyIteration]...)
	return out
}
