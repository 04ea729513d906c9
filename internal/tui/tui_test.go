package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/gridmdp/gridworld"
	"github.com/lox/gridmdp/internal/render"
	"github.com/lox/gridmdp/solver"
)

func testScene() render.Scene {
	return render.Scene{
		Rows: 2,
		Cols: 2,
		Goal: gridworld.Pos(1, 1),
	}
}

func testFrames() []Frame {
	actions := [][]gridworld.Action{
		{gridworld.Right, gridworld.Down},
		{gridworld.Right, gridworld.NoAction},
	}
	values := [][]float64{{1.54, 1.71}, {1.71, 1.0}}
	return []Frame{
		{Method: solver.MethodValueIteration, Label: "sweep 1", Values: values, Actions: actions},
		{Method: solver.MethodValueIteration, Label: "sweep 2", Values: values, Actions: actions},
		{Method: solver.MethodPolicyIteration, Label: "round 1", Values: values, Actions: actions},
	}
}

func newTestModel(frames []Frame) *Model {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	return New(testScene(), frames, render.NewPlain(), logger)
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	m := newTestModel(testFrames())
	assert.Equal(t, 0, m.Index())

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Index())

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.Index(), "stepping stops at the last frame")

	press(m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.Index())

	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.Index(), "stepping stops at the first frame")

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 2, m.Index(), "tab jumps to the next method")

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.Index(), "tab wraps around")

	press(m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 2, m.Index())
}

func TestToggleValues(t *testing.T) {
	m := newTestModel(testFrames())
	assert.Contains(t, m.View(), "→")

	press(m, runes("v"))
	assert.True(t, m.ShowingValues())
	assert.Contains(t, m.View(), "1.71")
}

func TestViewShowsStatus(t *testing.T) {
	m := newTestModel(testFrames())
	view := m.View()
	assert.Contains(t, view, "Value Iteration")
	assert.Contains(t, view, "frame 1/3")
	assert.NotContains(t, view, "converged")

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "converged")
}

func TestQuit(t *testing.T) {
	m := newTestModel(testFrames())
	cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(testFrames())
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)
}

func TestEmptyFrames(t *testing.T) {
	m := newTestModel(nil)
	assert.Contains(t, m.View(), "No frames recorded")
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.Index())
}

func TestRecorderOrdersMethods(t *testing.T) {
	g, err := gridworld.New(2, 2, gridworld.Pos(1, 1))
	require.NoError(t, err)

	r := NewRecorder()
	pol := solver.NewPolicy(2, 2)
	r.Record(solver.Progress{Method: solver.MethodPolicyIteration, Iteration: 1, Sweep: 4, Values: solver.NewValues(2, 2), Policy: pol})
	r.Record(solver.Progress{Method: solver.MethodValueIteration, Sweep: 1, Delta: 0.5, Values: solver.NewValues(2, 2), Policy: pol})

	frames := r.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, solver.MethodValueIteration, frames[0].Method)
	assert.Equal(t, "sweep 1  delta 0.5", frames[0].Label)
	assert.Equal(t, "round 1  sweeps 4  changed 0", frames[1].Label)
	assert.Len(t, frames[1].Actions, g.Rows())
}
