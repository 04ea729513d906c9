// Package tui is an interactive viewer that steps through the sweeps of a
// solve.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/gridmdp/internal/render"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 3 // header, status and help lines
)

// Model is the Bubble Tea model for the sweep viewer.
type Model struct {
	scene    render.Scene
	frames   []Frame
	renderer *render.Renderer
	logger   *log.Logger

	viewport   viewport.Model
	index      int
	showValues bool
	quitting   bool

	width  int
	height int
}

// New builds a viewer over frames, starting at the first one.
func New(scene render.Scene, frames []Frame, renderer *render.Renderer, logger *log.Logger) *Model {
	if renderer == nil {
		renderer = render.New(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{
		scene:    scene,
		frames:   frames,
		renderer: renderer,
		logger:   logger,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "right", "l", "n":
			m.seek(m.index + 1)
		case "left", "h", "p":
			m.seek(m.index - 1)
		case "home", "g":
			m.seek(0)
		case "end", "G":
			m.seek(len(m.frames) - 1)
		case "tab":
			m.seek(m.nextMethodStart())
		case "v":
			m.showValues = !m.showValues
			m.logger.Debug("Toggled view", "values", m.showValues)
			m.refresh()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.frames) == 0 {
		return HeaderStyle.Render("No frames recorded") + "\n"
	}

	f := m.frames[m.index]
	header := HeaderStyle.Render(f.Method.Title())
	status := StatusStyle.Render(fmt.Sprintf("frame %d/%d  %s", m.index+1, len(m.frames), f.Label))
	if m.isLastOfMethod() {
		status += " " + ConvergedStyle.Render("converged")
	}
	help := HelpStyle.Render("←/→ step  home/end jump  tab switch method  v values/policy  q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, status, m.viewport.View(), help)
}

// Index returns the current frame position.
func (m *Model) Index() int {
	return m.index
}

// ShowingValues reports whether the value view is active.
func (m *Model) ShowingValues() bool {
	return m.showValues
}

func (m *Model) seek(i int) {
	if len(m.frames) == 0 {
		return
	}
	i = max(0, min(i, len(m.frames)-1))
	if i == m.index {
		return
	}
	m.index = i
	m.logger.Debug("Showing frame", "index", i, "method", m.frames[i].Method.String())
	m.refresh()
}

func (m *Model) refresh() {
	if len(m.frames) == 0 {
		m.viewport.SetContent("")
		return
	}
	f := m.frames[m.index]
	scene := m.scene
	scene.Title = ""

	var content string
	if m.showValues && f.Values != nil {
		content = m.renderer.Values(scene, f.Values)
	} else {
		content = m.renderer.Policy(scene, f.Actions)
	}
	m.viewport.SetContent(strings.TrimRight(content, "\n"))
}

// nextMethodStart returns the first frame of the next method, wrapping
// around to the start.
func (m *Model) nextMethodStart() int {
	current := m.frames[m.index].Method
	for i := m.index + 1; i < len(m.frames); i++ {
		if m.frames[i].Method != current {
			return i
		}
	}
	return 0
}

func (m *Model) isLastOfMethod() bool {
	next := m.index + 1
	return next == len(m.frames) || m.frames[next].Method != m.frames[m.index].Method
}
