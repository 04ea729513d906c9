// Package render draws policies and value functions as terminal grids.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/gridmdp/gridworld"
)

const (
	// GlyphBlocked fills a blockage.
	GlyphBlocked = "█"
	// GlyphGoal marks the terminal state.
	GlyphGoal = "◎"
	// GlyphOpen marks a passable cell with no action to draw.
	GlyphOpen = "·"
	// GlyphTunnelIn marks a teleport entry when no policy is drawn.
	GlyphTunnelIn = "◆"
	// GlyphTunnelOut marks a teleport exit when no policy is drawn.
	GlyphTunnelOut = "◇"

	cellPadding     = " "
	valueCellFormat = "%6.2f"
)

// Scene is the static scenario metadata a drawing needs.
type Scene struct {
	Title     string
	Rows      int
	Cols      int
	Goal      gridworld.Position
	Blockages []gridworld.Position
	Teleports []gridworld.Teleport
}

// SceneFor captures the metadata of g under the given title.
func SceneFor(g *gridworld.Grid, title string) Scene {
	return Scene{
		Title:     title,
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Goal:      g.Goal(),
		Blockages: g.Blockages(),
		Teleports: g.Teleports(),
	}
}

type cellKind uint8

const (
	cellOpen cellKind = iota
	cellBlocked
	cellGoal
	cellTunnelIn
	cellTunnelOut
)

func (s Scene) kinds() [][]cellKind {
	kinds := make([][]cellKind, s.Rows)
	for r := range kinds {
		kinds[r] = make([]cellKind, s.Cols)
	}
	set := func(p gridworld.Position, k cellKind) {
		if p.Row >= 0 && p.Row < s.Rows && p.Col >= 0 && p.Col < s.Cols {
			kinds[p.Row][p.Col] = k
		}
	}
	for _, tp := range s.Teleports {
		set(tp.To, cellTunnelOut)
		set(tp.From, cellTunnelIn)
	}
	for _, b := range s.Blockages {
		set(b, cellBlocked)
	}
	set(s.Goal, cellGoal)
	return kinds
}

// Arrow returns the glyph for an action.
func Arrow(a gridworld.Action) string {
	switch a {
	case gridworld.Up:
		return "↑"
	case gridworld.Down:
		return "↓"
	case gridworld.Right:
		return "→"
	case gridworld.Left:
		return "←"
	default:
		return GlyphOpen
	}
}

// Glyphs returns the unstyled symbol for every cell: blockages and the goal
// get fixed glyphs, every other cell the arrow of its action. actions may be
// nil or smaller than the scene, in which case tunnel markers and GlyphOpen
// fill the gaps.
func Glyphs(scene Scene, actions [][]gridworld.Action) [][]string {
	kinds := scene.kinds()
	out := make([][]string, scene.Rows)
	for r := range out {
		out[r] = make([]string, scene.Cols)
		for c := range out[r] {
			switch kinds[r][c] {
			case cellBlocked:
				out[r][c] = GlyphBlocked
				continue
			case cellGoal:
				out[r][c] = GlyphGoal
				continue
			}
			if r < len(actions) && c < len(actions[r]) {
				out[r][c] = Arrow(actions[r][c])
				continue
			}
			switch kinds[r][c] {
			case cellTunnelIn:
				out[r][c] = GlyphTunnelIn
			case cellTunnelOut:
				out[r][c] = GlyphTunnelOut
			default:
				out[r][c] = GlyphOpen
			}
		}
	}
	return out
}

// Renderer turns scenes into styled strings.
type Renderer struct {
	styles Styles
}

// New returns a Renderer bound to r. A nil r uses the default renderer
// attached to stdout.
func New(r *lipgloss.Renderer) *Renderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Renderer{styles: newStyles(r)}
}

// NewPlain returns a Renderer that emits no colour or text attributes.
func NewPlain() *Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return New(r)
}

// Styles exposes the styles in use.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Policy draws the action field of a policy with blockage, goal and tunnel
// highlighting.
func (r *Renderer) Policy(scene Scene, actions [][]gridworld.Action) string {
	glyphs := Glyphs(scene, actions)
	kinds := scene.kinds()

	var b strings.Builder
	for row := range glyphs {
		for col, g := range glyphs[row] {
			b.WriteString(r.cellStyle(kinds[row][col]).Render(cellPadding + g + cellPadding))
		}
		if row < len(glyphs)-1 {
			b.WriteByte('\n')
		}
	}
	return r.compose(scene, b.String())
}

// Layout draws the scenario without any policy.
func (r *Renderer) Layout(scene Scene) string {
	return r.Policy(scene, nil)
}

// Values draws a value function as a heat map of formatted numbers.
func (r *Renderer) Values(scene Scene, values [][]float64) string {
	kinds := scene.kinds()

	lo, hi := math.Inf(1), math.Inf(-1)
	for row := range values {
		for col, v := range values[row] {
			if row >= scene.Rows || col >= scene.Cols || kinds[row][col] == cellBlocked {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	cellWidth := lipgloss.Width(fmt.Sprintf(valueCellFormat, 0.0))
	blank := strings.Repeat(GlyphBlocked, cellWidth)
	var b strings.Builder
	for row := 0; row < scene.Rows; row++ {
		for col := 0; col < scene.Cols; col++ {
			switch {
			case kinds[row][col] == cellBlocked:
				b.WriteString(r.styles.Blocked.Render(cellPadding + blank))
			case row < len(values) && col < len(values[row]):
				v := values[row][col]
				style := r.cellStyle(kinds[row][col])
				if kinds[row][col] == cellOpen {
					style = style.Foreground(lipgloss.Color(heatColor(v, lo, hi)))
				}
				b.WriteString(style.Render(cellPadding + fmt.Sprintf(valueCellFormat, v)))
			default:
				b.WriteString(cellPadding + strings.Repeat(" ", cellWidth))
			}
		}
		if row < scene.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return r.compose(scene, b.String())
}

func (r *Renderer) compose(scene Scene, grid string) string {
	parts := make([]string, 0, 3)
	if scene.Title != "" {
		parts = append(parts, r.styles.Title.Render(scene.Title))
	}
	parts = append(parts, r.styles.Frame.Render(grid), r.styles.Legend.Render(legend(scene)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Renderer) cellStyle(k cellKind) lipgloss.Style {
	switch k {
	case cellBlocked:
		return r.styles.Blocked
	case cellGoal:
		return r.styles.Goal
	case cellTunnelIn:
		return r.styles.TunnelIn
	case cellTunnelOut:
		return r.styles.TunnelOut
	default:
		return r.styles.Cell
	}
}

func legend(scene Scene) string {
	parts := []string{
		GlyphBlocked + " blockage",
		GlyphGoal + " goal " + scene.Goal.String(),
	}
	for _, tp := range scene.Teleports {
		parts = append(parts, fmt.Sprintf("tunnel %s %s %s", tp.From, Arrow(gridworld.Right), tp.To))
	}
	return strings.Join(parts, "   ")
}

func heatColor(v, lo, hi float64) string {
	if hi <= lo || math.IsNaN(v) {
		return heatPalette[len(heatPalette)-1]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(heatPalette)-1))
	return heatPalette[max(0, min(idx, len(heatPalette)-1))]
}
