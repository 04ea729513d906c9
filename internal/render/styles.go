package render

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used for grid output.
type Styles struct {
	Title     lipgloss.Style
	Frame     lipgloss.Style
	Cell      lipgloss.Style
	Blocked   lipgloss.Style
	Goal      lipgloss.Style
	TunnelIn  lipgloss.Style
	TunnelOut lipgloss.Style
	Legend    lipgloss.Style
}

// heatPalette runs from the lowest to the highest value.
var heatPalette = []string{"#313695", "#4575B4", "#74ADD1", "#FEE090", "#F46D43", "#A50026"}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Frame: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")),
		Cell: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Blocked: r.NewStyle().
			Foreground(lipgloss.Color("#3C3C3C")),
		Goal: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		TunnelIn: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#C0392B")).
			Bold(true),
		TunnelOut: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E86C1")).
			Bold(true),
		Legend: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}
