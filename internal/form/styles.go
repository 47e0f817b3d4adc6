package form

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the form.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Input   lipgloss.Style
	Result  lipgloss.Style
	Status  lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the form's default look.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA")),

		Label: lipgloss.NewStyle().
			Bold(true),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70")).
			Padding(0, 1),

		Result: lipgloss.NewStyle().
			PaddingLeft(2),

		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8")),

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
	}
}
