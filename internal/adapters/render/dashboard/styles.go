package dashboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	balance   lipgloss.Style
	pending   lipgloss.Style
	detail    lipgloss.Style
	warning   lipgloss.Style
	status    lipgloss.Style
	countdown lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	saleTime  lipgloss.Style
	saleItem  lipgloss.Style
	saleAgent lipgloss.Style
	amount    lipgloss.Style
	help      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		balance:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		countdown: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		saleTime:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		saleItem:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		saleAgent: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		amount:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		help:      lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}
