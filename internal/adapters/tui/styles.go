package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	option   lipgloss.Style
	selected lipgloss.Style
	header   lipgloss.Style
	cursor   lipgloss.Style
	muted    lipgloss.Style
	dialog   lipgloss.Style
	link     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		option:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		header:   lipgloss.NewStyle().Bold(true).Underline(true),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
		link:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
	}
}
