package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Leaderboard"))
	b.WriteString("\n\n")
	b.WriteString(m.renderOptions())
	b.WriteString("\n\n")

	switch {
	case m.snap.ConfigLoading || m.snap.LeaderboardLoading:
		b.WriteString(m.spinner.View() + " Loading…")
	case m.snap.Empty:
		b.WriteString(m.styles.muted.Render("No data found"))
	default:
		b.WriteString(m.renderTable())
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Page %d of %d  %s", m.snap.Pagination.Page, m.snap.Pagination.TotalPages, m.pager.View()))
	}
	b.WriteString("\n\n")

	if m.snap.Dialog.Open {
		b.WriteString(m.renderDialog())
		b.WriteString("\n\n")
		b.WriteString(m.renderHelp(m.keys.dialogHelp()))
	} else {
		b.WriteString(m.renderHelp(m.keys.boardHelp()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderOptions() string {
	if len(m.snap.Options) == 0 {
		return m.styles.muted.Render("no milestones")
	}
	parts := make([]string, len(m.snap.Options))
	for i, o := range m.snap.Options {
		if o.Selected {
			parts[i] = m.styles.selected.Render(o.Label)
		} else {
			parts[i] = m.styles.option.Render(o.Label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderTable() string {
	lines := []string{m.styles.header.Render(fmt.Sprintf("  %-4s %-24s %-8s %-12s %s", "#", "Name", "Passed", "Time", "Share"))}
	for i, r := range m.snap.Rows {
		shareable := "-"
		if r.TxID != "" {
			shareable = "yes"
		}
		line := fmt.Sprintf("%-4d %-24s %-8s %-12s %s", r.Rank, r.Name, fmt.Sprintf("%d/%d", r.Passed, r.Total), r.TotalTime, shareable)
		if i == m.cursor {
			lines = append(lines, m.styles.cursor.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDialog() string {
	body := m.qrText
	if body != "" {
		body += "\n"
	}
	body += m.styles.link.Render(m.snap.Dialog.Target)
	return m.styles.dialog.Render(body)
}

func (m Model) renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.muted.Render(strings.Join(parts, " • "))
}
