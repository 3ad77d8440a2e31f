package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	prevPage      key.Binding
	nextPage      key.Binding
	nextMilestone key.Binding
	prevMilestone key.Binding
	up            key.Binding
	down          key.Binding
	share         key.Binding
	closeDialog   key.Binding
	quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		prevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		nextMilestone: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next milestone"),
		),
		prevMilestone: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev milestone"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		share: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "share"),
		),
		closeDialog: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) boardHelp() []key.Binding {
	return []key.Binding{k.prevPage, k.nextPage, k.nextMilestone, k.up, k.down, k.share, k.quit}
}

func (k keyMap) dialogHelp() []key.Binding {
	return []key.Binding{k.closeDialog, k.quit}
}
