package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Unfocus key.Binding
	Search  key.Binding
	Views   key.Binding
	Source  key.Binding
	Copy    key.Binding
	Reload  key.Binding
	Help    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Unfocus: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "unfocus / clear search"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search frames"),
		),
		Views: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "sample types"),
		),
		Source: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "source pane"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy frame name"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Unfocus, k.Views, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Unfocus, k.Views},
		{k.Source, k.Copy, k.Reload},
		{k.Help, k.Quit},
	}
}
