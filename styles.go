// styles.go
package main

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base,
	Header,
	Graph,
	Source,
	Info,
	Status,
	Error lipgloss.Style
	Match lipgloss.Style
}

func defaultStyles() Styles {
	s := Styles{}
	s.Base = lipgloss.NewStyle()

	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	s.Graph = lipgloss.NewStyle()
	s.Source = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("205"))
	s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	s.Status = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // Red
	s.Match = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	return s
}
