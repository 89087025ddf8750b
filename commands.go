// commands.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

type tickMsg time.Time

// profileUpdateMsg carries a freshly loaded profile.
type profileUpdateMsg struct {
	data *ProfileData
}

type profileUpdateErr struct {
	err error
}

type clipboardMsg struct {
	text string
	err  error
}

// tickerCmd sends a tickMsg at a given interval
func tickerCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchProfileCmd loads and converts the profile in the background.
func fetchProfileCmd(src string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := LoadProfile(ctx, src)
		if err != nil {
			log.WithError(err).WithField("source", src).Warn("profile reload failed")
			return profileUpdateErr{fmt.Errorf("reload %s: %w", src, err)}
		}
		return profileUpdateMsg{data: data}
	}
}

// copyCmd puts text on the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err != nil {
			log.WithError(err).Debug("clipboard write failed")
		}
		return clipboardMsg{text: text, err: err}
	}
}
