package cli

import (
	"bslint/internal/core/app"
	"bslint/internal/data/history"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the live diagnostics view until the user quits. Every update the
// app publishes is forwarded to the view.
func Run(a *app.App, trendReport *history.TrendReport) error {
	m := initialModel(a.Paths.RootDir, trendReport)
	p := tea.NewProgram(m, tea.WithAltScreen())

	a.SetUpdateHandler(func(update app.Update) {
		p.Send(UpdateMsg{Update: update})
	})

	go func() {
		p.Send(UpdateMsg{Update: a.LastUpdate()})
	}()

	_, err := p.Run()
	return err
}
