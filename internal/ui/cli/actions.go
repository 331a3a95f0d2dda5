package cli

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	filtering := m.diagList.FilterState() == list.Filtering || m.contextList.FilterState() == list.Filtering
	if !filtering {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.mode == panelDiagnostics {
				m.mode = panelContexts
			} else {
				m.mode = panelDiagnostics
			}
			return m, nil
		case "t":
			m.showTrend = !m.showTrend
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.mode == panelDiagnostics {
		m.diagList, cmd = m.diagList.Update(msg)
	} else {
		m.contextList, cmd = m.contextList.Update(msg)
	}
	return m, cmd
}
