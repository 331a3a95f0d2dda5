package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"bslint/internal/core/app"
	"bslint/internal/data/history"
	"bslint/internal/engine/diag"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelDiagnostics panelMode = iota
	panelContexts
)

// UpdateMsg carries a validation result into the UI.
type UpdateMsg struct {
	Update app.Update
}

type model struct {
	diagList    list.Model
	contextList list.Model
	mode        panelMode
	rootDir     string
	trendReport *history.TrendReport
	showTrend   bool

	counts       diag.Counts
	fileCount    int
	contextCount int
	lastUpdate   time.Time
}

func initialModel(rootDir string, trendReport *history.TrendReport) model {
	diagList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	diagList.Title = "Diagnostics"
	diagList.SetShowStatusBar(false)
	diagList.SetFilteringEnabled(true)

	contextList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	contextList.Title = "Contexts"
	contextList.SetShowStatusBar(false)
	contextList.SetFilteringEnabled(true)

	return model{
		diagList:    diagList,
		contextList: contextList,
		mode:        panelDiagnostics,
		rootDir:     rootDir,
		trendReport: trendReport,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.diagList.SetSize(width, height)
		m.contextList.SetSize(width, height)
	case UpdateMsg:
		m = m.apply(msg.Update)
	}

	var cmd tea.Cmd
	if m.mode == panelDiagnostics {
		m.diagList, cmd = m.diagList.Update(msg)
	} else {
		m.contextList, cmd = m.contextList.Update(msg)
	}
	return m, cmd
}

func (m model) apply(update app.Update) model {
	m.counts = update.Counts
	m.fileCount = update.FileCount
	m.contextCount = update.ContextCount
	m.lastUpdate = update.ValidatedAt

	diagItems := make([]list.Item, 0, len(update.Diagnostics))
	for _, d := range update.Diagnostics {
		diagItems = append(diagItems, item{
			title: fmt.Sprintf("%s %d", d.Severity, d.Code),
			desc:  fmt.Sprintf("%s:%d:%d %s", m.relative(d.File.Path), d.Range.Start.Line+1, d.Range.Start.Column+1, d.Message),
		})
	}
	m.diagList.SetItems(diagItems)

	contextItems := make([]list.Item, 0, len(update.Contexts))
	for _, c := range update.Contexts {
		desc := fmt.Sprintf("%s | files=%d diagnostics=%d", c.Kind, c.FileCount, c.Diagnostics)
		if c.Parent != "" {
			desc += " | parent=" + c.Parent
		}
		if c.Children > 0 {
			desc += fmt.Sprintf(" | children=%d", c.Children)
		}
		contextItems = append(contextItems, item{title: c.Name, desc: desc})
	}
	m.contextList.SetItems(contextItems)
	return m
}

func (m model) relative(path string) string {
	if m.rootDir == "" {
		return path
	}
	if rel, err := filepath.Rel(m.rootDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d files | %d contexts",
		m.lastUpdate.Local().Format("15:04:05"), m.fileCount, m.contextCount))

	var summary string
	if m.counts.Total() == 0 {
		summary = successStyle.Render("No problems")
	} else {
		summary = fmt.Sprintf("%s | %s | %d infos",
			errorStyle.Render(fmt.Sprintf("%d errors", m.counts.Errors)),
			warningStyle.Render(fmt.Sprintf("%d warnings", m.counts.Warnings)),
			m.counts.Infos)
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("BrightScript Diagnostics"), status, summary)
	help := statusStyle.Render("tab: switch panel | t: trend | /: filter | q: quit")

	body := m.diagList.View()
	if m.mode == panelContexts {
		body = m.contextList.View()
	}
	if m.showTrend {
		body += "\n\n" + renderTrend(m.trendReport)
	}
	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func renderTrend(report *history.TrendReport) string {
	if report == nil || len(report.Points) == 0 {
		return statusStyle.Render("No history recorded.")
	}
	last := report.Points[len(report.Points)-1]
	return fmt.Sprintf("Trend over %d runs: errors %d (%+d), warnings %d (%+d), avg errors %.2f",
		report.RunCount, last.ErrorCount, last.DeltaErrors, last.WarningCount, last.DeltaWarnings, last.AvgErrors)
}
