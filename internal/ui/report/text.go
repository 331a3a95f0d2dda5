// # internal/ui/report/text.go
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bslint/internal/engine/diag"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

type TextOptions struct {
	// RootDir shortens paths below it to project-relative form.
	RootDir string
	Color   bool
}

// WriteText prints one line per diagnostic, with 1-based positions, followed
// by a summary line.
func WriteText(w io.Writer, diags []diag.Diagnostic, opts TextOptions) error {
	paint := func(style lipgloss.Style, s string) string {
		if !opts.Color {
			return s
		}
		return style.Render(s)
	}

	for _, d := range diags {
		location := fmt.Sprintf("%s:%d:%d", displayPath(d.File.Path, opts.RootDir), d.Range.Start.Line+1, d.Range.Start.Column+1)
		severity := paint(severityStyle(d.Severity), d.Severity.String())
		if _, err := fmt.Fprintf(w, "%s %s %d %s\n", paint(locationStyle, location), severity, d.Code, d.Message); err != nil {
			return err
		}
	}

	counts := diag.Count(diags)
	if counts.Total() == 0 {
		_, err := fmt.Fprintln(w, paint(successStyle, "No problems found"))
		return err
	}
	summary := fmt.Sprintf("%s, %s, %s",
		plural(counts.Errors, "error"),
		plural(counts.Warnings, "warning"),
		plural(counts.Infos, "info"),
	)
	if counts.Errors > 0 {
		summary = paint(errorStyle, summary)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", summary)
	return err
}

func severityStyle(s diag.Severity) lipgloss.Style {
	switch s {
	case diag.SevError:
		return errorStyle
	case diag.SevWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

func displayPath(path, root string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(filepath.FromSlash(root), filepath.FromSlash(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
