package diag

import (
	"slices"
	"strings"
)

// Sort orders diagnostics by file, start, end, severity (desc) and code so
// output is deterministic.
func Sort(items []Diagnostic) {
	slices.SortStableFunc(items, func(a, b Diagnostic) int {
		if c := strings.Compare(a.File.Path, b.File.Path); c != 0 {
			return c
		}
		if a.Range.Start != b.Range.Start {
			if a.Range.Start.Before(b.Range.Start) {
				return -1
			}
			return 1
		}
		if a.Range.End != b.Range.End {
			if a.Range.End.Before(b.Range.End) {
				return -1
			}
			return 1
		}
		if a.Severity != b.Severity {
			return int(b.Severity) - int(a.Severity)
		}
		return int(a.Code) - int(b.Code)
	})
}

type dedupKey struct {
	code Code
	sev  Severity
	file string
	rng  Range
	msg  string
}

// Dedup drops diagnostics identical in code, severity, file, range and
// message, keeping the first occurrence. Contexts that share a file report
// the same finding once per context; callers see it once.
func Dedup(items []Diagnostic) []Diagnostic {
	seen := make(map[dedupKey]struct{}, len(items))
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		key := dedupKey{code: d.Code, sev: d.Severity, file: d.File.Path, rng: d.Range, msg: d.Message}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Filter returns the diagnostics for which keep reports true.
func Filter(items []Diagnostic, keep func(Diagnostic) bool) []Diagnostic {
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Infos
}

func Count(items []Diagnostic) Counts {
	var c Counts
	for _, d := range items {
		switch d.Severity {
		case SevError:
			c.Errors++
		case SevWarning:
			c.Warnings++
		default:
			c.Infos++
		}
	}
	return c
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(items []Diagnostic) bool {
	return slices.ContainsFunc(items, func(d Diagnostic) bool { return d.Severity >= SevError })
}
