package diag

import "encoding/json"

// Position is a zero-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func NewRange(startLine, startColumn, endLine, endColumn int) Range {
	return Range{
		Start: Position{Line: startLine, Column: startColumn},
		End:   Position{Line: endLine, Column: endColumn},
	}
}

// Contains reports whether p lies within the range, both ends inclusive.
func (r Range) Contains(p Position) bool {
	if p.Before(r.Start) {
		return false
	}
	return !r.End.Before(p)
}

// FileRef identifies the file a diagnostic belongs to.
type FileRef struct {
	Path    string `json:"path"`
	PkgPath string `json:"pkgPath"`
}

type Diagnostic struct {
	Code     Code
	Message  string
	Severity Severity
	File     FileRef
	Range    Range
}

// New builds a diagnostic with the code's default severity and message.
func New(code Code, file FileRef, rng Range, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Message:  code.Message(args...),
		Severity: code.Severity(),
		File:     file,
		Range:    rng,
	}
}

type location struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

type wireDiagnostic struct {
	Code     int      `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	File     FileRef  `json:"file"`
	Location location `json:"location"`
}

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDiagnostic{
		Code:     int(d.Code),
		Message:  d.Message,
		Severity: d.Severity,
		File:     d.File,
		Location: location{
			StartLine:   d.Range.Start.Line,
			StartColumn: d.Range.Start.Column,
			EndLine:     d.Range.End.Line,
			EndColumn:   d.Range.End.Column,
		},
	})
}

func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var w wireDiagnostic
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d.Code = Code(w.Code)
	d.Message = w.Message
	d.Severity = w.Severity
	d.File = w.File
	d.Range = NewRange(w.Location.StartLine, w.Location.StartColumn, w.Location.EndLine, w.Location.EndColumn)
	return nil
}
