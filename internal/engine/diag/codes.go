package diag

import "fmt"

type Code int

const (
	UnknownFunction       Code = 1001
	ArgumentCountMismatch Code = 1002
	DuplicateFunction     Code = 1003
	ReferencedFileMissing Code = 1004
	MissingComponent      Code = 1005
	MissingComponentName  Code = 1006
	UnknownParent         Code = 1007
	CircularInheritance   Code = 1008
	RedundantImport       Code = 1009
	ShadowedFunction      Code = 1010
	UnterminatedString    Code = 1011
	UnterminatedBlock     Code = 1012
	DuplicateComponent    Code = 1013
	UnexpectedBlockEnd    Code = 1014
)

type codeInfo struct {
	severity Severity
	template string
}

var catalogue = map[Code]codeInfo{
	UnknownFunction:       {SevError, "Cannot find function with name '%s'."},
	ArgumentCountMismatch: {SevError, "Expected %s arguments, but got %d."},
	DuplicateFunction:     {SevError, "Duplicate function implementation for '%s'."},
	ReferencedFileMissing: {SevError, "Referenced file does not exist."},
	MissingComponent:      {SevError, "Component file is missing a <component> declaration."},
	MissingComponentName:  {SevError, "Component declaration is missing a name attribute."},
	UnknownParent:         {SevWarning, "Component '%s' extends unknown component '%s'."},
	CircularInheritance:   {SevError, "Component '%s' has a circular inheritance chain: %s."},
	RedundantImport:       {SevWarning, "Unnecessary script import: '%s' is already imported by ancestor component '%s'."},
	ShadowedFunction:      {SevInfo, "Function '%s' shadows the function declared in ancestor component '%s'."},
	UnterminatedString:    {SevError, "Unterminated string literal."},
	UnterminatedBlock:     {SevError, "Missing 'end %s' for '%s'."},
	DuplicateComponent:    {SevError, "Component name '%s' is already declared in '%s'."},
	UnexpectedBlockEnd:    {SevError, "Unexpected 'end %s'."},
}

// Severity returns the default severity for the code.
func (c Code) Severity() Severity {
	if info, ok := catalogue[c]; ok {
		return info.severity
	}
	return SevError
}

// Message renders the code's template with args.
func (c Code) Message(args ...any) string {
	info, ok := catalogue[c]
	if !ok {
		return fmt.Sprintf("diagnostic %d", int(c))
	}
	if len(args) == 0 {
		return info.template
	}
	return fmt.Sprintf(info.template, args...)
}

func (c Code) String() string {
	return fmt.Sprintf("%d", int(c))
}

// ParamRange formats an accepted argument count, either "2" or "1-3".
func ParamRange(min, max int) string {
	if min == max {
		return fmt.Sprintf("%d", min)
	}
	return fmt.Sprintf("%d-%d", min, max)
}
