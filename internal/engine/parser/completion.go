// # internal/engine/parser/completion.go
package parser

import (
	"strings"

	"bslint/internal/engine/diag"
)

// Completions suggests script paths when pos lies inside one of the file's
// script reference uri spans. files must be in registration order. Each
// eligible script yields its pkg:/ form followed by its relative form.
func (f *ComponentFile) Completions(pos diag.Position, files []File) []CompletionItem {
	if !f.inScriptReference(pos) {
		return nil
	}

	imported := make(map[string]bool, len(f.Scripts))
	for _, ref := range f.Scripts {
		imported[strings.ToLower(ref.PkgPath)] = true
	}

	var items []CompletionItem
	for _, file := range files {
		script, ok := file.(*ScriptFile)
		if !ok || imported[strings.ToLower(script.PkgPath())] {
			continue
		}
		items = append(items,
			CompletionItem{Label: pkgScheme + script.PkgPath(), Kind: CompletionKindFile},
			CompletionItem{Label: RelativePkgPath(f.PkgPath(), script.PkgPath()), Kind: CompletionKindFile},
		)
	}
	return items
}

func (f *ComponentFile) inScriptReference(pos diag.Position) bool {
	for _, ref := range f.Scripts {
		if ref.Range.Contains(pos) {
			return true
		}
	}
	return false
}
