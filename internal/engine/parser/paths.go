// # internal/engine/parser/paths.go
package parser

import (
	"path"
	"strings"
)

const pkgScheme = "pkg:/"

// NormalizePath turns p into a clean, absolute, slash-separated path.
// Relative paths are resolved against root. Casing is preserved; use PathKey
// for comparisons.
func NormalizePath(root, p string) string {
	p = toSlash(strings.TrimSpace(p))
	if !IsAbsPath(p) {
		p = strings.TrimSuffix(toSlash(root), "/") + "/" + p
	}
	return path.Clean(p)
}

// PathKey is the registry key for a normalized path.
func PathKey(p string) string {
	return strings.ToLower(p)
}

// IsAbsPath accepts both rooted slash paths and drive-letter paths, so
// Windows-style roots behave the same on every host.
func IsAbsPath(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	if len(p) >= 3 && p[1] == ':' && p[2] == '/' {
		c := p[0] | 0x20
		return c >= 'a' && c <= 'z'
	}
	return false
}

// PkgPathFor returns abs relative to root with forward slashes. Files outside
// root keep their full path without the leading slash.
func PkgPathFor(root, abs string) string {
	root = strings.TrimSuffix(path.Clean(toSlash(root)), "/")
	abs = toSlash(abs)
	if len(abs) > len(root) && strings.EqualFold(abs[:len(root)], root) && abs[len(root)] == '/' {
		return abs[len(root)+1:]
	}
	return strings.TrimPrefix(abs, "/")
}

// ResolvePkgPath resolves a script reference target as written in a
// component file. "pkg:/" targets are project-root-relative, everything else
// is relative to the directory of ownerPkgPath.
func ResolvePkgPath(ownerPkgPath, target string) string {
	t := toSlash(strings.TrimSpace(target))
	if t == "" {
		return ""
	}
	if len(t) >= len(pkgScheme) && strings.EqualFold(t[:len(pkgScheme)], pkgScheme) {
		return strings.TrimPrefix(path.Clean("/"+t[len(pkgScheme):]), "/")
	}
	if strings.HasPrefix(t, "/") {
		return strings.TrimPrefix(path.Clean(t), "/")
	}
	resolved := path.Clean(path.Join(path.Dir(toSlash(ownerPkgPath)), t))
	return strings.TrimPrefix(resolved, "./")
}

// RelativePkgPath returns the path that, written in fromPkgPath, refers to
// toPkgPath.
func RelativePkgPath(fromPkgPath, toPkgPath string) string {
	fromDir := path.Dir(toSlash(fromPkgPath))
	var fromParts []string
	if fromDir != "." {
		fromParts = strings.Split(fromDir, "/")
	}
	toParts := strings.Split(toSlash(toPkgPath), "/")

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && strings.EqualFold(fromParts[common], toParts[common]) {
		common++
	}

	parts := make([]string, 0, len(fromParts)-common+len(toParts)-common)
	for i := common; i < len(fromParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)
	return strings.Join(parts, "/")
}

// UnderDir reports whether pkgPath lies below dir, case-insensitively.
func UnderDir(pkgPath, dir string) bool {
	dir = strings.Trim(toSlash(dir), "/")
	if dir == "" {
		return true
	}
	pkgPath = toSlash(pkgPath)
	return len(pkgPath) > len(dir) && strings.EqualFold(pkgPath[:len(dir)], dir) && pkgPath[len(dir)] == '/'
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
