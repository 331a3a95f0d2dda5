// Package diag holds the diagnostic model shared by the parsers, the
// validator and the program: codes with their message templates and default
// severities, source ranges, and helpers to merge, sort and de-duplicate
// diagnostic lists.
package diag
