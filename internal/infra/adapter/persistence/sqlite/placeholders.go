// Package sqlite implements the repositories on SQLite through the
// modernc.org/sqlite driver, for single-node and local deployments.
package sqlite

import "strings"

// SQLiteのプレースホルダ上限は999
const maxPlaceholders = 999

// valuesList returns "(?, ?), (?, ?)" for rows tuples of cols placeholders.
func valuesList(rows, cols int) string {
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", cols), ", ") + ")"
	parts := make([]string, rows)
	for i := range parts {
		parts[i] = tuple
	}
	return strings.Join(parts, ", ")
}

// inList returns "?, ?, ?" for n placeholders.
func inList(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullable unwraps optional columns so the driver binds NULL or the value.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
