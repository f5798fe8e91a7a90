// Package normalize provides helper functions for consistent string
// normalization across the application. Use these helpers instead of
// scattered strings.ToLower and strings.TrimSpace calls.
package normalize

import "strings"

// LoginID normalizes a login identifier by trimming whitespace and
// converting to lowercase, the canonical form for comparison.
func LoginID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role normalizes a role value by trimming whitespace and converting to
// lowercase.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
