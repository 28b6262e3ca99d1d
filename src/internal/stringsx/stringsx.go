package stringsx

import "strings"

// FirstNonEmpty returns the first string in vals that is non-empty when trimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// CollapseSpace folds every whitespace run to a single space and trims the ends.
func CollapseSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
