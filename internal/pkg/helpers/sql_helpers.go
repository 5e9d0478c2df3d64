package helpers

import "strings"

// NullIfEmpty returns nil for a blank string and a pointer to the trimmed value otherwise.
// Optional text columns are stored as NULL rather than as an empty string.
func NullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ContainsPattern builds an ILIKE pattern matching value anywhere, with LIKE wildcards escaped
func ContainsPattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(value) + "%"
}
