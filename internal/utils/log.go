package utils

import "strings"

// TruncateForLog shortens s to limit runes, appending an ellipsis when cut.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// BodyPreview renders a response body as one log-friendly line: runs of
// whitespace, newlines included, collapse to a single space before the body
// is truncated.
func BodyPreview(body []byte, limit int) string {
	return TruncateForLog(strings.Join(strings.Fields(string(body)), " "), limit)
}
