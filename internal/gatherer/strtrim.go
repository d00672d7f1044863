package gatherer

import (
	"strings"
	"unicode/utf8"
)

// TrimToRect cuts s to at most maxHeight lines of at most maxWidth runes,
// marking every cut with "[...]".
func TrimToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if utf8.RuneCountInString(line) > maxWidth {
			sb.WriteString(string([]rune(line)[:maxWidth]))
			sb.WriteString("[...]")
		} else {
			sb.WriteString(line)
		}
	}
	return sb.String()
}
