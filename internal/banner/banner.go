// Package banner renders the fixed-width delimiter lines used in reports.
package banner

import (
	"strings"
	"unicode/utf8"
)

// Width is the width of every delimiter line in a report.
const Width = 70

// Center pads title on both sides with fill up to width runes.
// Odd padding puts the extra fill on the right, as centre alignment in a
// format spec does.
// Titles that are already as wide as width are returned unchanged.
func Center(title string, width int, fill rune) string {
	n := utf8.RuneCountInString(title)
	if n >= width {
		return title
	}
	pad := width - n
	left := pad / 2
	f := string(fill)
	return strings.Repeat(f, left) + title + strings.Repeat(f, pad-left)
}

// Line is Center with the report width.
func Line(title string, fill rune) string {
	return Center(title, Width, fill)
}
