package answer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/programme-lv/answers/internal/banner"
)

var (
	caseLine   = banner.Line(" TEST CASE ", '=')
	resultLine = banner.Line(" RESULT ", '=')
)

// writeCase appends the block of one test case. A failed case carries the
// error marker where the output would be.
func writeCase(sb *strings.Builder, c Case) {
	fmt.Fprintf(sb, "%s\nargs  = %s\n\n", caseLine, formatArgs(c.Args))
	fmt.Fprintf(sb, "input ↓ \n\"\"\"\n%s\n\"\"\"\n", c.Input)
	sb.WriteString(resultLine)
	sb.WriteByte('\n')
	if c.Err != nil {
		fmt.Fprintf(sb, execErrorFmt+"\n\n", c.Err)
		return
	}
	fmt.Fprintf(sb, "%s\n\n", c.Output)
}

// formatArgs renders args the way a Python list of strings prints.
func formatArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = pyQuote(a)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// pyQuote single-quotes s, switching to double quotes when s contains a
// single quote and no double quote.
func pyQuote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.WriteRune(q)
	for i, r := range s {
		switch {
		case r == q || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == utf8.RuneError && !strings.HasPrefix(s[i:], "\uFFFD"):
			fmt.Fprintf(&sb, `\x%02x`, s[i])
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteRune(q)
	return sb.String()
}
