package runner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/google/shlex"
)

// Placeholders understood by command templates.
const (
	RuntimeVar = "runtime"
	FileVar    = "file"
)

// DefaultCommands maps runnable task languages to command templates.
var DefaultCommands = map[string]string{
	"jar":  "{runtime} -jar {file}",
	"java": "{runtime} {file}",
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand splits tmpl into argv and substitutes {name} placeholders in each
// element. Values are substituted after splitting, so paths with spaces or
// backslashes stay a single argument.
func Expand(tmpl string, vars map[string]string) ([]string, error) {
	fields, err := shlex.Split(tmpl)
	if err != nil {
		return nil, fmt.Errorf("split command %q: %w", tmpl, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("command %q is empty", tmpl)
	}

	argv := make([]string, 0, len(fields))
	for _, f := range fields {
		var missing string
		f = placeholderRe.ReplaceAllStringFunc(f, func(m string) string {
			name := m[1 : len(m)-1]
			v, ok := vars[name]
			if !ok {
				missing = name
				return m
			}
			return v
		})
		if missing != "" {
			return nil, fmt.Errorf("command %q: unknown placeholder {%s}", tmpl, missing)
		}
		argv = append(argv, f)
	}
	return argv, nil
}

// Validate checks that tmpl expands with the standard placeholders.
func Validate(tmpl string) error {
	_, err := Expand(tmpl, map[string]string{RuntimeVar: "runtime", FileVar: "file"})
	return err
}

// DefaultRuntime is the bundled JDK launcher below toolsDir.
func DefaultRuntime(toolsDir string) string {
	exe := "java"
	if runtime.GOOS == "windows" {
		exe = "java.exe"
	}
	return filepath.Join(toolsDir, "jdk-21", "bin", exe)
}

// Runnable reports whether lang has a command template.
func Runnable(commands map[string]string, lang string) bool {
	_, ok := commands[strings.ToLower(lang)]
	return ok
}
