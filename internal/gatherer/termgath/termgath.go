// Package termgath prints batch progress to a terminal.
package termgath

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/answer"
)

type TerminalGatherer struct {
	mu  sync.Mutex
	out io.Writer

	// Verbose also prints every test case.
	Verbose bool

	startedAt time.Time

	red    func(a ...any) string
	green  func(a ...any) string
	yellow func(a ...any) string
	faint  func(a ...any) string
}

func New(out io.Writer) *TerminalGatherer {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalGatherer{
		out:       out,
		startedAt: time.Now(),
		red:       color.New(color.FgRed).SprintFunc(),
		green:     color.New(color.FgGreen).SprintFunc(),
		yellow:    color.New(color.FgYellow).SprintFunc(),
		faint:     color.New(color.Faint).SprintFunc(),
	}
}

func (t *TerminalGatherer) printf(format string, a ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, a...)
}

func (t *TerminalGatherer) StartBatch(runID string, submissions, tasks int) {
	t.mu.Lock()
	t.startedAt = time.Now()
	t.mu.Unlock()
	t.printf("== Batch %s started: %d submission(s) x %d task(s) ==\n", runID, submissions, tasks)
}

func (t *TerminalGatherer) StartTask(subm string, task api.Task) {
	t.printf("-> %s / %s (%s)\n", subm, task.Name, task.Lang)
}

func (t *TerminalGatherer) FinishExtract(subm string, a *answer.Answer, err error) {
	if err != nil {
		t.printf("   %s %s / %s: %v\n", t.red("open error"), subm, a.TaskName, err)
		return
	}
	if len(a.FileList) > 1 {
		t.printf("   %s %s\n", t.faint("files:"), strings.Join(a.FileList[1:], ", "))
	}
}

func (t *TerminalGatherer) FinishCase(subm, task string, idx int, c answer.Case) {
	if c.Err != nil {
		t.printf("   %s %s / %s case %d: %v\n", t.red("exec error"), subm, task, idx+1, c.Err)
		return
	}
	if t.Verbose {
		t.printf("   case %d args=%q %s\n", idx+1, c.Args, t.faint(firstLine(c.Output)))
	}
}

func (t *TerminalGatherer) FinishTask(subm string, a *answer.Answer, err error) {
	if err != nil {
		t.printf("<- %s / %s %s\n", subm, a.TaskName, t.yellow("needs manual check"))
		return
	}
	t.printf("<- %s / %s %s\n", subm, a.TaskName, t.green("done"))
}

func (t *TerminalGatherer) FinishBatch(s api.BatchSummary) {
	t.mu.Lock()
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	t.mu.Unlock()

	summary := fmt.Sprintf("%d answer(s), %d open error(s), %d exec error(s)", s.Answers, s.OpenErrors, s.ExecErrors)
	if s.OpenErrors > 0 || s.ExecErrors > 0 {
		summary = t.yellow(summary)
	}
	t.printf("== Batch finished in %s: %s ==\n", dur, summary)
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	if cut {
		return line + " ..."
	}
	return line
}
