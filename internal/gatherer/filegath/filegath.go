// Package filegath writes one report file per submission and task.
package filegath

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/answer"
	"github.com/programme-lv/answers/internal/banner"
)

const SummaryFile = "summary.json"

// FileGatherer writes <dir>/<submission>/<task>.txt when a task finishes and
// <dir>/summary.json when the batch finishes.
type FileGatherer struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *FileGatherer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileGatherer{dir: dir, logger: logger}
}

// Path returns the report file of one task of one submission.
func (g *FileGatherer) Path(subm, task string) string {
	return filepath.Join(g.dir, safeName(subm), safeName(task)+".txt")
}

func (g *FileGatherer) StartBatch(string, int, int) {}

func (g *FileGatherer) StartTask(string, api.Task) {}

func (g *FileGatherer) FinishExtract(string, *answer.Answer, error) {}

func (g *FileGatherer) FinishCase(string, string, int, answer.Case) {}

func (g *FileGatherer) FinishTask(subm string, a *answer.Answer, _ error) {
	p := g.Path(subm, a.TaskName)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		g.logger.Error("failed to create report directory", "path", p, "error", err)
		return
	}
	if err := os.WriteFile(p, []byte(Render(a)), 0644); err != nil {
		g.logger.Error("failed to write report", "path", p, "error", err)
	}
}

func (g *FileGatherer) FinishBatch(summary api.BatchSummary) {
	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.Error("failed to marshal summary", "error", err)
		return
	}
	if err := os.MkdirAll(g.dir, 0755); err != nil {
		g.logger.Error("failed to create output directory", "path", g.dir, "error", err)
		return
	}
	p := filepath.Join(g.dir, SummaryFile)
	if err := os.WriteFile(p, append(b, '\n'), 0644); err != nil {
		g.logger.Error("failed to write summary", "path", p, "error", err)
	}
}

// Render lays out the code section followed by the execution report.
func Render(a *answer.Answer) string {
	var sb strings.Builder
	sb.WriteString(banner.Line(fmt.Sprintf(" %s (%s) ", a.TaskName, a.TaskLang), '#'))
	sb.WriteString("\n")
	sb.WriteString(a.CodeText)
	sb.WriteString("\n\n")
	if a.ResultText != "" {
		sb.WriteString(banner.Line(" EXECUTION ", '#'))
		sb.WriteString("\n")
		sb.WriteString(a.ResultText)
		sb.WriteString("\n")
	}
	return sb.String()
}

func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
