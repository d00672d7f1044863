package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/answers/internal/environment"
	"github.com/programme-lv/answers/internal/format"
	"github.com/urfave/cli/v3"
)

type health int

const (
	healthOK health = iota
	healthWarn
	healthError
)

func (h health) String() string {
	switch h {
	case healthOK:
		return "OKAY"
	case healthWarn:
		return "WARN"
	}
	return "ERROR"
}

type feedbackRow struct {
	unit    string
	health  health
	message string
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check that the runtime and the formatter can be started",
		Flags: toolFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				outputFeedback(cmd, []feedbackRow{{unit: "Config", health: healthError, message: err.Error()}})
				return err
			}

			feedback := []feedbackRow{
				checkRuntime(ctx, cfg),
				checkFormatter(ctx, cfg),
				checkCacheDir(cfg),
			}
			outputFeedback(cmd, feedback)

			if slices.ContainsFunc(feedback, func(r feedbackRow) bool { return r.health == healthError }) {
				return errors.New("health check failed")
			}
			return nil
		},
	}
}

func checkRuntime(ctx context.Context, cfg *environment.Config) feedbackRow {
	rt := cfg.RuntimePath()
	out, err := exec.CommandContext(ctx, rt, "-version").CombinedOutput()
	if err != nil {
		msg := fmt.Sprintf("%s: %v", rt, err)
		if len(out) > 0 {
			msg += ": " + strings.TrimSpace(string(out))
		}
		return feedbackRow{unit: "Runtime", health: healthError, message: msg}
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return feedbackRow{unit: "Runtime", health: healthOK, message: rt + "\n" + first}
}

// checkFormatter only warns: without astyle code is reported unformatted.
func checkFormatter(ctx context.Context, cfg *environment.Config) feedbackRow {
	if !cfg.Format {
		return feedbackRow{unit: "Formatter", health: healthOK, message: "disabled"}
	}
	v, err := format.NewAstyle(cfg.Formatter).Version(ctx)
	if err != nil {
		return feedbackRow{unit: "Formatter", health: healthWarn, message: err.Error()}
	}
	return feedbackRow{unit: "Formatter", health: healthOK, message: v}
}

func checkCacheDir(cfg *environment.Config) feedbackRow {
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return feedbackRow{unit: "Cache", health: healthWarn, message: err.Error()}
	}
	return feedbackRow{unit: "Cache", health: healthOK, message: cfg.CacheDir}
}

func outputFeedback(cmd *cli.Command, feedback []feedbackRow) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.Root().Writer)
	t.AppendHeader(table.Row{"Unit", "Health", "Message"})
	for _, row := range feedback {
		t.AppendRow(table.Row{row.unit, row.health.String(), row.message})
	}
	t.SetStyle(table.StyleColoredDark)
	textColor := text.Transformer(func(s interface{}) string {
		switch s.(string) {
		case "OKAY":
			return text.FgHiGreen.Sprint(s)
		case "WARN":
			return text.FgHiYellow.Sprint(s)
		case "ERROR":
			return text.FgHiRed.Sprint(s)
		}
		return fmt.Sprint(s)
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Name:        "Health",
			Transformer: textColor,
			Align:       text.AlignCenter,
		},
	})
	t.Render()
}
