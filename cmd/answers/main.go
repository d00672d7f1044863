package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/programme-lv/answers/internal/answer"
	"github.com/programme-lv/answers/internal/environment"
	"github.com/programme-lv/answers/internal/format"
	"github.com/programme-lv/answers/internal/runner"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := environment.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("answers failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  environment.AppName,
		Usage: "extract, format and run submitted programs into review reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "TOML config file (default: $XDG_CONFIG_HOME/answers/config.toml)",
				Sources: envVars("CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				Sources: envVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var level slog.Level
			if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
				return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.TimeOnly,
			})))
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCommand(),
			extractCommand(),
			formatCommand(),
			healthCommand(),
		},
	}
}

func envVars(names ...string) cli.ValueSourceChain {
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = environment.EnvPrefix + n
	}
	return cli.EnvVars(keys...)
}

// toolFlags are shared by every command that extracts or runs submissions.
func toolFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "tools-dir", Usage: "directory holding the bundled jdk-21", Sources: envVars("TOOLS_DIR")},
		&cli.StringFlag{Name: "runtime", Usage: "runtime executable, overrides tools-dir", Sources: envVars("RUNTIME")},
		&cli.StringFlag{Name: "formatter", Usage: "astyle executable", Sources: envVars("FORMATTER")},
		&cli.BoolFlag{Name: "no-format", Usage: "do not beautify extracted code", Sources: envVars("NO_FORMAT")},
	}
}

// loadConfig reads the config file and applies the flags that were set on
// the command line or through the environment.
func loadConfig(cmd *cli.Command) (*environment.Config, error) {
	cfg, err := environment.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	str := map[string]*string{
		"tools-dir":    &cfg.ToolsDir,
		"runtime":      &cfg.Runtime,
		"formatter":    &cfg.Formatter,
		"out":          &cfg.OutDir,
		"cache-dir":    &cfg.CacheDir,
		"nats-url":     &cfg.NatsURL,
		"nats-subject": &cfg.NatsSubject,
		"sqs-url":      &cfg.SqsURL,
		"aws-region":   &cfg.AwsRegion,
	}
	for name, dst := range str {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	if cmd.IsSet("no-format") && cmd.Bool("no-format") {
		cfg.Format = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newFormatter(cfg *environment.Config) format.Formatter {
	if !cfg.Format {
		return format.Nop{}
	}
	return format.NewAstyle(cfg.Formatter)
}

func newProcessor(cfg *environment.Config, logger *slog.Logger) *answer.Processor {
	return answer.NewProcessor(answer.Config{
		Runner:         &runner.Exec{Logger: logger},
		Formatter:      newFormatter(cfg),
		Runtime:        cfg.RuntimePath(),
		Commands:       cfg.Commands,
		MemberSuffixes: cfg.MemberSuffixes,
		FormatSuffixes: cfg.FormatSuffixes,
		Logger:         logger,
	})
}

// langFromPath guesses the task language from a file extension.
func langFromPath(p string) string {
	name := strings.ToLower(p)
	for _, lang := range []string{answer.LangJar, answer.LangZip, answer.LangJava} {
		if strings.HasSuffix(name, "."+lang) {
			return lang
		}
	}
	return "txt"
}
