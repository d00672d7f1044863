package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/programme-lv/answers/internal/archive"
	"github.com/programme-lv/answers/internal/format"
	"github.com/programme-lv/answers/internal/runner"
	"github.com/programme-lv/answers/internal/textenc"
)

type Config struct {
	Runner    runner.Runner
	Formatter format.Formatter
	Decoder   *textenc.Decoder

	// Runtime is substituted for {runtime} in command templates.
	Runtime string
	// Commands maps runnable languages to command templates.
	Commands map[string]string

	MemberSuffixes []string
	FormatSuffixes []string

	Logger *slog.Logger
}

// Processor fills Answers. It holds no per-answer state.
type Processor struct {
	runner    runner.Runner
	formatter format.Formatter
	decoder   *textenc.Decoder
	extractor *archive.Extractor
	runtime   string
	commands  map[string]string
	logger    *slog.Logger
}

func NewProcessor(cfg Config) *Processor {
	p := &Processor{
		runner:    cfg.Runner,
		formatter: cfg.Formatter,
		decoder:   cfg.Decoder,
		runtime:   cfg.Runtime,
		commands:  cfg.Commands,
		logger:    cfg.Logger,
	}
	if p.runner == nil {
		p.runner = &runner.Exec{Logger: cfg.Logger}
	}
	if p.formatter == nil {
		p.formatter = format.Nop{}
	}
	if p.decoder == nil {
		p.decoder = textenc.NewDecoder(nil)
	}
	if p.commands == nil {
		p.commands = runner.DefaultCommands
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	opts := []archive.Option{
		archive.WithFormatter(p.formatter),
		archive.WithDecoder(p.decoder),
	}
	if cfg.MemberSuffixes != nil {
		opts = append(opts, archive.WithMemberSuffixes(cfg.MemberSuffixes...))
	}
	if cfg.FormatSuffixes != nil {
		opts = append(opts, archive.WithFormatSuffixes(cfg.FormatSuffixes...))
	}
	p.extractor = archive.NewExtractor(opts...)
	return p
}

// GetCode reads the submission text into a.CodeText. Archives are unpacked
// and their members appended to a.FileList. On failure the code text is the
// manual-check placeholder and an *OpenError is returned.
func (p *Processor) GetCode(ctx context.Context, a *Answer) (string, error) {
	code, err := p.readCode(ctx, a)
	if err != nil {
		p.logger.Error("failed to open submission", "path", a.FilePath, "task", a.TaskName, "err", err)
		openErr := a.MarkOpenError(err)
		return a.CodeText, openErr
	}
	a.CodeText = strings.TrimSpace(code)
	return a.CodeText, nil
}

func (p *Processor) readCode(ctx context.Context, a *Answer) (string, error) {
	if IsArchive(a.TaskLang) {
		res, err := p.extractor.Extract(ctx, a.FilePath)
		if err != nil {
			return "", err
		}
		a.FileList = append(a.FileList, res.Members...)
		return res.Text, nil
	}

	b, err := os.ReadFile(a.FilePath)
	if err != nil {
		return "", fmt.Errorf("read submission: %w", err)
	}
	code := p.decoder.Decode(b).Text
	if a.TaskLang == LangJava {
		code = format.BestEffort(ctx, p.formatter, code)
	}
	return code, nil
}

// Runnable reports whether a's language has a command.
func (p *Processor) Runnable(a *Answer) bool {
	return runner.Runnable(p.commands, a.TaskLang)
}

// Execute runs the submission for every argument list and every input and
// stores the report in a.ResultText. Failed cases are reported inline and
// returned joined as *ExecError values; they do not stop the remaining
// cases. onCase, when non-nil, is called after every case.
func (p *Processor) Execute(ctx context.Context, a *Answer, onCase func(idx int, c Case)) (string, error) {
	if !p.Runnable(a) {
		return "", nil
	}
	tmpl := p.commands[strings.ToLower(a.TaskLang)]
	argv, err := runner.Expand(tmpl, map[string]string{
		runner.RuntimeVar: p.runtime,
		runner.FileVar:    a.FilePath,
	})
	if err != nil {
		return "", fmt.Errorf("build command for %s: %w", a.TaskLang, err)
	}

	argLists := a.Args
	if len(argLists) == 0 {
		argLists = [][]string{{}}
	}
	inputs := a.Inputs
	if len(inputs) == 0 {
		inputs = []string{""}
	}

	var sb strings.Builder
	var errs []error
	a.Cases = a.Cases[:0]
	for _, args := range argLists {
		for _, input := range inputs {
			if ctx.Err() != nil {
				errs = append(errs, ctx.Err())
				a.ResultText = strings.TrimSpace(sb.String())
				return a.ResultText, errors.Join(errs...)
			}

			c := p.runCase(ctx, argv, args, input)
			if c.Err != nil {
				p.logger.Warn("test case failed", "task", a.TaskName, "args", args, "err", c.Err)
				errs = append(errs, &ExecError{Args: args, Input: input, Err: c.Err})
			}
			writeCase(&sb, c)
			a.Cases = append(a.Cases, c)
			if onCase != nil {
				onCase(len(a.Cases)-1, c)
			}
		}
	}

	a.ResultText = strings.TrimSpace(sb.String())
	return a.ResultText, errors.Join(errs...)
}

func (p *Processor) runCase(ctx context.Context, argv, args []string, input string) Case {
	c := Case{Args: args, Input: input}
	out, err := p.runner.Run(ctx, append(slices.Clone(argv), args...), []byte(input))
	if err != nil {
		c.Err = err
		return c
	}
	c.Output = strings.TrimSpace(p.decoder.Decode(out).Text)
	return c
}
