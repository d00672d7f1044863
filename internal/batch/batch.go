// Package batch applies every task to every submission directory.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/answer"
	"github.com/programme-lv/answers/internal/fetch"
	"github.com/programme-lv/answers/internal/gatherer"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// Resolver turns a task location into a readable local file.
type Resolver interface {
	Resolve(ctx context.Context, location string) (string, error)
}

type Options struct {
	Tasks     []api.Task
	Processor *answer.Processor
	Resolver  Resolver
	Gatherer  gatherer.Gatherer
	// Jobs is the number of submissions processed at once. Values below 1
	// mean 1.
	Jobs   int
	Logger *slog.Logger
}

type Batch struct {
	tasks []api.Task
	proc  *answer.Processor
	res   Resolver
	gath  gatherer.Gatherer
	jobs  int

	logger *slog.Logger
}

func New(opts Options) *Batch {
	b := &Batch{
		tasks:  opts.Tasks,
		proc:   opts.Processor,
		res:    opts.Resolver,
		gath:   opts.Gatherer,
		jobs:   max(opts.Jobs, 1),
		logger: opts.Logger,
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.proc == nil {
		b.proc = answer.NewProcessor(answer.Config{Logger: b.logger})
	}
	if b.res == nil {
		b.res = fetch.New("", nil, b.logger)
	}
	if b.gath == nil {
		b.gath = gatherer.Multi{}
	}
	return b
}

type counters struct {
	answers    *xsync.Counter
	openErrors *xsync.Counter
	execErrors *xsync.Counter
}

// Run processes every submission directory. Per-task failures are reported
// through the gatherer and counted in the summary; only cancellation of ctx
// makes Run return an error.
func (b *Batch) Run(ctx context.Context, dirs []string) (api.BatchSummary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := b.logger.With("run", runID)

	log.Info("starting batch", "submissions", len(dirs), "tasks", len(b.tasks), "jobs", b.jobs)
	b.gath.StartBatch(runID, len(dirs), len(b.tasks))

	cnt := counters{
		answers:    xsync.NewCounter(),
		openErrors: xsync.NewCounter(),
		execErrors: xsync.NewCounter(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.jobs)
	for _, dir := range dirs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return b.runSubmission(gctx, dir, &cnt, log)
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	finish := time.Now()
	summary := api.BatchSummary{
		RunID:       runID,
		Submissions: len(dirs),
		Tasks:       len(b.tasks),
		Answers:     int(cnt.answers.Value()),
		OpenErrors:  cnt.openErrors.Value(),
		ExecErrors:  cnt.execErrors.Value(),
		StartTime:   start.Format(time.RFC3339),
		FinishTime:  finish.Format(time.RFC3339),
		TotalTimeMs: finish.Sub(start).Milliseconds(),
	}
	b.gath.FinishBatch(summary)
	log.Info("finished batch", "answers", summary.Answers,
		"open_errors", summary.OpenErrors, "exec_errors", summary.ExecErrors,
		"elapsed", finish.Sub(start).Round(time.Millisecond))
	return summary, err
}

func (b *Batch) runSubmission(ctx context.Context, dir string, cnt *counters, log *slog.Logger) error {
	subm := filepath.Base(filepath.Clean(dir))
	for _, task := range b.tasks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.runTask(ctx, subm, dir, task, cnt, log.With("submission", subm, "task", task.Name))
	}
	return ctx.Err()
}

func (b *Batch) runTask(ctx context.Context, subm, dir string, task api.Task, cnt *counters, log *slog.Logger) {
	b.gath.StartTask(subm, task)
	cnt.answers.Inc()

	loc := Location(dir, task)
	path, err := b.res.Resolve(ctx, loc)
	if err != nil {
		a := answer.New(loc, task)
		openErr := a.MarkOpenError(err)
		log.Warn("artifact unavailable", "location", loc, "err", err)
		cnt.openErrors.Inc()
		b.gath.FinishExtract(subm, a, openErr)
		b.gath.FinishTask(subm, a, openErr)
		return
	}

	a := answer.New(path, task)
	_, openErr := b.proc.GetCode(ctx, a)
	if openErr != nil {
		cnt.openErrors.Inc()
	}
	b.gath.FinishExtract(subm, a, openErr)

	_, execErr := b.proc.Execute(ctx, a, func(idx int, c answer.Case) {
		if c.Err != nil {
			cnt.execErrors.Inc()
		}
		b.gath.FinishCase(subm, a.TaskName, idx, c)
	})
	if execErr != nil && ctx.Err() == nil {
		log.Warn("some test cases failed", "err", execErr)
	}
	b.gath.FinishTask(subm, a, errors.Join(openErr, execErr))
}

// Location is where the artifact of task lives for submission directory
// dir. Remote and absolute locations are used as is.
func Location(dir string, task api.Task) string {
	loc := task.Location()
	if fetch.IsRemote(loc) || filepath.IsAbs(loc) {
		return loc
	}
	return filepath.Join(dir, loc)
}
