package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/batch"
	"github.com/programme-lv/answers/internal/environment"
	"github.com/programme-lv/answers/internal/fetch"
	"github.com/programme-lv/answers/internal/gatherer"
	"github.com/programme-lv/answers/internal/gatherer/filegath"
	"github.com/programme-lv/answers/internal/gatherer/natsgath"
	"github.com/programme-lv/answers/internal/gatherer/sqsgath"
	"github.com/programme-lv/answers/internal/gatherer/termgath"
	"github.com/programme-lv/answers/internal/tasks"
	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "tasks", Aliases: []string{"t"}, Usage: "TOML or JSON task file", Required: true, Sources: envVars("TASKS")},
		&cli.StringFlag{Name: "root", Usage: "treat every subdirectory of `DIR` as a submission", Sources: envVars("ROOT")},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "report directory, empty disables report files", Sources: envVars("OUT_DIR")},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "submissions processed in parallel", Value: 1, Sources: envVars("JOBS")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print every test case"},
		&cli.StringFlag{Name: "cache-dir", Usage: "where downloaded and decompressed artifacts are kept", Sources: envVars("CACHE_DIR")},
		&cli.StringFlag{Name: "nats-url", Usage: "stream results to this NATS server", Sources: envVars("NATS_URL")},
		&cli.StringFlag{Name: "nats-subject", Usage: "NATS subject for results", Sources: envVars("NATS_SUBJECT")},
		&cli.StringFlag{Name: "sqs-url", Usage: "send results to this SQS queue", Sources: envVars("SQS_URL")},
		&cli.StringFlag{Name: "aws-region", Usage: "region for S3 and SQS", Sources: envVars("AWS_REGION")},
	}
	return &cli.Command{
		Name:      "run",
		Usage:     "apply every task to every submission directory",
		ArgsUsage: "[SUBMISSION_DIR...]",
		Flags:     append(flags, toolFlags()...),
		Action:    runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	logger := slog.Default()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	taskList, err := tasks.Parse(cmd.String("tasks"))
	if err != nil {
		return err
	}
	dirs, err := submissionDirs(cmd.String("root"), cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return errors.New("no submission directories given")
	}

	resolver, err := newResolver(ctx, cfg, taskList, logger)
	if err != nil {
		return err
	}

	term := termgath.New(os.Stdout)
	term.Verbose = cmd.Bool("verbose")
	gath := gatherer.Multi{term}
	if cfg.OutDir != "" {
		gath = append(gath, filegath.New(cfg.OutDir, logger))
	}
	if cfg.NatsURL != "" {
		ng, closeNats, err := natsgath.Connect(cfg.NatsURL, cfg.NatsSubject, logger)
		if err != nil {
			return err
		}
		defer closeNats()
		gath = append(gath, ng)
	}
	if cfg.SqsURL != "" {
		sg, err := sqsgath.NewFromConfig(ctx, cfg.AwsRegion, cfg.SqsURL, logger)
		if err != nil {
			return err
		}
		gath = append(gath, sg)
	}

	b := batch.New(batch.Options{
		Tasks:     taskList,
		Processor: newProcessor(cfg, logger),
		Resolver:  resolver,
		Gatherer:  gath,
		Jobs:      int(cmd.Int("jobs")),
		Logger:    logger,
	})
	_, err = b.Run(ctx, dirs)
	return err
}

// newResolver creates an S3 client only when some task lives in S3.
func newResolver(ctx context.Context, cfg *environment.Config, taskList []api.Task, logger *slog.Logger) (*fetch.Fetcher, error) {
	remote := slices.ContainsFunc(taskList, func(t api.Task) bool {
		return fetch.IsRemote(t.Location())
	})
	if !remote {
		return fetch.New(cfg.CacheDir, nil, logger), nil
	}
	client, err := fetch.NewS3Client(ctx, cfg.AwsRegion)
	if err != nil {
		return nil, err
	}
	return fetch.New(cfg.CacheDir, client, logger), nil
}

// submissionDirs returns the explicit directories followed by the sorted
// subdirectories of root.
func submissionDirs(root string, explicit []string) ([]string, error) {
	dirs := slices.Clone(explicit)
	if root == "" {
		return dirs, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions in %s: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs, nil
}
