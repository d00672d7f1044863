package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/programme-lv/answers/api"
	"github.com/programme-lv/answers/internal/answer"
	"github.com/urfave/cli/v3"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "print the source text of one submission file or archive",
		ArgsUsage: "FILE",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "jar, zip, java or other (default: from the extension)"},
			&cli.BoolFlag{Name: "files", Usage: "list extracted archive members instead of the text"},
		}, toolFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected exactly one FILE")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := cmd.Args().First()
			lang := cmd.String("lang")
			if lang == "" {
				lang = langFromPath(path)
			}

			a := answer.New(path, api.Task{Name: path, Lang: lang})
			code, err := newProcessor(cfg, slog.Default()).GetCode(ctx, a)
			if cmd.Bool("files") {
				for _, f := range a.FileList[1:] {
					fmt.Fprintln(cmd.Root().Writer, f)
				}
			} else {
				fmt.Fprintln(cmd.Root().Writer, code)
			}
			return err
		},
	}
}
