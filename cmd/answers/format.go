package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/programme-lv/answers/internal/format"
	"github.com/programme-lv/answers/internal/textenc"
	"github.com/urfave/cli/v3"
)

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "beautify Java source with astyle; reads stdin when FILE is - or missing",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "formatter", Usage: "astyle executable", Sources: envVars("FORMATTER")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 1 {
				return errors.New("expected at most one FILE")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var src []byte
			if p := cmd.Args().First(); p == "" || p == "-" {
				src, err = io.ReadAll(cmd.Root().Reader)
			} else {
				src, err = os.ReadFile(p)
			}
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}

			out, err := format.NewAstyle(cfg.Formatter).Format(ctx, textenc.Decode(src).Text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, out)
			return nil
		},
	}
}
