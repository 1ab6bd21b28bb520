package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/7591yj/tg-webm-converter/internal/config"
	"github.com/7591yj/tg-webm-converter/internal/converter"
	"github.com/7591yj/tg-webm-converter/internal/history"
	"github.com/7591yj/tg-webm-converter/internal/logging"
	"github.com/7591yj/tg-webm-converter/internal/runner"
	"github.com/7591yj/tg-webm-converter/internal/services/ffmpeg"
)

type convertOptions struct {
	filePath     string
	iconFilePath string
	iconPath     string
	outputDir    string
}

func (o convertOptions) validate() error {
	set := 0
	for _, value := range []string{o.filePath, o.iconFilePath, o.iconPath} {
		if strings.TrimSpace(value) != "" {
			set++
		}
	}
	if set > 1 {
		return &usageError{errors.New("--file, --icon-file, and --icon are mutually exclusive")}
	}
	return nil
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts convertOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	outputDir := cfg.Paths.OutputDir
	if strings.TrimSpace(opts.outputDir) != "" {
		if outputDir, err = config.ExpandPath(opts.outputDir); err != nil {
			return err
		}
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	encoder := ffmpeg.NewCLI(
		ffmpeg.WithBinary(cfg.FFmpegBinary()),
		ffmpeg.WithLogDir(cfg.Paths.LogDir),
		ffmpeg.WithTimeout(time.Duration(cfg.FFmpeg.TimeoutSeconds)*time.Second),
	)

	conv, err := converter.New(outputDir,
		converter.WithFFmpeg(encoder),
		converter.WithFFprobeBinary(cfg.FFprobeBinary()),
		converter.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithWriter(cmd.OutOrStdout()),
		runner.WithEmoji(isatty.IsTerminal(os.Stdout.Fd())),
	}
	if cfg.History.Enabled {
		store, storeErr := history.Open(cfg.History.Path)
		if storeErr != nil {
			logger.Warn("history disabled", "error", storeErr)
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, runner.WithRecorder(store))
		}
	}

	r := runner.New(runner.Options{
		FilePath:     opts.filePath,
		IconFilePath: opts.iconFilePath,
		IconPath:     opts.iconPath,
	}, conv, runnerOpts...)

	summary, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if summary.Attempted == 0 {
		fmt.Fprintln(out, "No supported image files found in current directory")
		return nil
	}

	fmt.Fprintf(out, "Conversion complete! %d/%d files converted (output: %s)\n",
		summary.Converted, summary.Attempted, conv.OutputDir())
	if !summary.AllSucceeded() {
		return fmt.Errorf("%d of %d conversions failed", summary.Attempted-summary.Converted, summary.Attempted)
	}
	return nil
}
