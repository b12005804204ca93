package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/statementform/internal/config"
	"github.com/cleared-dev/statementform/internal/download"
	"github.com/cleared-dev/statementform/internal/form"
	"github.com/cleared-dev/statementform/internal/notice"
	"github.com/cleared-dev/statementform/internal/selector"
	"github.com/cleared-dev/statementform/internal/uploader"
)

// errNotProcessed keeps the failure cause out of the CLI's error line; it is logged at debug level.
var errNotProcessed = errors.New("statement not processed")

func newProcessCommand(opts *globalOptions) *cobra.Command {
	var outDir string
	var endpoint string

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Upload a statement and save " + download.Filename,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if endpoint != "" {
				cfg.Endpoint = endpoint
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}

			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			logger := opts.logger(cmd.ErrOrStderr())
			return runProcess(cmd.Context(), cfg, path, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to save the processed statement in")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "processing service upload URL")

	return cmd
}

func runProcess(ctx context.Context, cfg *config.Config, path string, logger *log.Logger, out io.Writer) error {
	f := form.New(
		uploader.New(cfg.Endpoint, uploader.WithLogger(logger)),
		download.NewDirSaver(cfg.Output.Dir),
		notice.NewBoard(cfg.NoticeDuration()),
		logger,
	)

	// An unreadable path is a cancelled pick: nothing gets selected.
	if path != "" {
		file, err := selector.FromPath(path)
		if err != nil {
			logger.Warn("cannot select file", "err", err)
		} else {
			if !selector.Matches(file.Name) {
				logger.Warn("file does not look like a spreadsheet", "file", file.Name, "accept", selector.Accept)
			}
			if err := f.Select(file); err != nil {
				return fmt.Errorf("selecting %s: %w", file.Name, err)
			}
		}
	}

	saved, err := f.Submit(ctx)
	if n, ok := f.Notices().Latest(); ok {
		fmt.Fprintln(out, n.Message)
	}
	if err != nil {
		return errNotProcessed
	}
	fmt.Fprintf(out, "Saved %s\n", saved)
	return nil
}
