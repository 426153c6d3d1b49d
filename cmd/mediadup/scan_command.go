package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mediadup/internal/report"
	"mediadup/internal/scan"
	"mediadup/internal/store"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut        bool
		workers        int
		followSymlinks bool
		sizePrefilter  bool
		noSave         bool
		noReport       bool
	)

	cmd := &cobra.Command{
		Use:   "scan <root> [root...]",
		Short: "Scan one or more directories for duplicate media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			opts := scan.OptionsFromConfig(cfg)
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("follow-symlinks") {
				opts.SkipSymlinks = !followSymlinks
			}
			if cmd.Flags().Changed("size-prefilter") {
				opts.SizePrefilter = sizePrefilter
			}

			if !noReport {
				if err := scan.CheckDirectoryWritable(cfg.Paths.ReportDir); err != nil {
					return fmt.Errorf("report directory: %w", err)
				}
			}

			// One scan at a time per installation; concurrent scans would
			// interleave report files and session history.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "mediadup.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire scan lock: %w", err)
			}
			if !locked {
				return errors.New("another scan is already running")
			}
			defer lock.Unlock() //nolint:errcheck

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			coordinator, err := scan.New(opts, logger)
			if err != nil {
				return err
			}

			stopProgress := startProgress(coordinator, jsonOut)
			session, runErr := coordinator.Run(runCtx, args)
			stopProgress()

			if session == nil {
				return runErr
			}

			if !noSave {
				if err := ctx.withStore(func(s *store.Store) error {
					return s.SaveSession(cmd.Context(), session)
				}); err != nil {
					logger.Warn("session not archived", "error", err)
				}
			}

			if runErr == nil && !noReport {
				jsonPath, summaryPath, err := report.Write(cfg.Paths.ReportDir, session)
				if err != nil {
					return err
				}
				logger.Info("report written", "report", jsonPath, "summary", summaryPath)
			}

			if jsonOut {
				if err := printJSON(cmd, report.BuildDocument(session)); err != nil {
					return err
				}
				return runErr
			}

			printScanResult(cmd, session)
			return runErr
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the scan result as JSON")
	cmd.Flags().IntVar(&workers, "workers", 0, "Hashing worker count (0 = one per CPU core)")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", true, "Scan symlinks that resolve to regular files")
	cmd.Flags().BoolVar(&sizePrefilter, "size-prefilter", false, "Skip hashing files with a unique size")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the session in history")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "Do not write report files")
	return cmd
}

func printScanResult(cmd *cobra.Command, session *scan.Session) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Scan %s (%s)\n", session.Status, session.Elapsed().Round(elapsedRounding))
	fmt.Fprintf(out, "Files scanned: %s\n", humanize.Comma(session.FilesSeen))
	fmt.Fprintf(out, "Duplicate groups: %d\n", len(session.Groups))
	fmt.Fprintf(out, "Reclaimable space: %s\n", humanize.IBytes(uint64(session.ReclaimableBytes())))
	if session.ErrorCount > 0 {
		fmt.Fprintf(out, "Errors: %d (see report for details)\n", session.ErrorCount)
	}
	for _, rootErr := range session.RootErrors {
		fmt.Fprintf(out, "Skipped root %s: %s\n", rootErr.Root, rootErr.Message)
	}

	if len(session.Groups) == 0 {
		return
	}

	rows := make([]table.Row, 0, len(session.Groups))
	for i, group := range session.Groups {
		size := int64(0)
		if len(group.Files) > 0 {
			size = group.Files[0].Size
		}
		rows = append(rows, table.Row{
			i + 1,
			shortDigest(group.Digest),
			len(group.Files),
			humanize.IBytes(uint64(size)),
			group.Files[0].Path,
		})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		table.Row{"#", "Digest", "Copies", "Size", "First Copy"},
		rows, 1, 3, 4))
}

func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}
