package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/harrison/geoprep/internal/display"
	"github.com/harrison/geoprep/internal/models"
	"github.com/harrison/geoprep/internal/pipeline"
	"github.com/harrison/geoprep/internal/verify"
	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify subcommand
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every collected file is readable",
		Long: `Scan like prepare, then read every accepted file end to end:
FASTQ files are parsed and their records counted, other compressed files
must decompress cleanly. Read files of one sample and lane must hold the
same number of records. No outputs are written.

Exit code: 0 if every file passed, 1 otherwise`,
		Args: cobra.NoArgs,
		RunE: verifyCommand,
	}

	addDiscoveryFlags(cmd)

	return cmd
}

func verifyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := newRunLogger(cmd.ErrOrStderr(), cfg.LogLevel, "", "")
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := pipeline.Discover(pipelineOptions(cmd, cfg), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files := d.Kept()
	log.LogInfo(fmt.Sprintf("Verifying %d files with %d workers", len(files), cfg.Workers))
	results, err := verify.Run(ctx, files, cfg.Workers)
	if err != nil {
		return fmt.Errorf("verification interrupted: %w", err)
	}

	failed := printVerifyResults(cmd.OutOrStdout(), results)
	mismatches := verify.PairMismatches(d.Groups, results)
	if len(mismatches) > 0 {
		groups := make([]string, len(mismatches))
		for i, m := range mismatches {
			groups[i] = m.Error()
		}
		w := cmd.ErrOrStderr()
		display.Warning{
			Title:      fmt.Sprintf("%d group(s) have read files with different record counts", len(groups)),
			Files:      groups,
			Suggestion: "Re-transfer the affected files; paired reads must have the same length",
		}.Display(w, display.UseColor(w))
	}

	if failed > 0 || len(mismatches) > 0 {
		return fmt.Errorf("%d of %d files failed verification, %d group(s) mismatched", failed, len(results), len(mismatches))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "All %d files verified.\n", len(results))
	return nil
}

// printVerifyResults writes one line per file and returns the failure count
func printVerifyResults(w io.Writer, results []verify.FileResult) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL  %s: %v\n", r.File.File.Path, r.Err)
		case r.Skipped:
			fmt.Fprintf(w, "SKIP  %s\n", r.File.File.Path)
		case r.File.Kind == models.KindFastq:
			fmt.Fprintf(w, "OK    %s (%d records)\n", r.File.File.Path, r.Records)
		default:
			fmt.Fprintf(w, "OK    %s (%d bytes)\n", r.File.File.Path, r.Bytes)
		}
	}
	return failed
}
