package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/harrison/geoprep/internal/display"
	"github.com/harrison/geoprep/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewPrepareCommand creates the prepare command
func NewPrepareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Write sample tables, md5sum tables and collection scripts",
		Long: `Scan a directory tree for sequencing files and write everything a GEO
submission needs to collect them:

  <prefix>.tsv                    one row per sample and lane (R1, R2, I1[, I2])
  <prefix>_md5sum.tsv             file_name and md5sum for every listed file
  <prefix>_collection_script.sh   copies every file into one flat directory
  <prefix>_collection_script.ps1  the same for PowerShell

Each table also has a _fullpath variant listing absolute source paths.
With --tenx, <prefix>_pairs.tsv and <prefix>_10x.tsv are written too.

MD5 digests are cached next to each file as <file>.md5sum and reused on
later runs.

Configuration is loaded from --config, $GEOPREP_CONFIG or
.geoprep/config.yaml. CLI flags override configuration file settings.

Examples:
  geoprep prepare --input /data/runs
  geoprep prepare -i /data/runs --exclude tmp --exclude old --prefix mouse_liver
  geoprep prepare -i /data/runs --tenx --report --workers 8`,
		Args: cobra.NoArgs,
		RunE: prepareCommand,
	}

	addDiscoveryFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}

func prepareCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := pipelineOptions(cmd, cfg)
	opts.RunID = uuid.New().String()

	log, closeLog, err := newRunLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogDir, opts.RunID)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, opts, log)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("interrupted, no outputs were written: %w", err)
		}
		return err
	}

	displayWarnings(cmd.ErrOrStderr(), res)

	out := cmd.OutOrStdout()
	progress := display.NewProgressIndicator(out, len(res.Summary.Outputs), display.UseColor(out))
	progress.Start("Outputs")
	for _, path := range res.Summary.Outputs {
		progress.Step(path)
	}
	message := fmt.Sprintf("%d files listed for collection into %s", res.Summary.Accepted, opts.Dest)
	if res.Summary.HasWarnings() {
		message += " (review the warnings above)"
	}
	progress.Complete(message)
	return nil
}

// displayWarnings prints one warning block per kind of recoverable problem
func displayWarnings(w io.Writer, res *pipeline.Result) {
	color := display.UseColor(w)
	d := res.Discovery

	if len(d.Unclassified) > 0 {
		files := make([]string, len(d.Unclassified))
		for i, u := range d.Unclassified {
			files[i] = u.Path + " (" + u.Reason + ")"
		}
		display.Warning{
			Title:      fmt.Sprintf("%d file(s) could not be classified and were left out", len(files)),
			Files:      files,
			Suggestion: "Rename them to carry a read role (R1, R2, I1, I2) or add an --exclude pattern",
		}.Display(w, color)
	}

	if len(d.Groups.Conflicts) > 0 {
		files := make([]string, len(d.Groups.Conflicts))
		for i, c := range d.Groups.Conflicts {
			files[i] = c.Rejected
		}
		display.Warning{
			Title:      fmt.Sprintf("%d file(s) claimed a read slot that was already taken", len(files)),
			Message:    "The first file by sorted path was kept; these were left out",
			Files:      files,
			Suggestion: "Exclude duplicate copies or re-run with --log-level debug to see the kept files",
		}.Display(w, color)
	}

	if len(res.ChecksumErrors) > 0 {
		files := make([]string, len(res.ChecksumErrors))
		for i, e := range res.ChecksumErrors {
			files[i] = e.Error()
		}
		display.Warning{
			Title:      fmt.Sprintf("%d checksum(s) could not be computed", len(files)),
			Message:    "These files are listed with md5sum none",
			Files:      files,
			Suggestion: "Check the files are readable and re-run prepare",
		}.Display(w, color)
	}

	if len(d.ScanErrors) > 0 {
		files := make([]string, len(d.ScanErrors))
		for i, e := range d.ScanErrors {
			files[i] = e.Error()
		}
		display.Warning{
			Title: fmt.Sprintf("%d path(s) could not be scanned", len(files)),
			Files: files,
		}.Display(w, color)
	}
}
