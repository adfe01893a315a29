package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for geoprep
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geoprep",
		Short: "Prepare sequencing files for a GEO submission",
		Long: `geoprep walks a directory tree of sequencing runs, classifies FASTQ
(and optionally 10x matrix) files by their names, and writes the sample
tables, md5sum tables and collection scripts a GEO submission needs.

Nothing is copied or moved: the generated collection scripts do that
once the tables have been reviewed.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewPrepareCommand())
	cmd.AddCommand(NewClassifyCommand())
	cmd.AddCommand(NewVerifyCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
