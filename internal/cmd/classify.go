package cmd

import (
	"errors"
	"strings"

	"github.com/harrison/geoprep/internal/classify"
	"github.com/harrison/geoprep/internal/writers"
	"github.com/spf13/cobra"
)

// NewClassifyCommand creates the classify subcommand
func NewClassifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <path>...",
		Short: "Show how file names are classified",
		Long: `Print the sample, lane and read role geoprep derives from each path,
or the reason a path cannot be classified. Use it to check a naming scheme
before running prepare. Files are not opened.

Examples:
  geoprep classify sampleA_S1_L001_R1_001.fastq.gz
  geoprep classify --explain run1/*.fastq.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: classifyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: $GEOPREP_CONFIG or .geoprep/config.yaml)")
	cmd.Flags().StringArray("suffix", nil, "Accepted filename suffix (repeatable, default .fastq.gz and .fq.gz)")
	cmd.Flags().Bool("explain", false, "Add a column listing each name token and the rule it matched")

	return cmd
}

func classifyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	explain, _ := cmd.Flags().GetBool("explain")

	return writers.WriteTSV(cmd.OutOrStdout(), classifyTable(classify.New(cfg.Suffixes), args, explain))
}

// classifyTable builds one row per path. Unclassified paths carry the reason
// in the note column.
func classifyTable(c *classify.Classifier, paths []string, explain bool) writers.Table {
	t := writers.Table{Header: []string{"path", "kind", "group", "sample", "lane", "role", "note"}}
	for _, p := range paths {
		cl, err := c.Classify(p)
		if err != nil {
			reason := err.Error()
			var uerr *classify.UnclassifiedError
			if errors.As(err, &uerr) {
				reason = uerr.Reason
			}
			t.Rows = append(t.Rows, []string{p, "unclassified", "-", "-", "-", "-", reason})
			continue
		}

		lane := cl.LaneKey
		if lane == "" {
			lane = "-"
		}
		note := ""
		if explain {
			note = strings.Join(c.Explain(p), " ")
		}
		t.Rows = append(t.Rows, []string{p, cl.Kind.String(), cl.GroupKey(), cl.SampleKey, lane, string(cl.Role), note})
	}
	return t
}

