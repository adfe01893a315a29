package cmd

import (
	"fmt"

	"github.com/harrison/geoprep/internal/collect"
	"github.com/harrison/geoprep/internal/config"
	"github.com/harrison/geoprep/internal/pipeline"
	"github.com/spf13/cobra"
)

// addDiscoveryFlags registers the flags shared by every command that scans a tree
func addDiscoveryFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: $GEOPREP_CONFIG or .geoprep/config.yaml)")
	cmd.Flags().StringP("input", "i", ".", "Root directory to scan")
	cmd.Flags().StringArray("suffix", nil, "Accepted filename suffix (repeatable, default .fastq.gz and .fq.gz)")
	cmd.Flags().StringArray("exclude", nil, "Skip paths containing this substring (repeatable)")
	cmd.Flags().StringArray("skip-prefix", nil, "Skip files whose name starts with this prefix (repeatable)")
	cmd.Flags().Bool("no-skip-accessions", false, "Keep files that look like public archive downloads")
	cmd.Flags().Bool("tenx", false, "Also collect 10x filtered_feature_bc_matrix outputs")
	cmd.Flags().Int("workers", -1, "Concurrent file workers (-1 = use config)")
	cmd.Flags().String("log-level", "", "Console log level: trace, debug, info, warn, error")
	cmd.Flags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")
}

// addOutputFlags registers the flags that only affect written outputs
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("prefix", "", "Output file prefix (default: sample_collection)")
	cmd.Flags().String("dest", "", "Collection directory (default: <prefix>_all_files_copied)")
	cmd.Flags().String("experiment-prefix", "", "Prefix destinations with the experiment name: collision or always")
	cmd.Flags().Bool("report", false, "Also write <prefix>_report.md and <prefix>_report.html")
	cmd.Flags().String("log-dir", "", "Write a per-run log file to this directory")
}

// loadConfig resolves the config file, applies changed flags on top and
// validates the result
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFlag, _ := cmd.Flags().GetString("config")
	configPath := config.ResolveConfigPath(configFlag, ".")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	flags := cmd.Flags()
	var o config.Overrides
	stringFlag := func(name string) *string {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	arrayFlag := func(name string) *[]string {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetStringArray(name)
		return &v
	}
	boolFlag := func(name string) *bool {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	o.Suffixes = arrayFlag("suffix")
	o.Exclude = arrayFlag("exclude")
	o.SkipBasenamePrefixes = arrayFlag("skip-prefix")
	if noSkip := boolFlag("no-skip-accessions"); noSkip != nil {
		skip := !*noSkip
		o.SkipPublicAccessions = &skip
	}
	o.TenX = boolFlag("tenx")
	if flags.Changed("workers") {
		workers, _ := flags.GetInt("workers")
		o.Workers = &workers
	}
	o.LogLevel = stringFlag("log-level")
	if verbose := boolFlag("verbose"); verbose != nil && *verbose {
		debug := "debug"
		o.LogLevel = &debug
	}
	o.Prefix = stringFlag("prefix")
	o.Dest = stringFlag("dest")
	o.ExperimentPrefix = stringFlag("experiment-prefix")
	o.Report = boolFlag("report")
	o.LogDir = stringFlag("log-dir")

	cfg.MergeWithFlags(o)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// pipelineOptions maps the merged configuration onto a pipeline run
func pipelineOptions(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	input, _ := cmd.Flags().GetString("input")
	return pipeline.Options{
		Root:                 input,
		Prefix:               cfg.Prefix,
		Suffixes:             cfg.Suffixes,
		Exclude:              cfg.Exclude,
		SkipBasenamePrefixes: cfg.SkipBasenamePrefixes,
		SkipPublicAccessions: cfg.SkipPublicAccessions,
		TenX:                 cfg.TenX,
		Workers:              cfg.Workers,
		Dest:                 cfg.DestDir(),
		Policy:               collect.Policy(cfg.ExperimentPrefix),
		Report:               cfg.Report,
	}
}
