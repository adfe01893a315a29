package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Experiment prefix policies
const (
	ExperimentPrefixCollision = "collision"
	ExperimentPrefixAlways    = "always"
)

// Config represents geoprep configuration options
type Config struct {
	// Prefix names every output file: <prefix>.tsv, <prefix>_md5sum.tsv, ...
	Prefix string `yaml:"prefix"`

	// Suffixes lists accepted filename endings
	Suffixes []string `yaml:"suffixes"`

	// Exclude lists path substrings that drop a file or directory
	Exclude []string `yaml:"exclude"`

	// SkipBasenamePrefixes drops files whose basename starts with any entry
	SkipBasenamePrefixes []string `yaml:"skip_basename_prefixes"`

	// SkipPublicAccessions drops files that look like public archive downloads
	SkipPublicAccessions bool `yaml:"skip_public_accessions"`

	// TenX enables 10x matrix discovery and the pairs and 10x tables
	TenX bool `yaml:"tenx"`

	// Workers bounds concurrent checksum computation
	Workers int `yaml:"workers"`

	// Dest is the collection directory; empty means <prefix>_all_files_copied
	Dest string `yaml:"dest"`

	// ExperimentPrefix is "collision" or "always"
	ExperimentPrefix string `yaml:"experiment_prefix"`

	// Report writes <prefix>_report.md and <prefix>_report.html
	Report bool `yaml:"report"`

	// LogLevel controls console verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables a per-run log file in this directory when set
	LogDir string `yaml:"log_dir"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Prefix:               "sample_collection",
		Suffixes:             []string{".fastq.gz", ".fq.gz"},
		Exclude:              []string{},
		SkipBasenamePrefixes: []string{"Undetermined", "Unmapped"},
		SkipPublicAccessions: true,
		TenX:                 false,
		Workers:              4,
		ExperimentPrefix:     ExperimentPrefixCollision,
		LogLevel:             "info",
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields defaults; a malformed one is an error.
// Keys present in the file replace defaults, including empty lists and false.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	set := func(key string) bool {
		_, ok := rawMap[key]
		return ok
	}

	if set("prefix") {
		cfg.Prefix = fileCfg.Prefix
	}
	if set("suffixes") {
		cfg.Suffixes = fileCfg.Suffixes
	}
	if set("exclude") {
		cfg.Exclude = fileCfg.Exclude
	}
	if set("skip_basename_prefixes") {
		cfg.SkipBasenamePrefixes = fileCfg.SkipBasenamePrefixes
	}
	if set("skip_public_accessions") {
		cfg.SkipPublicAccessions = fileCfg.SkipPublicAccessions
	}
	if set("tenx") {
		cfg.TenX = fileCfg.TenX
	}
	if set("workers") {
		cfg.Workers = fileCfg.Workers
	}
	if set("dest") {
		cfg.Dest = fileCfg.Dest
	}
	if set("experiment_prefix") {
		cfg.ExperimentPrefix = fileCfg.ExperimentPrefix
	}
	if set("report") {
		cfg.Report = fileCfg.Report
	}
	if set("log_level") {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if set("log_dir") {
		cfg.LogDir = fileCfg.LogDir
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .geoprep/config.yaml in the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".geoprep", "config.yaml"))
}

// Overrides carries CLI flag values; nil fields leave the configuration unchanged
type Overrides struct {
	Prefix               *string
	Suffixes             *[]string
	Exclude              *[]string
	SkipBasenamePrefixes *[]string
	SkipPublicAccessions *bool
	TenX                 *bool
	Workers              *int
	Dest                 *string
	ExperimentPrefix     *string
	Report               *bool
	LogLevel             *string
	LogDir               *string
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values take precedence over config file settings.
func (c *Config) MergeWithFlags(o Overrides) {
	if o.Prefix != nil {
		c.Prefix = *o.Prefix
	}
	if o.Suffixes != nil {
		c.Suffixes = *o.Suffixes
	}
	if o.Exclude != nil {
		c.Exclude = *o.Exclude
	}
	if o.SkipBasenamePrefixes != nil {
		c.SkipBasenamePrefixes = *o.SkipBasenamePrefixes
	}
	if o.SkipPublicAccessions != nil {
		c.SkipPublicAccessions = *o.SkipPublicAccessions
	}
	if o.TenX != nil {
		c.TenX = *o.TenX
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.Dest != nil {
		c.Dest = *o.Dest
	}
	if o.ExperimentPrefix != nil {
		c.ExperimentPrefix = *o.ExperimentPrefix
	}
	if o.Report != nil {
		c.Report = *o.Report
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
}

// DestDir returns the collection directory name
func (c *Config) DestDir() string {
	if c.Dest != "" {
		return c.Dest
	}
	return c.Prefix + "_all_files_copied"
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Prefix) == "" {
		return fmt.Errorf("prefix cannot be empty")
	}
	if strings.HasSuffix(c.Prefix, "/") || strings.HasSuffix(c.Prefix, string(filepath.Separator)) {
		return fmt.Errorf("prefix %q must name a file, not a directory", c.Prefix)
	}

	if len(c.Suffixes) == 0 {
		return fmt.Errorf("suffixes cannot be empty")
	}
	for _, s := range c.Suffixes {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("suffixes cannot contain an empty entry")
		}
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}

	if c.ExperimentPrefix != ExperimentPrefixCollision && c.ExperimentPrefix != ExperimentPrefixAlways {
		return fmt.Errorf("invalid experiment_prefix %q, must be one of: %s, %s",
			c.ExperimentPrefix, ExperimentPrefixCollision, ExperimentPrefixAlways)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
