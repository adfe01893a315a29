// Package pipeline wires discovery, grouping, planning, checksums and output
// writing into one prepare run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/geoprep/internal/checksum"
	"github.com/harrison/geoprep/internal/classify"
	"github.com/harrison/geoprep/internal/collect"
	"github.com/harrison/geoprep/internal/filelock"
	"github.com/harrison/geoprep/internal/fileutil"
	"github.com/harrison/geoprep/internal/grouping"
	"github.com/harrison/geoprep/internal/models"
	"github.com/harrison/geoprep/internal/report"
	"github.com/harrison/geoprep/internal/writers"
)

// Logger is the logging surface the pipeline needs
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogProgress(done, total int)
	LogSummary(summary models.RunSummary)
}

// Options configures a run
type Options struct {
	Root                 string
	Prefix               string
	Suffixes             []string
	Exclude              []string
	SkipBasenamePrefixes []string
	SkipPublicAccessions bool
	TenX                 bool
	Workers              int
	Dest                 string
	Policy               collect.Policy
	Report               bool
	RunID                string
}

// Discovery is the classified and grouped view of a tree
type Discovery struct {
	Root         string
	Visited      int
	Matched      int
	Skipped      int
	Classified   []models.ClassifiedFile
	Unclassified []*classify.UnclassifiedError
	ScanErrors   []error
	Groups       *grouping.Result
}

// Kept returns the classified entries that survived grouping, in row order
func (d *Discovery) Kept() []models.ClassifiedFile {
	byPath := make(map[string]models.ClassifiedFile, len(d.Classified))
	for _, c := range d.Classified {
		byPath[c.File.Path] = c
	}
	files := d.Groups.Files()
	out := make([]models.ClassifiedFile, 0, len(files))
	for _, f := range files {
		out = append(out, byPath[f.Path])
	}
	return out
}

// Result is the outcome of Run
type Result struct {
	Summary        models.RunSummary
	Discovery      *Discovery
	Plan           *collect.Plan
	ChecksumErrors []*checksum.FileError
	SidecarErrors  []*checksum.FileError
}

// Discover scans opts.Root, applies skip rules, classifies every candidate and
// groups the classified files
func Discover(opts Options, logger Logger) (*Discovery, error) {
	scanOpts := fileutil.ScanOptions{
		Suffixes: opts.Suffixes,
		Exclude:  opts.Exclude,
	}
	if opts.TenX {
		scanOpts.Names = classify.TenXNames()
	}
	if opts.Dest != "" {
		scanOpts.SkipPaths = []string{opts.Dest}
	}

	scan, err := fileutil.ScanDirectory(opts.Root, scanOpts)
	if err != nil {
		return nil, err
	}
	for _, e := range scan.Errors {
		logger.LogWarn(e.Error())
	}

	d := &Discovery{
		Root:       scan.Root,
		Visited:    scan.Visited,
		Matched:    len(scan.Files),
		ScanErrors: scan.Errors,
	}
	logger.LogInfo(fmt.Sprintf("Found %d candidate files under %s (%d inspected, %d excluded)", d.Matched, d.Root, d.Visited, scan.Excluded))

	c := classify.New(opts.Suffixes)
	for _, f := range scan.Files {
		if classify.HasSkippedPrefix(f.Basename, opts.SkipBasenamePrefixes) {
			d.Skipped++
			logger.LogDebug("Skipping " + f.Path + ": basename prefix")
			continue
		}
		if opts.SkipPublicAccessions && classify.LooksLikePublicAccession(f.Basename) {
			d.Skipped++
			logger.LogDebug("Skipping " + f.Path + ": looks like a public archive file")
			continue
		}

		cl, err := c.Classify(f.Path)
		if err != nil {
			var uerr *classify.UnclassifiedError
			if !errors.As(err, &uerr) {
				return nil, err
			}
			d.Unclassified = append(d.Unclassified, uerr)
			logger.LogWarn(uerr.Error())
			continue
		}
		if cl.Kind == models.KindTenX && !opts.TenX {
			d.Skipped++
			continue
		}
		d.Classified = append(d.Classified, models.ClassifiedFile{File: f, Classification: cl})
	}

	d.Groups = grouping.Group(d.Classified)
	for _, c := range d.Groups.Conflicts {
		logger.LogWarn(c.Error())
	}
	return d, nil
}

// OutputPaths lists every file a run writes for prefix
type OutputPaths struct {
	SampleTable, SampleTableFull     string
	ChecksumTable, ChecksumTableFull string
	PairsTable, PairsTableFull       string
	TenXTable, TenXTableFull         string
	ShellScript, PowerShellScript    string
	Report, ReportHTML               string
	Lock                             string
}

// PathsFor derives output paths from prefix
func PathsFor(prefix string) OutputPaths {
	return OutputPaths{
		SampleTable:       prefix + ".tsv",
		SampleTableFull:   prefix + "_fullpath.tsv",
		ChecksumTable:     prefix + "_md5sum.tsv",
		ChecksumTableFull: prefix + "_md5sum_fullpath.tsv",
		PairsTable:        prefix + "_pairs.tsv",
		PairsTableFull:    prefix + "_pairs_fullpath.tsv",
		TenXTable:         prefix + "_10x.tsv",
		TenXTableFull:     prefix + "_10x_fullpath.tsv",
		ShellScript:       prefix + "_collection_script.sh",
		PowerShellScript:  prefix + "_collection_script.ps1",
		Report:            prefix + "_report.md",
		ReportHTML:        prefix + "_report.html",
		Lock:              prefix + ".lock",
	}
}

// Run performs a full prepare run: discovery, collection plan, checksums and
// outputs. Outputs are only written once every checksum has completed, so a
// cancelled run leaves previous outputs untouched.
func Run(ctx context.Context, opts Options, logger Logger) (result *Result, err error) {
	start := time.Now()
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}
	if opts.Policy == "" {
		opts.Policy = collect.PrefixOnCollision
	}
	if !opts.Policy.Valid() {
		return nil, fmt.Errorf("invalid experiment prefix policy %q", opts.Policy)
	}
	paths := PathsFor(opts.Prefix)

	lock, err := filelock.AcquireRunLock(paths.Lock)
	if err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			return nil, fmt.Errorf("another run is using prefix %s: %w", opts.Prefix, err)
		}
		return nil, err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	d, err := Discover(opts, logger)
	if err != nil {
		return nil, err
	}

	kept := d.Groups.Files()
	plan := collect.Resolve(kept, opts.Policy)
	for _, e := range plan.Renamed() {
		logger.LogInfo(fmt.Sprintf("Collecting %s as %s", e.File.Path, e.Destination))
	}

	logger.LogInfo(fmt.Sprintf("Computing checksums for %d files with %d workers", len(kept), opts.Workers))
	batch, err := checksum.ComputeAll(ctx, kept, opts.Workers, logger.LogProgress)
	if err != nil {
		return nil, fmt.Errorf("checksums interrupted: %w", err)
	}
	for _, e := range batch.Errors {
		logger.LogWarn(e.Error())
	}
	for _, e := range batch.SidecarErrors {
		logger.LogWarn("could not cache digest: " + e.Error())
	}

	summary := models.RunSummary{
		RunID:            opts.RunID,
		Root:             d.Root,
		Visited:          d.Visited,
		Matched:          d.Matched,
		Skipped:          d.Skipped,
		Unclassified:     len(d.Unclassified),
		Conflicts:        len(d.Groups.Conflicts),
		Accepted:         len(kept),
		FastqGroups:      len(d.Groups.Groups(models.KindFastq)),
		TenXSamples:      len(d.Groups.Groups(models.KindTenX)),
		CachedChecksums:  batch.Cached,
		ChecksumFailures: len(batch.Errors),
		Renamed:          len(plan.Renamed()),
		ScanErrors:       len(d.ScanErrors),
		DestDir:          opts.Dest,
		ShellScript:      paths.ShellScript,
		PowerShellScript: paths.PowerShellScript,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := &outputWriter{}
	w.table(paths.SampleTable, paths.SampleTableFull, writers.SampleTables(d.Groups, plan))
	w.table(paths.ChecksumTable, paths.ChecksumTableFull, writers.ChecksumTables(batch.Records, plan))
	if opts.TenX {
		w.table(paths.PairsTable, paths.PairsTableFull, writers.PairsTables(d.Groups, plan))
		w.table(paths.TenXTable, paths.TenXTableFull, writers.TenXTables(d.Groups, plan))
	}
	entries := plan.Entries()
	w.write(paths.ShellScript, 0755, func(out io.Writer) error {
		return writers.WriteShellScript(out, opts.Dest, entries)
	})
	w.write(paths.PowerShellScript, 0644, func(out io.Writer) error {
		return writers.WritePowerShellScript(out, opts.Dest, entries)
	})

	summary.Duration = time.Since(start)
	if opts.Report && w.err == nil {
		rs := summary
		rs.Outputs = append(append([]string{}, w.written...), paths.Report, paths.ReportHTML)
		md := report.Markdown(reportData(rs, d, plan, batch))
		w.write(paths.Report, 0644, func(out io.Writer) error {
			_, err := out.Write(md)
			return err
		})
		if w.err == nil {
			page, err := report.HTML("geoprep report "+opts.Prefix, md)
			if err != nil {
				return nil, err
			}
			w.write(paths.ReportHTML, 0644, func(out io.Writer) error {
				_, err := out.Write(page)
				return err
			})
		}
	}
	if w.err != nil {
		return nil, w.err
	}
	summary.Outputs = w.written

	logger.LogSummary(summary)
	return &Result{
		Summary:        summary,
		Discovery:      d,
		Plan:           plan,
		ChecksumErrors: batch.Errors,
		SidecarErrors:  batch.SidecarErrors,
	}, nil
}

// outputWriter writes files atomically and stops at the first failure
type outputWriter struct {
	written []string
	err     error
}

func (o *outputWriter) write(path string, perm os.FileMode, fn func(io.Writer) error) {
	if o.err != nil {
		return
	}
	if err := filelock.WriteAtomic(path, perm, fn); err != nil {
		o.err = fmt.Errorf("failed to create output %s: %w", path, err)
		return
	}
	o.written = append(o.written, path)
}

func (o *outputWriter) table(base, full string, v writers.Variants) {
	o.write(base, 0644, func(out io.Writer) error { return writers.WriteTSV(out, v.Base) })
	o.write(full, 0644, func(out io.Writer) error { return writers.WriteTSV(out, v.Full) })
}

func reportData(s models.RunSummary, d *Discovery, plan *collect.Plan, batch *checksum.Batch) report.Data {
	data := report.Data{Summary: s, GeneratedAt: time.Now()}
	for _, e := range plan.Renamed() {
		data.Renamed = append(data.Renamed, report.Rename{Source: e.File.Path, Destination: e.Destination})
	}
	for _, u := range d.Unclassified {
		data.Unclassified = append(data.Unclassified, u.Path+": "+u.Reason)
	}
	for _, c := range d.Groups.Conflicts {
		data.Conflicts = append(data.Conflicts, c.Error())
	}
	for _, e := range batch.Errors {
		data.Failures = append(data.Failures, e.Error())
	}
	return data
}
