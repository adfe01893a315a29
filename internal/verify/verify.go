// Package verify checks that collected files are readable before submission.
// FASTQ files are parsed record by record; other compressed artifacts are
// decompressed to the end.
package verify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/harrison/geoprep/internal/grouping"
	"github.com/harrison/geoprep/internal/models"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"golang.org/x/sync/errgroup"
)

const (
	chunkBufSize = 10
	chunkSize    = 1000
)

// fastx readers share package-level parse state, so only one FASTQ file is
// parsed at a time. Decompression checks still run in parallel.
var fastqMu sync.Mutex

// FileResult is the outcome of checking one file
type FileResult struct {
	File    models.ClassifiedFile
	Records int   // FASTQ records read; zero for non-FASTQ files
	Bytes   int64 // Decompressed bytes read for non-FASTQ files
	Skipped bool  // File type has no integrity check
	Err     error
}

// OK reports whether the file passed or was skipped
func (r FileResult) OK() bool {
	return r.Err == nil
}

// CountFastqRecords parses path as FASTQ (optionally compressed) and returns
// the number of records
func CountFastqRecords(path string) (int, error) {
	fastqMu.Lock()
	defer fastqMu.Unlock()

	fq, err := fastx.NewDefaultReader(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}

	// ChunkChan reads to the end and closes the underlying file itself
	n := 0
	var firstErr error
	for chunk := range fq.ChunkChan(chunkBufSize, chunkSize) {
		if chunk.Err != nil {
			if firstErr == nil {
				firstErr = chunk.Err
			}
			continue
		}
		n += len(chunk.Data)
	}
	if firstErr != nil {
		return n, fmt.Errorf("parse %s: %w", path, firstErr)
	}
	return n, nil
}

// DrainCompressed reads path through to the end, decompressing when needed
func DrainCompressed(path string) (int64, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return n, fmt.Errorf("read %s: %w", path, err)
	}
	return n, nil
}

// Check verifies one file according to its kind and role
func Check(f models.ClassifiedFile) FileResult {
	res := FileResult{File: f}
	switch {
	case f.Kind == models.KindFastq:
		res.Records, res.Err = CountFastqRecords(f.File.Path)
	case f.Role == models.RoleH5:
		res.Skipped = true
	default:
		res.Bytes, res.Err = DrainCompressed(f.File.Path)
	}
	return res
}

// Run checks files on at most workers goroutines. Results keep input order.
func Run(ctx context.Context, files []models.ClassifiedFile, workers int) ([]FileResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Check(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// PairMismatch reports a FASTQ group whose read files disagree on record count
type PairMismatch struct {
	GroupKey string
	Counts   map[models.ReadRole]int
}

func (m PairMismatch) Error() string {
	roles := make([]string, 0, len(m.Counts))
	for _, r := range models.FastqRoles {
		if n, ok := m.Counts[r]; ok {
			roles = append(roles, fmt.Sprintf("%s=%d", r, n))
		}
	}
	return fmt.Sprintf("group %s has mismatched record counts: %v", m.GroupKey, roles)
}

// PairMismatches compares record counts of successfully parsed files within
// each FASTQ group of res
func PairMismatches(res *grouping.Result, results []FileResult) []PairMismatch {
	counts := make(map[string]int, len(results))
	for _, r := range results {
		if r.Err == nil && r.File.Kind == models.KindFastq {
			counts[r.File.File.Path] = r.Records
		}
	}

	var out []PairMismatch
	for _, g := range res.Groups(models.KindFastq) {
		m := PairMismatch{GroupKey: g.Key, Counts: map[models.ReadRole]int{}}
		distinct := map[int]bool{}
		for role, f := range g.Files {
			if n, ok := counts[f.Path]; ok {
				m.Counts[role] = n
				distinct[n] = true
			}
		}
		if len(distinct) > 1 {
			out = append(out, m)
		}
	}
	return out
}
