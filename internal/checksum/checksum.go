// Package checksum computes MD5 digests, memoized in ".md5sum" sidecar files
// next to the source.
package checksum

import (
	"bufio"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/harrison/geoprep/internal/filelock"
	"github.com/harrison/geoprep/internal/models"
	"golang.org/x/sync/errgroup"
)

// SidecarSuffix is appended to a source path to locate its cached digest
const SidecarSuffix = ".md5sum"

const copyBufferSize = 1 << 20

// FileError is a per-file checksum failure
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("checksum %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result is the digest of one file
type Result struct {
	Digest string
	// Cached is true when the digest came from an existing sidecar
	Cached bool
	// SidecarErr is set when a computed digest could not be cached
	SidecarErr error
}

// SidecarPath returns the sidecar location for path
func SidecarPath(path string) string {
	return path + SidecarSuffix
}

// Checksum returns the digest of path, trusting a non-empty sidecar verbatim
func Checksum(path string) (string, error) {
	res, err := Compute(path)
	if err != nil {
		return "", err
	}
	return res.Digest, nil
}

// Compute returns the digest of path. A sidecar whose first line is non-empty
// is returned as is without re-reading the source. Otherwise the file is
// hashed and the sidecar rewritten atomically.
func Compute(path string) (Result, error) {
	if digest, ok := readSidecar(SidecarPath(path)); ok {
		return Result{Digest: digest, Cached: true}, nil
	}

	digest, err := hashFile(path)
	if err != nil {
		return Result{}, &FileError{Path: path, Err: err}
	}

	res := Result{Digest: digest}
	if err := filelock.AtomicWrite(SidecarPath(path), []byte(digest+"\n")); err != nil {
		res.SidecarErr = err
	}
	return res, nil
}

func readSidecar(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, copyBufferSize)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Batch is the outcome of ComputeAll
type Batch struct {
	// Records is parallel to the input; failed files carry models.ChecksumUnavailable
	Records       []models.ChecksumRecord
	Cached        int
	Errors        []*FileError // Sorted by path
	SidecarErrors []*FileError // Sorted by path
}

// ProgressFunc is called after every file with the number completed so far
type ProgressFunc func(done, total int)

// ComputeAll digests files on at most workers goroutines. Results are stored
// by input index so output order never depends on scheduling. Per-file
// failures are recorded in the batch; only context cancellation is returned.
func ComputeAll(ctx context.Context, files []models.DiscoveredFile, workers int, progress ProgressFunc) (*Batch, error) {
	if workers < 1 {
		workers = 1
	}

	batch := &Batch{Records: make([]models.ChecksumRecord, len(files))}
	var (
		mu   sync.Mutex
		done int
	)

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
			res, err := Compute(f.Path)

			mu.Lock()
			defer mu.Unlock()
			rec := models.ChecksumRecord{File: f, Digest: res.Digest}
			if err != nil {
				rec.Digest = models.ChecksumUnavailable
				batch.Errors = append(batch.Errors, asFileError(f.Path, err))
			}
			if res.Cached {
				batch.Cached++
			}
			if res.SidecarErr != nil {
				batch.SidecarErrors = append(batch.SidecarErrors, &FileError{Path: SidecarPath(f.Path), Err: res.SidecarErr})
			}
			batch.Records[i] = rec
			done++
			if progress != nil {
				progress(done, len(files))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortErrors(batch.Errors)
	sortErrors(batch.SidecarErrors)
	return batch, nil
}

func asFileError(path string, err error) *FileError {
	if fe, ok := err.(*FileError); ok {
		return fe
	}
	return &FileError{Path: path, Err: err}
}

func sortErrors(errs []*FileError) {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
}
