package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/geoprep/internal/models"
)

// ScanOptions configures which files under the root are candidates
type ScanOptions struct {
	// Suffixes lists accepted filename endings (e.g. ".fastq.gz"), matched case-insensitively
	Suffixes []string
	// Names lists exact basenames accepted regardless of suffix (10x matrix artifacts)
	Names []string
	// Exclude lists substrings; a path relative to the root containing any of them is skipped
	Exclude []string
	// SkipPaths lists absolute directories that are never descended into
	SkipPaths []string
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Root is the absolute scan root
	Root string
	// Files contains matched files sorted by absolute path
	Files []models.DiscoveredFile
	// Visited counts regular files inspected
	Visited int
	// Excluded counts files and directories dropped by exclusion substrings
	Excluded int
	// Errors contains any errors encountered during scanning
	Errors []error
}

// MatchSuffix returns the longest suffix in suffixes that name ends with, ignoring case
func MatchSuffix(name string, suffixes []string) (string, bool) {
	lower := strings.ToLower(name)
	best := ""
	for _, s := range suffixes {
		s = strings.ToLower(s)
		if s != "" && strings.HasSuffix(lower, s) && len(s) > len(best) {
			best = s
		}
	}
	if best == "" {
		return "", false
	}
	return name[len(name)-len(best):], true
}

// ScanDirectory walks root and returns every file matching opts
func ScanDirectory(root string, opts ScanOptions) (*ScanResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	result := &ScanResult{
		Root:   absRoot,
		Files:  make([]models.DiscoveredFile, 0),
		Errors: make([]error, 0),
	}

	w := &walker{
		absRoot: absRoot,
		opts:    opts,
		names:   make(map[string]bool, len(opts.Names)),
		skip:    make(map[string]bool, len(opts.SkipPaths)),
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
		result:  result,
	}
	for _, n := range opts.Names {
		w.names[n] = true
	}
	for _, p := range opts.SkipPaths {
		if abs, err := filepath.Abs(p); err == nil {
			w.skip[abs] = true
			if real, err := filepath.EvalSymlinks(abs); err == nil {
				w.skip[real] = true
			}
		}
	}

	w.walkDir(absRoot)

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	return result, nil
}

// walker descends into directories and symlinked directories. Directories
// are keyed by resolved path so link loops and repeated links are scanned
// once; files reachable through several links are listed once, under the
// first path in walk order.
type walker struct {
	absRoot string
	opts    ScanOptions
	names   map[string]bool
	skip    map[string]bool
	dirs    map[string]bool
	files   map[string]bool
	result  *ScanResult
}

func (w *walker) errorf(format string, args ...any) {
	w.result.Errors = append(w.result.Errors, fmt.Errorf(format, args...))
}

func (w *walker) walkDir(dir string) {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.errorf("error accessing %s: %w", dir, err)
		return
	}
	if w.dirs[real] {
		return
	}
	w.dirs[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.errorf("error accessing %s: %w", dir, err)
	}
	for _, e := range entries {
		w.visit(filepath.Join(dir, e.Name()), e)
	}
}

func (w *walker) visit(path string, d os.DirEntry) {
	rel, err := filepath.Rel(w.absRoot, path)
	if err != nil {
		w.errorf("failed to resolve path %s: %w", path, err)
		return
	}
	rel = filepath.ToSlash(rel)

	isDir := d.IsDir()
	if d.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			w.errorf("broken symlink %s: %w", path, err)
			return
		}
		isDir = info.IsDir()
		if !isDir && !info.Mode().IsRegular() {
			return
		}
	} else if !isDir && !d.Type().IsRegular() {
		return
	}

	if isDir {
		if strings.HasPrefix(d.Name(), ".") || w.skip[path] {
			return
		}
		if real, err := filepath.EvalSymlinks(path); err == nil && w.skip[real] {
			return
		}
		if excluded(rel, w.opts.Exclude) {
			w.result.Excluded++
			return
		}
		w.walkDir(path)
		return
	}

	w.result.Visited++
	name := d.Name()
	if _, ok := MatchSuffix(name, w.opts.Suffixes); !ok && !w.names[name] {
		return
	}
	if excluded(rel, w.opts.Exclude) {
		w.result.Excluded++
		return
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		if w.files[real] {
			return
		}
		w.files[real] = true
	}

	w.result.Files = append(w.result.Files, models.DiscoveredFile{
		Path:       path,
		Basename:   name,
		Experiment: experimentOf(rel),
	})
}

func excluded(rel string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(rel, t) {
			return true
		}
	}
	return false
}

// experimentOf returns the first component of a slash-separated relative path
// that has at least one directory above the file
func experimentOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	return ""
}
