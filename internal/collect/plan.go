// Package collect plans the flat collection directory: every kept file gets a
// destination name that is unique within the run.
package collect

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/geoprep/internal/models"
)

// Policy controls when the experiment identifier is prepended to destinations
type Policy string

const (
	// PrefixOnCollision keeps basenames and prefixes only colliding files
	PrefixOnCollision Policy = "collision"
	// PrefixAlways prefixes every destination that has an experiment
	PrefixAlways Policy = "always"
)

// Valid reports whether p is a known policy
func (p Policy) Valid() bool {
	return p == PrefixOnCollision || p == PrefixAlways
}

// Entry maps one source file to its destination filename
type Entry struct {
	File        models.DiscoveredFile
	Destination string
}

// Renamed reports whether the destination differs from the source basename
func (e Entry) Renamed() bool {
	return e.Destination != e.File.Basename
}

// Plan is an injective mapping from source path to destination filename
type Plan struct {
	entries []Entry
	byPath  map[string]string
}

var compressionExts = map[string]bool{
	".gz":  true,
	".bz2": true,
	".xz":  true,
	".zst": true,
	".zip": true,
}

// Resolve builds the plan for files. It is a pure function of the input set:
// candidates are visited by default destination then source path, the first
// keeps its name and later ones fall back to an experiment prefix and then a
// numeric disambiguator. Names are compared case-insensitively so the
// collection stays valid on case-insensitive filesystems.
func Resolve(files []models.DiscoveredFile, policy Policy) *Plan {
	seen := make(map[string]bool, len(files))
	cands := make([]Entry, 0, len(files))
	for _, f := range files {
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		cands = append(cands, Entry{File: f, Destination: defaultName(f, policy)})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Destination != cands[j].Destination {
			return cands[i].Destination < cands[j].Destination
		}
		return cands[i].File.Path < cands[j].File.Path
	})

	claimed := make(map[string]bool, len(cands))
	p := &Plan{
		entries: make([]Entry, 0, len(cands)),
		byPath:  make(map[string]string, len(cands)),
	}
	for _, c := range cands {
		dest := c.Destination
		if claimed[fold(dest)] {
			dest = disambiguate(c.File, dest, claimed, policy)
		}
		claimed[fold(dest)] = true
		p.entries = append(p.entries, Entry{File: c.File, Destination: dest})
		p.byPath[c.File.Path] = dest
	}

	sort.Slice(p.entries, func(i, j int) bool {
		return p.entries[i].File.Path < p.entries[j].File.Path
	})
	return p
}

func fold(name string) string {
	return strings.ToLower(name)
}

func defaultName(f models.DiscoveredFile, policy Policy) string {
	if policy == PrefixAlways && f.Experiment != "" {
		return f.Experiment + "_" + f.Basename
	}
	return f.Basename
}

func disambiguate(f models.DiscoveredFile, taken string, claimed map[string]bool, policy Policy) string {
	base := taken
	if policy != PrefixAlways && f.Experiment != "" {
		prefixed := f.Experiment + "_" + f.Basename
		if !claimed[fold(prefixed)] {
			return prefixed
		}
		base = prefixed
	}
	stem, ext := SplitExt(base)
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !claimed[fold(name)] {
			return name
		}
	}
}

// SplitExt splits name into stem and extension, keeping a compression
// extension together with the one before it (".fastq.gz", ".tsv.gz").
func SplitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if compressionExts[strings.ToLower(ext)] {
		ext = filepath.Ext(strings.TrimSuffix(name, ext)) + ext
	}
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// Destination returns the destination filename for the source path
func (p *Plan) Destination(path string) (string, bool) {
	d, ok := p.byPath[path]
	return d, ok
}

// Entries returns every entry sorted by source path
func (p *Plan) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Renamed returns entries whose destination differs from their basename
func (p *Plan) Renamed() []Entry {
	var out []Entry
	for _, e := range p.entries {
		if e.Renamed() {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of planned files
func (p *Plan) Len() int {
	return len(p.entries)
}
