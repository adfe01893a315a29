// Package grouping folds classified files into sample groups with at most one
// file per read role.
package grouping

import (
	"fmt"
	"sort"

	"github.com/harrison/geoprep/internal/models"
)

// ConflictError records a file rejected because its role slot was already filled
type ConflictError struct {
	GroupKey string
	Role     models.ReadRole
	Kept     string
	Rejected string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("group %s already has %s file %s; ignoring %s", e.GroupKey, e.Role, e.Kept, e.Rejected)
}

type groupID struct {
	kind models.Kind
	key  string
}

// Result is the outcome of Group
type Result struct {
	groups    map[groupID]*models.SampleGroup
	Conflicts []ConflictError
}

// Group folds entries into groups. Entries are sorted by path first, so the
// result does not depend on input order: the first path fills a role slot and
// any later different path for the same slot becomes a ConflictError.
func Group(entries []models.ClassifiedFile) *Result {
	sorted := make([]models.ClassifiedFile, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].File.Path < sorted[j].File.Path
	})

	res := &Result{groups: make(map[groupID]*models.SampleGroup)}
	for _, e := range sorted {
		id := groupID{kind: e.Kind, key: e.GroupKey()}
		g, ok := res.groups[id]
		if !ok {
			g = models.NewSampleGroup(e.Classification)
			res.groups[id] = g
		}

		existing, filled := g.Files[e.Role]
		if !filled {
			g.Files[e.Role] = e.File
			continue
		}
		if existing.Path == e.File.Path {
			continue
		}
		res.Conflicts = append(res.Conflicts, ConflictError{
			GroupKey: g.Key,
			Role:     e.Role,
			Kept:     existing.Path,
			Rejected: e.File.Path,
		})
	}
	return res
}

// Groups returns the groups of kind in ascending group key order
func (r *Result) Groups(kind models.Kind) []*models.SampleGroup {
	out := make([]*models.SampleGroup, 0)
	for id, g := range r.groups {
		if id.kind == kind {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Keys returns the group keys of kind in ascending order
func (r *Result) Keys(kind models.Kind) []string {
	groups := r.Groups(kind)
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}

// Len returns the number of groups of every kind
func (r *Result) Len() int {
	return len(r.groups)
}

// HasRole reports whether any group of kind has a file for role
func (r *Result) HasRole(kind models.Kind, role models.ReadRole) bool {
	for id, g := range r.groups {
		if id.kind != kind {
			continue
		}
		if _, ok := g.Files[role]; ok {
			return true
		}
	}
	return false
}

// Files returns every kept file in row order: FASTQ groups then 10x groups,
// each by group key, each row in column order.
func (r *Result) Files() []models.DiscoveredFile {
	var out []models.DiscoveredFile
	for _, kind := range []models.Kind{models.KindFastq, models.KindTenX} {
		for _, g := range r.Groups(kind) {
			for _, role := range g.Roles() {
				if f, ok := g.Files[role]; ok {
					out = append(out, f)
				}
			}
		}
	}
	return out
}

// SampleLanes collects the FASTQ groups that share one sample key
type SampleLanes struct {
	SampleKey string
	Lanes     []*models.SampleGroup // Ordered by lane key
}

// BySample returns FASTQ groups gathered per sample key, in ascending sample order
func (r *Result) BySample() []SampleLanes {
	index := make(map[string]int)
	var out []SampleLanes
	for _, g := range r.Groups(models.KindFastq) {
		i, ok := index[g.SampleKey]
		if !ok {
			i = len(out)
			index[g.SampleKey] = i
			out = append(out, SampleLanes{SampleKey: g.SampleKey})
		}
		out[i].Lanes = append(out[i].Lanes, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SampleKey < out[j].SampleKey })
	for _, s := range out {
		sort.Slice(s.Lanes, func(i, j int) bool { return s.Lanes[i].LaneKey < s.Lanes[j].LaneKey })
	}
	return out
}
