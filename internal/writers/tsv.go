// Package writers renders the output tables and collection scripts.
package writers

import (
	"bufio"
	"io"
	"strings"

	"github.com/harrison/geoprep/internal/collect"
	"github.com/harrison/geoprep/internal/grouping"
	"github.com/harrison/geoprep/internal/models"
)

// Table is a header plus rows of tab-separated cells
type Table struct {
	Header []string
	Rows   [][]string
}

// Variants holds the two renderings of one table. Base cells are destination
// filenames in the collection directory, Full cells are absolute source paths.
// Both have the same rows in the same order.
type Variants struct {
	Base Table
	Full Table
}

var cellEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// WriteTSV writes t with a header row and a trailing newline on every line
func WriteTSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				bw.WriteByte('\t')
			}
			bw.WriteString(cellEscaper.Replace(c))
		}
		bw.WriteByte('\n')
	}
	writeRow(t.Header)
	for _, r := range t.Rows {
		writeRow(r)
	}
	return bw.Flush()
}

// builder appends a row to both variants at once so they cannot drift apart
type builder struct {
	v    Variants
	plan *collect.Plan
}

func newBuilder(header []string, plan *collect.Plan) *builder {
	return &builder{
		v: Variants{
			Base: Table{Header: header, Rows: [][]string{}},
			Full: Table{Header: header, Rows: [][]string{}},
		},
		plan: plan,
	}
}

func (b *builder) name(f models.DiscoveredFile) string {
	if d, ok := b.plan.Destination(f.Path); ok {
		return d
	}
	return f.Basename
}

// cell is one table cell holding zero or more files, or a placeholder
type cell struct {
	files       []models.DiscoveredFile
	placeholder string
}

func (b *builder) add(cells ...cell) {
	base := make([]string, len(cells))
	full := make([]string, len(cells))
	for i, c := range cells {
		if len(c.files) == 0 {
			base[i], full[i] = c.placeholder, c.placeholder
			continue
		}
		bs := make([]string, len(c.files))
		fs := make([]string, len(c.files))
		for j, f := range c.files {
			bs[j] = b.name(f)
			fs[j] = f.Path
		}
		base[i] = strings.Join(bs, ",")
		full[i] = strings.Join(fs, ",")
	}
	b.v.Base.Rows = append(b.v.Base.Rows, base)
	b.v.Full.Rows = append(b.v.Full.Rows, full)
}

func text(s string) cell {
	return cell{placeholder: s}
}

func roleCell(g *models.SampleGroup, role models.ReadRole) cell {
	if f, ok := g.File(role); ok {
		return cell{files: []models.DiscoveredFile{f}}
	}
	return cell{placeholder: role.Missing()}
}

func fastqRoles(res *grouping.Result) []models.ReadRole {
	roles := []models.ReadRole{models.RoleR1, models.RoleR2, models.RoleI1}
	if res.HasRole(models.KindFastq, models.RoleI2) {
		roles = append(roles, models.RoleI2)
	}
	return roles
}

func roleHeader(first []string, roles []models.ReadRole) []string {
	h := append([]string{}, first...)
	for _, r := range roles {
		h = append(h, string(r))
	}
	return h
}

// SampleTables builds the Sample_Lane table, one row per FASTQ group. The I2
// column appears only when some group has an I2 file.
func SampleTables(res *grouping.Result, plan *collect.Plan) Variants {
	roles := fastqRoles(res)
	b := newBuilder(roleHeader([]string{"Sample_Lane"}, roles), plan)
	for _, g := range res.Groups(models.KindFastq) {
		cells := []cell{text(g.Key)}
		for _, r := range roles {
			cells = append(cells, roleCell(g, r))
		}
		b.add(cells...)
	}
	return b.v
}

// ChecksumTables builds the file_name/md5sum table in record order
func ChecksumTables(records []models.ChecksumRecord, plan *collect.Plan) Variants {
	b := newBuilder([]string{"file_name", "md5sum"}, plan)
	for _, rec := range records {
		digest := models.ChecksumUnavailable
		if rec.Available() {
			digest = rec.Digest
		}
		b.add(cell{files: []models.DiscoveredFile{rec.File}}, text(digest))
	}
	return b.v
}

// PairsTables builds one row per sample key; each role cell lists that
// role's files across lanes, comma-separated in lane order.
func PairsTables(res *grouping.Result, plan *collect.Plan) Variants {
	roles := fastqRoles(res)
	b := newBuilder(roleHeader([]string{"Sample", "Lanes"}, roles), plan)
	for _, s := range res.BySample() {
		lanes := make([]string, len(s.Lanes))
		for i, g := range s.Lanes {
			lanes[i] = g.LaneKey
			if lanes[i] == "" {
				lanes[i] = "-"
			}
		}
		cells := []cell{text(s.SampleKey), text(strings.Join(lanes, ","))}
		for _, r := range roles {
			c := cell{placeholder: r.Missing()}
			for _, g := range s.Lanes {
				if f, ok := g.File(r); ok {
					c.files = append(c.files, f)
				}
			}
			cells = append(cells, c)
		}
		b.add(cells...)
	}
	return b.v
}

// TenXTables builds one row per 10x sample
func TenXTables(res *grouping.Result, plan *collect.Plan) Variants {
	b := newBuilder(roleHeader([]string{"Sample"}, models.TenXRoles), plan)
	for _, g := range res.Groups(models.KindTenX) {
		cells := []cell{text(g.SampleKey)}
		for _, r := range models.TenXRoles {
			cells = append(cells, roleCell(g, r))
		}
		b.add(cells...)
	}
	return b.v
}
