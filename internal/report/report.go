// Package report renders a run summary as Markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/harrison/geoprep/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Rename is one file whose collection name differs from its basename
type Rename struct {
	Source      string
	Destination string
}

// Data is everything the report shows
type Data struct {
	Summary      models.RunSummary
	GeneratedAt  time.Time
	Renamed      []Rename
	Unclassified []string // "path: reason"
	Conflicts    []string
	Failures     []string
}

var mdEscaper = strings.NewReplacer("|", `\|`, "`", "\\`", "*", `\*`, "_", `\_`)

// Markdown renders d as a Markdown document
func Markdown(d Data) []byte {
	s := d.Summary
	var b bytes.Buffer

	fmt.Fprintf(&b, "# GEO submission preparation\n\n")
	fmt.Fprintf(&b, "- Run ID: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- Root: `%s`\n", s.Root)
	fmt.Fprintf(&b, "- Generated: %s\n", d.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n\n", s.Duration.Round(time.Millisecond))

	b.WriteString("## Counts\n\n")
	b.WriteString("| Metric | Count |\n|---|---:|\n")
	for _, row := range []struct {
		name string
		n    int
	}{
		{"Files inspected", s.Visited},
		{"Matched", s.Matched},
		{"Skipped", s.Skipped},
		{"Unclassified", s.Unclassified},
		{"Conflicts", s.Conflicts},
		{"Accepted", s.Accepted},
		{"FASTQ groups", s.FastqGroups},
		{"10x samples", s.TenXSamples},
		{"Cached checksums", s.CachedChecksums},
		{"Checksum failures", s.ChecksumFailures},
		{"Renamed", s.Renamed},
	} {
		fmt.Fprintf(&b, "| %s | %d |\n", row.name, row.n)
	}
	b.WriteString("\n")

	if len(s.Outputs) > 0 {
		b.WriteString("## Outputs\n\n")
		for _, o := range s.Outputs {
			fmt.Fprintf(&b, "- `%s`\n", o)
		}
		b.WriteString("\n")
	}

	if len(d.Renamed) > 0 {
		b.WriteString("## Renamed in collection\n\n")
		b.WriteString("| Source | Collected as |\n|---|---|\n")
		for _, r := range d.Renamed {
			fmt.Fprintf(&b, "| %s | %s |\n", mdEscaper.Replace(r.Source), mdEscaper.Replace(r.Destination))
		}
		b.WriteString("\n")
	}

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		for _, it := range items {
			fmt.Fprintf(&b, "- %s\n", mdEscaper.Replace(it))
		}
		b.WriteString("\n")
	}
	list("Unclassified files", d.Unclassified)
	list("Role conflicts", d.Conflicts)
	list("Checksum failures", d.Failures)

	b.WriteString("## Next steps\n\n")
	b.WriteString("1. Review the generated TSV tables.\n")
	if s.ShellScript != "" {
		fmt.Fprintf(&b, "2. Run `bash %s` (or `%s` on Windows) to collect the files.\n", s.ShellScript, s.PowerShellScript)
	}
	fmt.Fprintf(&b, "3. Upload `%s` and fill in the GEO metadata spreadsheet.\n", s.DestDir)

	return b.Bytes()
}

// HTML converts a Markdown report into a standalone HTML page
func HTML(title string, md []byte) ([]byte, error) {
	converter := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := converter.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
