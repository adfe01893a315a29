package report

import (
	"strings"
	"testing"
	"time"

	"github.com/harrison/geoprep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Data {
	return Data{
		Summary: models.RunSummary{
			RunID:            "abc",
			Root:             "/data",
			Accepted:         4,
			Renamed:          1,
			DestDir:          "sample_collection_all_files_copied",
			ShellScript:      "sample_collection_collection_script.sh",
			PowerShellScript: "sample_collection_collection_script.ps1",
			Outputs:          []string{"sample_collection.tsv"},
		},
		GeneratedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Renamed:      []Rename{{Source: "/data/e2/counts.h5", Destination: "e2_counts.h5"}},
		Unclassified: []string{"/data/notes_x.fastq.gz: no read role token"},
	}
}

func TestMarkdown(t *testing.T) {
	md := string(Markdown(sample()))

	for _, want := range []string{
		"# GEO submission preparation",
		"- Run ID: `abc`",
		"| Accepted | 4 |",
		"## Renamed in collection",
		`| /data/e2/counts.h5 | e2\_counts.h5 |`,
		"## Unclassified files",
		"bash sample_collection_collection_script.sh",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "## Role conflicts")
}

func TestHTML(t *testing.T) {
	page, err := HTML("run <abc>", Markdown(sample()))
	require.NoError(t, err)

	out := string(page)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>run &lt;abc&gt;</title>")
	assert.Contains(t, out, "<h1>GEO submission preparation</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>e2_counts.h5</td>")
}
