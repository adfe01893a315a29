package display

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestDisplayWarning(t *testing.T) {
	var buf bytes.Buffer
	Warning{
		Title:      "Role conflicts",
		Message:    "The first file by path was kept",
		Files:      []string{"/a/x_R1.fastq.gz", "/b/x_R1.fastq.gz"},
		Suggestion: "Exclude the duplicate run directory",
	}.Display(&buf, false)

	output := buf.String()
	for _, want := range []string{
		"⚠️  Warning: Role conflicts\n",
		"    The first file by path was kept\n",
		"    Affected files:\n",
		"      1. /a/x_R1.fastq.gz\n",
		"      2. /b/x_R1.fastq.gz\n",
		"    Suggestion:\n    Exclude the duplicate run directory\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "\x1b[") {
		t.Error("plain output contains ANSI codes")
	}
}

func TestDisplayWarning_Color(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "Something", Files: []string{"one"}}.Display(&buf, true)

	output := buf.String()
	if !strings.HasPrefix(output, "\x1b[33m") || !strings.HasSuffix(output, "\x1b[0m") {
		t.Errorf("colored output not wrapped in yellow: %q", output)
	}
	if !strings.Contains(output, "Affected file:\n") {
		t.Error("expected singular file label")
	}
}

func TestDisplayWarning_Truncates(t *testing.T) {
	files := make([]string, 25)
	for i := range files {
		files[i] = fmt.Sprintf("f%d", i)
	}

	var buf bytes.Buffer
	Warning{Title: "many", Files: files}.Display(&buf, false)

	output := buf.String()
	if !strings.Contains(output, "20. f19") || strings.Contains(output, "21. f20") {
		t.Errorf("unexpected truncation:\n%s", output)
	}
	if !strings.Contains(output, "... and 5 more") {
		t.Errorf("missing overflow line:\n%s", output)
	}
}

func TestUseColor_NonFile(t *testing.T) {
	if UseColor(&bytes.Buffer{}) {
		t.Error("UseColor() = true for a buffer")
	}
}

func TestProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 2, false)
	p.Start("Wrote outputs")
	p.Step("a.tsv")
	p.Step("b.tsv")
	p.Complete("2 outputs written")

	want := "Wrote outputs:\n  [1/2] a.tsv\n  [2/2] b.tsv\n✓ 2 outputs written\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
