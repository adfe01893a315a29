package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func relPaths(t *testing.T, res *ScanResult) []string {
	t.Helper()
	out := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		rel, err := filepath.Rel(res.Root, f.Path)
		if err != nil {
			t.Fatalf("Rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"top_R1.fastq.gz",
		"expt1/sampleA/a_S1_L001_R1_001.fastq.gz",
		"expt1/sampleA/a_S1_L001_R2_001.fq.gz",
		"expt1/sampleA/a_S1_L001_R1_001.fastq.gz.md5sum",
		"expt1/sampleA/readme.fastq.gz.txt",
		"expt1/sampleB/B_R1.FASTQ.GZ",
		"expt2/old_backup/b_R1.fastq.gz",
		"expt2/c/outs/filtered_feature_bc_matrix/matrix.mtx.gz",
		"expt2/c/outs/filtered_feature_bc_matrix/barcodes.tsv.gz",
		".snakemake/x_R1.fastq.gz",
	})

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "default suffixes",
			opts: ScanOptions{Suffixes: []string{".fastq.gz", ".fq.gz"}},
			want: []string{
				"expt1/sampleA/a_S1_L001_R1_001.fastq.gz",
				"expt1/sampleA/a_S1_L001_R2_001.fq.gz",
				"expt1/sampleB/B_R1.FASTQ.GZ",
				"expt2/old_backup/b_R1.fastq.gz",
				"top_R1.fastq.gz",
			},
		},
		{
			name: "exclusion substring prunes directories",
			opts: ScanOptions{Suffixes: []string{".fastq.gz"}, Exclude: []string{"backup", "sampleB"}},
			want: []string{
				"expt1/sampleA/a_S1_L001_R1_001.fastq.gz",
				"top_R1.fastq.gz",
			},
		},
		{
			name: "exact names admit 10x artifacts",
			opts: ScanOptions{Suffixes: []string{".fq.gz"}, Names: []string{"matrix.mtx.gz", "barcodes.tsv.gz"}},
			want: []string{
				"expt1/sampleA/a_S1_L001_R2_001.fq.gz",
				"expt2/c/outs/filtered_feature_bc_matrix/barcodes.tsv.gz",
				"expt2/c/outs/filtered_feature_bc_matrix/matrix.mtx.gz",
			},
		},
		{
			name: "no suffixes matches nothing",
			opts: ScanOptions{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ScanDirectory(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			got := relPaths(t, res)
			if len(got) != len(tt.want) {
				t.Fatalf("ScanDirectory() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("file[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if !sort.SliceIsSorted(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path }) {
				t.Error("files are not sorted by path")
			}
		})
	}
}

func TestScanDirectory_ReadmeNotMatched(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"readme.fastq.gz.txt"})

	res, err := ScanDirectory(tmpDir, ScanOptions{Suffixes: []string{".fastq.gz"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("readme.fastq.gz.txt matched: %v", res.Files)
	}
	if res.Visited != 1 {
		t.Errorf("Visited = %d, want 1", res.Visited)
	}
}

func TestScanDirectory_Experiment(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"root_R1.fastq.gz", "exptA/deep/er/x_R1.fastq.gz"})

	res, err := ScanDirectory(tmpDir, ScanOptions{Suffixes: []string{".fastq.gz"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	got := map[string]string{}
	for _, f := range res.Files {
		got[f.Basename] = f.Experiment
		if !filepath.IsAbs(f.Path) {
			t.Errorf("path %q is not absolute", f.Path)
		}
	}
	if got["root_R1.fastq.gz"] != "" {
		t.Errorf("root file experiment = %q, want empty", got["root_R1.fastq.gz"])
	}
	if got["x_R1.fastq.gz"] != "exptA" {
		t.Errorf("nested file experiment = %q, want exptA", got["x_R1.fastq.gz"])
	}
}

func TestScanDirectory_SkipPaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a_R1.fastq.gz", "collected/a_R1.fastq.gz"})

	res, err := ScanDirectory(tmpDir, ScanOptions{
		Suffixes:  []string{".fastq.gz"},
		SkipPaths: []string{filepath.Join(tmpDir, "collected")},
	})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if got := relPaths(t, res); len(got) != 1 || got[0] != "a_R1.fastq.gz" {
		t.Errorf("ScanDirectory() = %v, want [a_R1.fastq.gz]", got)
	}
}

func TestScanDirectory_Errors(t *testing.T) {
	if _, err := ScanDirectory(filepath.Join(t.TempDir(), "missing"), ScanOptions{}); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ScanDirectory(file, ScanOptions{}); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestMatchSuffix(t *testing.T) {
	suffixes := []string{".gz", ".fastq.gz", ".fq.gz"}
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"a_R1.fastq.gz", ".fastq.gz", true},
		{"a_R1.FQ.GZ", ".FQ.GZ", true},
		{"a.tar.gz", ".gz", true},
		{"a.fastq", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchSuffix(tt.name, suffixes)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("MatchSuffix(%q) = %q, %v, want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestScanDirectory_SymlinkedExperiment(t *testing.T) {
	store := t.TempDir()
	root := t.TempDir()
	writeTree(t, store, []string{"run1/s_L001_R1_001.fastq.gz"})
	if err := os.Symlink(filepath.Join(store, "run1"), filepath.Join(root, "expt1")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res, err := ScanDirectory(root, ScanOptions{Suffixes: []string{".fastq.gz"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(res.Errors) != 0 {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
	if len(res.Files) != 1 {
		t.Fatalf("ScanDirectory() = %v, want one file", relPaths(t, res))
	}
	f := res.Files[0]
	if f.Path != filepath.Join(root, "expt1", "s_L001_R1_001.fastq.gz") {
		t.Errorf("Path = %q, want it under the link", f.Path)
	}
	if f.Experiment != "expt1" {
		t.Errorf("Experiment = %q, want expt1", f.Experiment)
	}
	if res.Visited != 1 {
		t.Errorf("Visited = %d, want 1", res.Visited)
	}
}

func TestScanDirectory_SymlinkLoopAndDuplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"a/x_R1.fastq.gz"})
	links := map[string]string{
		filepath.Join(root, "a", "loop"):  filepath.Join(root, "a"),
		filepath.Join(root, "b"):          filepath.Join(root, "a"),
		filepath.Join(root, "c.fastq.gz"): filepath.Join(root, "a", "x_R1.fastq.gz"),
	}
	for link, target := range links {
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
	}

	res, err := ScanDirectory(root, ScanOptions{Suffixes: []string{".fastq.gz"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if got := relPaths(t, res); len(got) != 1 || got[0] != "a/x_R1.fastq.gz" {
		t.Errorf("ScanDirectory() = %v, want [a/x_R1.fastq.gz]", got)
	}
}

func TestScanDirectory_BrokenSymlink(t *testing.T) {
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "expt1")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res, err := ScanDirectory(root, ScanOptions{Suffixes: []string{".fastq.gz"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(res.Errors) != 1 {
		t.Errorf("Errors = %v, want one broken symlink error", res.Errors)
	}
}
