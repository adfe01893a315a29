package cmd

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFastqGz(t *testing.T, path string, records int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := gzip.NewWriter(f)
	for i := 0; i < records; i++ {
		_, err := zw.Write([]byte("@read\nACGT\n+\nIIII\n"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestVerifyCommand_AllPass(t *testing.T) {
	root := t.TempDir()
	writeFastqGz(t, filepath.Join(root, "run", "s1_L001_R1_001.fastq.gz"), 3)
	writeFastqGz(t, filepath.Join(root, "run", "s1_L001_R2_001.fastq.gz"), 3)

	stdout, _, err := executeCommand(t, "verify", "--config", missingConfig(t), "--input", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(3 records)")
	assert.Contains(t, stdout, "All 2 files verified.")
	assert.Equal(t, 2, strings.Count(stdout, "OK    "))
}

func TestVerifyCommand_PairMismatch(t *testing.T) {
	root := t.TempDir()
	writeFastqGz(t, filepath.Join(root, "run", "s1_L001_R1_001.fastq.gz"), 3)
	writeFastqGz(t, filepath.Join(root, "run", "s1_L001_R2_001.fastq.gz"), 2)

	_, stderr, err := executeCommand(t, "verify", "--config", missingConfig(t), "--input", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 group(s) mismatched")
	assert.Contains(t, stderr, "s1_L001")
}

func TestVerifyCommand_Empty(t *testing.T) {
	stdout, _, err := executeCommand(t, "verify", "--config", missingConfig(t), "--input", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "All 0 files verified.")
}
