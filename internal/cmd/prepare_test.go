package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareCommand(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeFiles(t, root, map[string]string{
		"e1/sampleA_S1_L001_R1_001.fastq.gz": "r1",
		"e1/sampleA_S1_L001_R2_001.fastq.gz": "r2",
		"e2/junk.fastq.gz":                   "?",
	})
	prefix := filepath.Join(out, "sc")

	stdout, stderr, err := executeCommand(t, "prepare",
		"--config", missingConfig(t),
		"--input", root,
		"--prefix", prefix,
		"--dest", filepath.Join(out, "collected"),
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Outputs:")
	assert.Contains(t, stdout, "[1/6] "+prefix+".tsv")
	assert.Contains(t, stdout, "2 files listed for collection")
	assert.Contains(t, stdout, "review the warnings above")
	assert.Contains(t, stderr, "=== Run Summary ===")
	assert.Contains(t, stderr, "could not be classified")
	assert.Contains(t, stderr, filepath.Join(root, "e2", "junk.fastq.gz"))

	table, err := os.ReadFile(prefix + ".tsv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(table)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "sampleA_L001\t"))
}

func TestPrepareCommand_LogDir(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeFiles(t, root, map[string]string{"a_R1.fastq.gz": "1"})
	logDir := filepath.Join(out, "logs")

	_, _, err := executeCommand(t, "prepare",
		"--config", missingConfig(t),
		"--input", root,
		"--prefix", filepath.Join(out, "sc"),
		"--log-dir", logDir,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Run ID:")
	assert.Contains(t, string(data), "Run Summary")
}

func TestPrepareCommand_RejectsArgs(t *testing.T) {
	_, _, err := executeCommand(t, "prepare", "--config", missingConfig(t), "somewhere")
	assert.Error(t, err)
}

func TestPrepareCommand_MissingInput(t *testing.T) {
	out := t.TempDir()
	_, _, err := executeCommand(t, "prepare",
		"--config", missingConfig(t),
		"--input", filepath.Join(out, "does-not-exist"),
		"--prefix", filepath.Join(out, "sc"),
	)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, "sc.tsv"))
}
