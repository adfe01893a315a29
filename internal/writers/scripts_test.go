package writers

import (
	"bytes"
	"testing"

	"github.com/harrison/geoprep/internal/collect"
	"github.com/harrison/geoprep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scriptEntriesFixture = []collect.Entry{
	{File: models.DiscoveredFile{Path: "/data/e2/b_R1.fastq.gz"}, Destination: "b_R1.fastq.gz"},
	{File: models.DiscoveredFile{Path: "/data/it's/a_R1.fastq.gz"}, Destination: "a_R1.fastq.gz"},
}

func TestWriteShellScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteShellScript(&buf, "out dir", scriptEntriesFixture))

	want := "#!/usr/bin/env bash\n" +
		"# Copies every file listed in the geoprep tables into one flat directory.\n" +
		"set -euo pipefail\n\n" +
		"DEST='out dir'\n" +
		"mkdir -p -- \"$DEST\"\n\n" +
		"cp -f -- '/data/it'\\''s/a_R1.fastq.gz' \"$DEST\"/'a_R1.fastq.gz'\n" +
		"cp -f -- '/data/e2/b_R1.fastq.gz' \"$DEST\"/'b_R1.fastq.gz'\n"
	assert.Equal(t, want, buf.String())
}

func TestWritePowerShellScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePowerShellScript(&buf, "out", scriptEntriesFixture))

	want := "# Copies every file listed in the geoprep tables into one flat directory.\n" +
		"$ErrorActionPreference = 'Stop'\n\n" +
		"$DEST = 'out'\n" +
		"New-Item -ItemType Directory -Force -Path $DEST | Out-Null\n\n" +
		"Copy-Item -LiteralPath '/data/it''s/a_R1.fastq.gz' -Destination (Join-Path $DEST 'a_R1.fastq.gz') -Force\n" +
		"Copy-Item -LiteralPath '/data/e2/b_R1.fastq.gz' -Destination (Join-Path $DEST 'b_R1.fastq.gz') -Force\n"
	assert.Equal(t, want, buf.String())
}

func TestScriptsEmpty(t *testing.T) {
	var sh, ps bytes.Buffer
	require.NoError(t, WriteShellScript(&sh, "d", nil))
	require.NoError(t, WritePowerShellScript(&ps, "d", nil))
	assert.Contains(t, sh.String(), "mkdir -p")
	assert.NotContains(t, sh.String(), "cp -f")
	assert.NotContains(t, ps.String(), "Copy-Item")
}
