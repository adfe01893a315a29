package writers

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/harrison/geoprep/internal/collect"
)

// scriptEntries orders copy commands by destination name
func scriptEntries(entries []collect.Entry) []collect.Entry {
	out := make([]collect.Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Destination != out[j].Destination {
			return out[i].Destination < out[j].Destination
		}
		return out[i].File.Path < out[j].File.Path
	})
	return out
}

// shQuote wraps s in single quotes for POSIX shells
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// psQuote wraps s in a PowerShell single-quoted literal
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// WriteShellScript writes a bash script copying every entry into dest.
// Files are copied, never moved, and re-running the script is harmless.
func WriteShellScript(w io.Writer, dest string, entries []collect.Entry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#!/usr/bin/env bash\n")
	bw.WriteString("# Copies every file listed in the geoprep tables into one flat directory.\n")
	bw.WriteString("set -euo pipefail\n\n")
	fmt.Fprintf(bw, "DEST=%s\n", shQuote(dest))
	bw.WriteString("mkdir -p -- \"$DEST\"\n\n")
	for _, e := range scriptEntries(entries) {
		fmt.Fprintf(bw, "cp -f -- %s \"$DEST\"/%s\n", shQuote(e.File.Path), shQuote(e.Destination))
	}
	return bw.Flush()
}

// WritePowerShellScript writes the PowerShell equivalent of WriteShellScript
func WritePowerShellScript(w io.Writer, dest string, entries []collect.Entry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("# Copies every file listed in the geoprep tables into one flat directory.\n")
	bw.WriteString("$ErrorActionPreference = 'Stop'\n\n")
	fmt.Fprintf(bw, "$DEST = %s\n", psQuote(dest))
	bw.WriteString("New-Item -ItemType Directory -Force -Path $DEST | Out-Null\n\n")
	for _, e := range scriptEntries(entries) {
		fmt.Fprintf(bw, "Copy-Item -LiteralPath %s -Destination (Join-Path $DEST %s) -Force\n",
			psQuote(e.File.Path), psQuote(e.Destination))
	}
	return bw.Flush()
}
