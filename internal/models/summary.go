package models

import "time"

// RunSummary captures the counts and outputs of one prepare run
type RunSummary struct {
	RunID            string        // Unique identifier for the run
	Root             string        // Absolute scan root
	Visited          int           // Regular files inspected by the scanner
	Matched          int           // Files passing suffix and name filters
	Skipped          int           // Files dropped by basename prefix or accession rules
	Unclassified     int           // Files whose names could not be parsed
	Conflicts        int           // Files rejected from an already filled role slot
	Accepted         int           // Files listed in the output tables
	FastqGroups      int           // Rows in the sample table
	TenXSamples      int           // Rows in the 10x table
	CachedChecksums  int           // Digests taken from existing sidecars
	ChecksumFailures int           // Files recorded with an unavailable digest
	Renamed          int           // Files whose destination differs from their basename
	ScanErrors       int           // Non-fatal walk errors
	DestDir          string        // Target directory of the collection scripts
	ShellScript      string        // Path to the POSIX collection script
	PowerShellScript string        // Path to the PowerShell collection script
	Outputs          []string      // Every file written, in write order
	Duration         time.Duration // Total run time
}

// HasWarnings reports whether anything was skipped for a reason the operator should review
func (s RunSummary) HasWarnings() bool {
	return s.Unclassified > 0 || s.Conflicts > 0 || s.ChecksumFailures > 0 || s.ScanErrors > 0
}
