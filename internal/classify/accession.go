package classify

import "strings"

var accessionPrefixes = []string{
	"PRJNA", "PRJEB", "PRJDB", "SAMEA", "SAMN", "SAMD",
	"SRR", "ERR", "DRR", "CRR",
	"SRX", "ERX", "DRX", "CRX",
	"SRS", "ERS", "DRS", "CRS",
	"SRP", "ERP", "DRP", "CRP",
	"GSM", "GSE",
}

var derivedMarkers = []string{".bam.", ".cram.", ".sam.", ".annotated."}

// LooksLikePublicAccession reports whether basename names a file already held
// by a public archive: an archive accession followed by at least five digits,
// or a FASTQ derived from an alignment.
func LooksLikePublicAccession(basename string) bool {
	for _, m := range derivedMarkers {
		if strings.Contains(basename, m) {
			return true
		}
	}
	for _, pre := range accessionPrefixes {
		rest, ok := strings.CutPrefix(basename, pre)
		if !ok {
			continue
		}
		n := 0
		for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
			n++
		}
		if n >= 5 {
			return true
		}
	}
	return false
}

// HasSkippedPrefix reports whether basename starts with any of prefixes
func HasSkippedPrefix(basename string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(basename, p) {
			return true
		}
	}
	return false
}
