// Package fileutil discovers candidate sequencing files under a directory tree.
//
// ScanDirectory walks a root, following symlinked directories and files, and
// keeps regular files whose basename ends with one of the configured suffixes
// (longest match wins, case is ignored) or equals one of the exact allow-listed names used for 10x matrix
// artifacts. Paths relative to the root that contain an exclusion substring are
// dropped, hidden directories are never entered, and absolute SkipPaths are
// pruned so a collection directory inside the root is not rediscovered.
//
// Every match records its experiment, the direct subfolder of the root that
// contains it:
//
//	root/expt1/sampleA/a_R1.fastq.gz -> Experiment "expt1"
//	root/a_R1.fastq.gz               -> Experiment ""
//
// Each directory is entered once by resolved path, which stops link loops, and a
// file reachable through several links is listed once under the first path in
// walk order. Walk errors such as unreadable subdirectories or broken links are
// collected in
// ScanResult.Errors and scanning continues. Only an unusable root is fatal.
// Results are sorted by absolute path.
package fileutil
