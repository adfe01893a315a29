// Package display formats the user-facing blocks geoprep prints around a run.
//
// # Warnings
//
// A Warning groups a title, an optional explanation, the affected files and a
// suggestion. Unclassified files, role conflicts and checksum failures are each
// rendered as one block on stderr once the run has finished:
//
//	display.Warning{
//	    Title:      "2 files could not be classified",
//	    Files:      paths,
//	    Suggestion: "Rename them to <sample>_L00N_R1_001.fastq.gz or add an exclude",
//	}.Display(os.Stderr, display.UseColor(os.Stderr))
//
// File lists longer than twenty entries are truncated with an "... and N more"
// line.
//
// # Progress
//
// ProgressIndicator prints a numbered list of completed steps, used for the
// outputs a run has written:
//
//	p := display.NewProgressIndicator(os.Stdout, len(outputs), color)
//	p.Start("Wrote outputs")
//	for _, o := range outputs {
//	    p.Step(o)
//	}
//	p.Complete("All outputs written")
//
// # Colors
//
// Colors are plain ANSI escapes and are only emitted when UseColor reports a
// terminal (go-isatty) and NO_COLOR is unset.
package display
