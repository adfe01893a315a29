package display

import (
	"fmt"
	"io"
)

// ProgressIndicator lists the steps of a multi-step operation
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	color   bool
}

// NewProgressIndicator creates a new progress indicator for total steps
func NewProgressIndicator(w io.Writer, total int, color bool) *ProgressIndicator {
	return &ProgressIndicator{writer: w, total: total, color: color}
}

// Start displays the header line
func (p *ProgressIndicator) Start(title string) {
	fmt.Fprintf(p.writer, "%s:\n", title)
}

// Step displays "[N/Total] item", cyan on a terminal
func (p *ProgressIndicator) Step(item string) {
	p.current++
	if p.color {
		fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", p.current, p.total, item)
		return
	}
	fmt.Fprintf(p.writer, "  [%d/%d] %s\n", p.current, p.total, item)
}

// Complete displays the closing message with a check mark
func (p *ProgressIndicator) Complete(message string) {
	if p.color {
		fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m %s\n", message)
		return
	}
	fmt.Fprintf(p.writer, "✓ %s\n", message)
}
