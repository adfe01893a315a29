package logger

import (
	"fmt"
	"strings"
)

// ProgressBar renders "[=====     ] 5/10 label (50%)" style progress.
// A bar is not safe for concurrent use; ConsoleLogger builds one per line
// while holding its own mutex.
type ProgressBar struct {
	current     int
	total       int
	width       int
	enableColor bool
	label       string
}

// NewProgressBar creates a new progress bar; widths below 1 become 10
func NewProgressBar(total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{total: total, width: width, enableColor: enableColor}
}

// Update sets the current progress value
func (pb *ProgressBar) Update(current int) {
	pb.current = current
}

// SetLabel sets the unit shown after the counter
func (pb *ProgressBar) SetLabel(label string) {
	pb.label = label
}

// percentage returns the progress percentage clamped to 0-100
func (pb *ProgressBar) percentage() int {
	if pb.total <= 0 {
		return 0
	}
	return min(max(pb.current*100/pb.total, 0), 100)
}

// Render generates the progress bar string
func (pb *ProgressBar) Render() string {
	perc := pb.percentage()
	filled := perc * pb.width / 100

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", pb.width-filled))
	b.WriteByte(']')
	fmt.Fprintf(&b, " %d/%d", pb.current, pb.total)
	if pb.label != "" {
		b.WriteString(" " + pb.label)
	}
	fmt.Fprintf(&b, " (%d%%)", perc)

	if !pb.enableColor {
		return b.String()
	}
	if perc < 100 {
		return "\033[36m" + b.String() + "\033[0m"
	}
	return "\033[32m" + b.String() + "\033[0m"
}
