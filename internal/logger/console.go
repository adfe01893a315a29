// Package logger provides the console and run-file loggers used by geoprep.
//
// Loggers are safe for concurrent use. Messages are filtered by level
// (trace, debug, info, warn, error) and prefixed with an [HH:MM:SS] timestamp.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/geoprep/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger writes leveled, timestamped messages to a writer.
// Color output is enabled when the writer is os.Stdout or os.Stderr and
// color is not disabled (NO_COLOR or a non-TTY).
type ConsoleLogger struct {
	writer       io.Writer
	logLevel     string
	mutex        sync.Mutex
	colorOutput  bool
	progressStep int
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// An empty or unknown logLevel falls back to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:       writer,
		logLevel:     normalizeLogLevel(logLevel),
		colorOutput:  isTerminal(writer),
		progressStep: -1,
	}
}

// isTerminal checks if the writer is a terminal that supports colors
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel lowercases level, returning "info" for empty or invalid input
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, colorLevel(level), message)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogProgress reports checksum progress at debug level, once per tenth of
// the work and on completion.
func (cl *ConsoleLogger) LogProgress(done, total int) {
	if cl.writer == nil || total <= 0 || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	step := done * 10 / total
	if step == cl.progressStep && done != total {
		return
	}
	cl.progressStep = step

	pb := NewProgressBar(total, 20, cl.colorOutput)
	pb.SetLabel("files hashed")
	pb.Update(done)
	fmt.Fprintf(cl.writer, "[%s] [DEBUG] %s\n", timestamp(), pb.Render())
}

// LogSummary prints the run summary and next steps at info level
func (cl *ConsoleLogger) LogSummary(s models.RunSummary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	header := "=== Run Summary ==="
	warn := func(format string, n int) string {
		text := fmt.Sprintf(format, n)
		if cl.colorOutput && n > 0 {
			return color.New(color.FgYellow).Sprint(text)
		}
		return text
	}
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}

	lines := []string{
		header,
		fmt.Sprintf("Files inspected: %d", s.Visited),
		fmt.Sprintf("Matched: %d", s.Matched),
		fmt.Sprintf("Skipped: %d", s.Skipped),
		warn("Unclassified: %d", s.Unclassified),
		warn("Conflicts: %d", s.Conflicts),
		fmt.Sprintf("Accepted: %d (%d FASTQ groups, %d 10x samples)", s.Accepted, s.FastqGroups, s.TenXSamples),
		fmt.Sprintf("Checksums: %d cached", s.CachedChecksums),
		warn("Checksum failures: %d", s.ChecksumFailures),
		fmt.Sprintf("Duration: %s", formatDuration(s.Duration)),
	}
	if s.Renamed > 0 {
		lines = append(lines, warn("Renamed in collection: %d (see the _fullpath tables for sources)", s.Renamed))
	}

	lines = append(lines, "Next steps:")
	lines = append(lines, "  1. Review the generated TSV tables")
	if s.ShellScript != "" {
		lines = append(lines, fmt.Sprintf("  2. Copy the files: bash %s (or %s on Windows)", s.ShellScript, s.PowerShellScript))
	}
	lines = append(lines, fmt.Sprintf("  3. Upload %s and fill in the GEO metadata spreadsheet", s.DestDir))

	var b strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&b, "[%s] %s\n", ts, line)
	}
	io.WriteString(cl.writer, b.String())
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS)
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a duration to a short human-readable string
// such as "5s", "1m30s" or "2h15m".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards all log messages
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)              {}
func (n *NoOpLogger) LogDebug(string)              {}
func (n *NoOpLogger) LogInfo(string)               {}
func (n *NoOpLogger) LogWarn(string)               {}
func (n *NoOpLogger) LogError(string)              {}
func (n *NoOpLogger) LogProgress(int, int)         {}
func (n *NoOpLogger) LogSummary(models.RunSummary) {}
