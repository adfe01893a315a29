package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/geoprep/internal/models"
)

// FileLogger writes a per-run log file run-YYYYMMDD-HHMMSS.log into a log
// directory and keeps a latest.log symlink pointing at it.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLoggerWithDirAndLevel creates the log directory if needed, opens a
// timestamped run log and writes a header carrying runID.
func NewFileLoggerWithDirAndLevel(logDir, logLevel, runID string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== geoprep run log ===\n")
	fl.writeRunLog(fmt.Sprintf("Run ID: %s\n", runID))
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// Path returns the run log file path
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

func (fl *FileLogger) LogTrace(message string) { fl.logWithLevel("TRACE", message) }
func (fl *FileLogger) LogDebug(message string) { fl.logWithLevel("DEBUG", message) }
func (fl *FileLogger) LogInfo(message string)  { fl.logWithLevel("INFO", message) }
func (fl *FileLogger) LogWarn(message string)  { fl.logWithLevel("WARN", message) }
func (fl *FileLogger) LogError(message string) { fl.logWithLevel("ERROR", message) }

func (fl *FileLogger) logWithLevel(level, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format(time.RFC3339), level, message))
}

// LogProgress is not recorded in the run log
func (fl *FileLogger) LogProgress(done, total int) {}

// LogSummary appends the run counts and output paths
func (fl *FileLogger) LogSummary(s models.RunSummary) {
	var b strings.Builder
	b.WriteString("\n=== Run Summary ===\n")
	fmt.Fprintf(&b, "Root: %s\n", s.Root)
	fmt.Fprintf(&b, "Files inspected: %d\n", s.Visited)
	fmt.Fprintf(&b, "Matched: %d\n", s.Matched)
	fmt.Fprintf(&b, "Skipped: %d\n", s.Skipped)
	fmt.Fprintf(&b, "Unclassified: %d\n", s.Unclassified)
	fmt.Fprintf(&b, "Conflicts: %d\n", s.Conflicts)
	fmt.Fprintf(&b, "Accepted: %d\n", s.Accepted)
	fmt.Fprintf(&b, "FASTQ groups: %d\n", s.FastqGroups)
	fmt.Fprintf(&b, "10x samples: %d\n", s.TenXSamples)
	fmt.Fprintf(&b, "Cached checksums: %d\n", s.CachedChecksums)
	fmt.Fprintf(&b, "Checksum failures: %d\n", s.ChecksumFailures)
	fmt.Fprintf(&b, "Renamed: %d\n", s.Renamed)
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(s.Duration))
	if len(s.Outputs) > 0 {
		b.WriteString("Outputs:\n")
		for _, o := range s.Outputs {
			fmt.Fprintf(&b, "  - %s\n", o)
		}
	}
	fl.writeRunLog(b.String())
}

// Close closes the run log file
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return
	}
	fl.runLog.WriteString(message)
	fl.runLog.Sync()
}
