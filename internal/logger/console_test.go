package logger

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/geoprep/internal/models"
)

func TestLogLevelFiltering(t *testing.T) {
	levels := []string{"trace", "debug", "info", "warn", "error"}
	log := func(l *ConsoleLogger, level, msg string) {
		switch level {
		case "trace":
			l.LogTrace(msg)
		case "debug":
			l.LogDebug(msg)
		case "info":
			l.LogInfo(msg)
		case "warn":
			l.LogWarn(msg)
		case "error":
			l.LogError(msg)
		}
	}

	for ci, configured := range levels {
		for mi, message := range levels {
			buf := &bytes.Buffer{}
			l := NewConsoleLogger(buf, configured)
			log(l, message, message+" msg")

			want := mi >= ci
			got := strings.Contains(buf.String(), message+" msg")
			if got != want {
				t.Errorf("level %s, message %s: logged = %v, want %v", configured, message, got, want)
			}
		}
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, "info")
	l.LogWarn("cannot classify /d/x.fastq.gz: no read role token")

	pattern := regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[WARN\] cannot classify /d/x\.fastq\.gz: no read role token\n$`)
	if !pattern.MatchString(buf.String()) {
		t.Errorf("unexpected format: %q", buf.String())
	}
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	l := NewConsoleLogger(nil, "trace")
	l.LogInfo("discarded")
	l.LogProgress(1, 2)
	l.LogSummary(models.RunSummary{})
}

func TestNormalizeLogLevel(t *testing.T) {
	tests := map[string]string{
		"":        "info",
		"DEBUG":   "debug",
		" warn ":  "warn",
		"verbose": "info",
	}
	for in, want := range tests {
		if got := normalizeLogLevel(in); got != want {
			t.Errorf("normalizeLogLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogProgressThrottled(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, "debug")

	for i := 1; i <= 100; i++ {
		l.LogProgress(i, 100)
	}

	lines := strings.Count(buf.String(), "\n")
	if lines != 11 {
		t.Errorf("progress lines = %d, want 11", lines)
	}
	if !strings.Contains(buf.String(), "100/100 files hashed (100%)") {
		t.Errorf("missing completion line: %q", buf.String())
	}

	quiet := &bytes.Buffer{}
	NewConsoleLogger(quiet, "info").LogProgress(1, 1)
	if quiet.Len() != 0 {
		t.Errorf("progress logged at info level: %q", quiet.String())
	}
}

func TestLogProgressConcurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, "debug")

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(done int) {
			defer wg.Done()
			l.LogProgress(done, 50)
		}(i)
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.Contains(line, "[DEBUG] [") || !strings.HasSuffix(line, "%)") {
			t.Errorf("interleaved progress line: %q", line)
		}
	}
	if !strings.Contains(buf.String(), "50/50 files hashed (100%)") {
		t.Errorf("missing completion line: %q", buf.String())
	}
}

func TestLogSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, "info")

	l.LogSummary(models.RunSummary{
		Visited:          12,
		Matched:          8,
		Skipped:          1,
		Unclassified:     1,
		Accepted:         6,
		FastqGroups:      3,
		Renamed:          2,
		DestDir:          "sample_collection_all_files_copied",
		ShellScript:      "sample_collection_collection_script.sh",
		PowerShellScript: "sample_collection_collection_script.ps1",
		Duration:         90 * time.Second,
	})

	out := buf.String()
	for _, want := range []string{
		"=== Run Summary ===",
		"Files inspected: 12",
		"Unclassified: 1",
		"Accepted: 6 (3 FASTQ groups, 0 10x samples)",
		"Duration: 1m30s",
		"Renamed in collection: 2",
		"bash sample_collection_collection_script.sh",
		"sample_collection_all_files_copied",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{5 * time.Second, "5s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
		{3 * time.Hour, "3h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
