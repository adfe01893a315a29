package cmd

import (
	"fmt"
	"io"

	"github.com/harrison/geoprep/internal/logger"
	"github.com/harrison/geoprep/internal/models"
	"github.com/harrison/geoprep/internal/pipeline"
)

// multiLogger implements pipeline.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []pipeline.Logger
}

func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogProgress forwards to all loggers
func (ml *multiLogger) LogProgress(done, total int) {
	for _, l := range ml.loggers {
		l.LogProgress(done, total)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(summary models.RunSummary) {
	for _, l := range ml.loggers {
		l.LogSummary(summary)
	}
}

// newRunLogger builds the console logger on stderr plus, when logDir is set,
// a run log file. The returned close function is always safe to call.
func newRunLogger(stderr io.Writer, level, logDir, runID string) (*multiLogger, func(), error) {
	ml := &multiLogger{loggers: []pipeline.Logger{logger.NewConsoleLogger(stderr, level)}}
	if logDir == "" {
		return ml, func() {}, nil
	}

	fileLog, err := logger.NewFileLoggerWithDirAndLevel(logDir, level, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	ml.loggers = append(ml.loggers, fileLog)
	return ml, func() { fileLog.Close() }, nil
}
