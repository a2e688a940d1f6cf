package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

const (
	logFileName   = "aktis-reporter-jira.log"
	logTimeFormat = "15:04:05"
)

var (
	logMu   sync.RWMutex
	logger  arbor.ILogger
	logFile string
)

// InitLogger builds the process logger from config. Only the first call has
// any effect.
func InitLogger(config *LoggingConfig) error {
	logMu.Lock()
	defer logMu.Unlock()

	if logger != nil {
		return nil
	}

	l, path, err := NewLogger(config)
	if err != nil {
		return err
	}
	if p := l.GetLogFilePath(); p != "" {
		path = p
	}
	logger, logFile = l, path
	return nil
}

// GetLogger returns the process logger, or a console logger at warn level
// when InitLogger has not run
func GetLogger() arbor.ILogger {
	logMu.RLock()
	l := logger
	logMu.RUnlock()
	if l != nil {
		return l
	}

	logMu.Lock()
	defer logMu.Unlock()
	if logger == nil {
		logger = arbor.NewLogger().
			WithConsoleWriter(writerConfig(models.LogWriterTypeConsole, "", nil)).
			WithLevelFromString("warn")
	}
	return logger
}

// GetLogFilePath is empty when file logging is off
func GetLogFilePath() string {
	logMu.RLock()
	defer logMu.RUnlock()
	return logFile
}

// LogDir resolves the log directory: the configured one, else logs/ next to
// the executable
func LogDir(config *LoggingConfig) string {
	if config.Dir != "" {
		return config.Dir
	}
	execDir, _ := executableLocation()
	return filepath.Join(execDir, "logs")
}

// NewLogger builds an arbor logger with the writers selected by
// config.Output and returns the log file path it writes to, if any.
func NewLogger(config *LoggingConfig) (arbor.ILogger, string, error) {
	l := arbor.NewLogger()
	path := ""

	if config.writesFile() {
		dir := LogDir(config)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create logs directory: %w", err)
		}
		path = filepath.Join(dir, logFileName)
		l = l.WithFileWriter(writerConfig(models.LogWriterTypeFile, path, config))
	}

	if config.writesConsole() {
		l = l.WithConsoleWriter(writerConfig(models.LogWriterTypeConsole, "", nil))
	}

	l = l.WithLevelFromString(config.Level)
	l.Debug().
		Str("level", config.Level).
		Str("output", config.Output).
		Str("file", path).
		Msg("Logger initialized")

	return l, path, nil
}

func writerConfig(writerType models.LogWriterType, fileName string, config *LoggingConfig) models.WriterConfiguration {
	wc := models.WriterConfiguration{
		Type:       writerType,
		FileName:   fileName,
		TimeFormat: logTimeFormat,
		TextOutput: true,
	}
	if config != nil {
		wc.MaxSize = int64(config.MaxSize) * 1024 * 1024
		wc.MaxBackups = config.MaxBackups
	}
	return wc
}

func (c *LoggingConfig) writesFile() bool {
	return c.Output == "file" || c.Output == "both"
}

func (c *LoggingConfig) writesConsole() bool {
	return c.Output == "console" || c.Output == "both"
}
