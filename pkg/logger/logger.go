package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"segment-service/pkg/config"
)

// Logger wraps logrus so callers never depend on the backend directly.
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// NewLogger builds a logger from the log config section.
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level := logrus.InfoLevel
	if cfg != nil {
		if parsed, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
			level = parsed
		}
	}
	l.SetLevel(level)

	if cfg != nil && cfg.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger := &Logger{entry: l}

	var out io.Writer = os.Stdout
	if cfg != nil && cfg.Log.Output == "file" && cfg.Log.Filename != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.Filename), 0o755); err == nil {
			if f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				logger.file = f
				out = io.MultiWriter(os.Stdout, f)
			}
		}
	}
	l.SetOutput(out)

	return logger
}

// SetGlobalLogger installs the process-wide logger.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Close flushes and closes the file sink if one is open.
func (l *Logger) Close() {
	if l != nil && l.file != nil {
		_ = l.file.Close()
	}
}

func backend() *logrus.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger != nil {
		return globalLogger.entry
	}
	return logrus.StandardLogger()
}

// Debug logs at debug level with structured fields.
func Debug(msg string, fields map[string]interface{}) {
	backend().WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs at info level with structured fields.
func Info(msg string, fields map[string]interface{}) {
	backend().WithFields(logrus.Fields(fields)).Info(msg)
}

// Error logs at error level with structured fields.
func Error(msg string, fields map[string]interface{}) {
	backend().WithFields(logrus.Fields(fields)).Error(msg)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	backend().Infof(format, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	backend().Warnf(format, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	backend().Errorf(format, args...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	backend().Debugf(format, args...)
}

// Fatal logs the message and exits the process.
func Fatal(msg string) {
	backend().Fatal(msg)
}

// Fatalf logs a formatted message and exits the process.
func Fatalf(format string, args ...interface{}) {
	backend().Fatal(fmt.Sprintf(format, args...))
}
