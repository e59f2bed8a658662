// Package logger provides the levelled process logger shared by the server
// and the bpsctl CLI. Output goes to stdout and to a dated file under logs/.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
)

// SetupLogger initialises logging under ./logs.
func SetupLogger() error {
	return SetupLoggerInDir("logs")
}

// SetupLoggerInDir writes logs to stdout and to <dir>/<yyyy-mm-dd>.log.
func SetupLoggerInDir(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	logFileName := filepath.Join(logDir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	SetOutput(io.MultiWriter(os.Stdout, logFile))
	return nil
}

// SetOutput replaces the log destination. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{AddSource: true}))
}

// Slog exposes the underlying structured logger.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Info logs at info level.
func Info(format string, v ...interface{}) {
	Slog().Info(fmt.Sprintf(format, v...))
}

// Warning logs at warn level.
func Warning(format string, v ...interface{}) {
	Slog().Warn(fmt.Sprintf(format, v...))
}

// Error logs at error level.
func Error(format string, v ...interface{}) {
	Slog().Error(fmt.Sprintf(format, v...))
}
