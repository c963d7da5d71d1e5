package internal

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var (
	logLevel   = LogLevelInfo
	logger     = log.New(os.Stderr, "", log.LstdFlags)
	jsonLogger *slog.Logger
)

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logLevel = level
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

// SetLogFormat switches between the plain "text" logger and structured "json" lines
func SetLogFormat(format string, w io.Writer) error {
	if w == nil {
		w = os.Stderr
	}
	switch format {
	case "", "text":
		jsonLogger = nil
		logger.SetOutput(w)
	case "json":
		jsonLogger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return fmt.Errorf("unsupported log format: %s (supported: text, json)", format)
	}
	return nil
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func logAt(level LogLevel, tag string, format string, args ...interface{}) {
	if logLevel < level {
		return
	}
	if jsonLogger != nil {
		jsonLogger.Log(context.Background(), level.slogLevel(), fmt.Sprintf(format, args...))
		return
	}
	logger.Printf("["+tag+"] "+format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logAt(LogLevelError, "ERROR", format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logAt(LogLevelWarn, "WARN", format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logAt(LogLevelInfo, "INFO", format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	logAt(LogLevelDebug, "DEBUG", format, args...)
}
