// Package logger provides standardized logging utilities for the pygo compiler
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Global logger instance
var defaultLogger *slog.Logger

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    string // "text", "json" or "auto"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:     LevelWarn,
		Format:    "auto",
		Output:    os.Stderr,
		AddSource: false,
	}
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	var handler slog.Handler

	output := cfg.Output
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		output = file
	}

	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	if resolveFormat(cfg.Format, output) == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	return nil
}

// ParseLevel maps "debug", "info", "warn" or "error" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// With returns a new logger with the given attributes
func With(args ...any) *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger.With(args...)
	}
	return slog.Default().With(args...)
}

// Compiler-specific logging helpers

// LogPhase logs the start of a compilation phase and returns a function
// that logs its completion with the elapsed time.
func LogPhase(phase string) func() {
	start := time.Now()
	Info("Starting compilation phase", "phase", phase)
	return func() {
		Info("Completed compilation phase", "phase", phase, "elapsed", time.Since(start))
	}
}

// LogParsing logs parsing activity
func LogParsing(file string, nodeCount int) {
	Debug("Parsing complete", "file", file, "nodes", nodeCount)
}

// LogLowering logs IR construction
func LogLowering(file string, statementCount int) {
	Debug("Lowering complete", "file", file, "statements", statementCount)
}

// LogAnalysis logs definition analysis
func LogAnalysis(file string, scopeCount int) {
	Debug("Definition analysis complete", "file", file, "scopes", scopeCount)
}

// LogCodeGen logs code generation
func LogCodeGen(target string, unit string, lineCount int) {
	Debug("Code generation complete",
		"target", target,
		"unit", unit,
		"lines", lineCount)
}

// LogError logs a compilation error
func LogError(phase string, file string, line int, msg string) {
	Error("Compilation error",
		"phase", phase,
		"file", file,
		"line", line,
		"message", msg)
}

// LogCompilerStart logs compiler startup
func LogCompilerStart(args []string) {
	Info("pygo compiler starting", "args", args)
}

// LogCompilerComplete logs the outcome of a whole compilation
func LogCompilerComplete(success bool, elapsed time.Duration) {
	if success {
		Info("Compilation successful", "elapsed", elapsed)
	} else {
		Error("Compilation failed", "elapsed", elapsed)
	}
}

// LogBuildStart logs the start of a toolchain build
func LogBuildStart(dir string) {
	Info("Starting go build", "dir", dir)
}

// LogBuildComplete logs toolchain build completion
func LogBuildComplete(outputFile string) {
	Info("Build complete", "output", outputFile)
}

// resolveFormat turns "auto" into "text" for terminals and "json" for
// everything else.
func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if f, ok := w.(*os.File); ok && isTerminal(f.Fd()) {
		return "text"
	}
	return "json"
}
