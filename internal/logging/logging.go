// Package logging builds the zap logger used across geminichat.
// The TUI owns the terminal, so logs go to a file in the config directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the config directory
const FileName = "geminichat.log"

// New returns a JSON logger appending to dir/geminichat.log.
// Verbose enables debug level.
func New(dir string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{filepath.Join(dir, FileName)}
	config.ErrorOutputPaths = []string{filepath.Join(dir, FileName)}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
