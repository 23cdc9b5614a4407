package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var ErrUnknownLevel = errors.New("unknown log level")

var Levels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// New builds a text logger writing to stderr, or appending to file when one is given. The returned
// closer is nil when there is nothing to close.
func New(level string, file string, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	if file == "" {
		return slog.New(slog.NewTextHandler(stderr, opts)), nil, nil
	}

	logFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("os open file (%s): %w", file, err)
	}

	return slog.New(slog.NewTextHandler(logFile, opts)), logFile, nil
}
