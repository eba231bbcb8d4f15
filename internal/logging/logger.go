package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hntwatch/hntwatch/internal/config"
)

// Setup installs the global slog logger: JSON records carrying a "service"
// attribute, written to stdout and to a daily log file under logDir. The
// returned io.Closer owns the file handle; close it on shutdown. Old log
// files past the retention window are pruned as part of startup.
func Setup(levelStr, logDir string) (io.Closer, error) {
	level, err := parseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", levelStr, err)
	}

	file, err := openDailyFile(logDir)
	if err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(io.MultiWriter(os.Stdout, file), &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler).With("service", config.ServiceName))

	pruned := PruneOldLogs(logDir, config.LogMaxAgeDays)

	slog.Info("logging initialized",
		"level", levelStr,
		"logDir", logDir,
		"logFile", filepath.Base(file.Name()),
		"retentionDays", config.LogMaxAgeDays,
		"pruned", pruned,
	)

	return file, nil
}

func openDailyFile(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	filename := fmt.Sprintf("%s%s.log", config.LogFilePrefix, time.Now().Format("2006-01-02"))
	path := filepath.Join(logDir, filename)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	return file, nil
}

// PruneOldLogs deletes this service's log files in logDir older than
// maxAgeDays and returns how many were removed. Files that do not match
// the service's naming pattern are left alone.
func PruneOldLogs(logDir string, maxAgeDays int) int {
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
	removed := 0

	entries, err := os.ReadDir(logDir)
	if err != nil {
		slog.Warn("failed to read log directory for pruning", "logDir", logDir, "error", err)
		return 0
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, config.LogFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			fullPath := filepath.Join(logDir, name)
			if err := os.Remove(fullPath); err != nil {
				slog.Warn("failed to remove old log file", "file", fullPath, "error", err)
			} else {
				removed++
			}
		}
	}

	return removed
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
