package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"burrow/internal/logging"
)

func TestNewWritesToFileTarget(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "burrow.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("daemon started", logging.Int(logging.FieldPID, 4242))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("parse log line %q: %v", data, err)
	}
	if entry["msg"] != "daemon started" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["pid"] != float64(4242) {
		t.Fatalf("unexpected pid attr: %v", entry["pid"])
	}
	if entry["level"] != "info" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerLiftsComponent(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "pidfile")
	component.Warn("pid file already exists", logging.String("path", "/tmp/b.pid"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "[pidfile]") {
		t.Fatalf("expected lifted component tag, got %q", line)
	}
	if !strings.Contains(line, "path=/tmp/b.pid") {
		t.Fatalf("expected path attr, got %q", line)
	}
	if !strings.Contains(line, "WARN") {
		t.Fatalf("expected WARN tag, got %q", line)
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "level.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("debug line should be suppressed: %q", data)
	}
	if !strings.Contains(string(data), "visible") {
		t.Fatalf("info line missing: %q", data)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("no-op logger should report disabled at every level")
	}
}
