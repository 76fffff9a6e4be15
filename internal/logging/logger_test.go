package logging_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamal-hamza/obras-cli/internal/logging"
)

func TestNewWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "obras.log")

	logger, err := logging.New(logging.Options{Level: "info", Format: "text", Path: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("hidden message")
	logger.Info("visible message", "project", "Sala")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden message") {
		t.Errorf("debug record should be filtered at info level")
	}
	if !strings.Contains(string(content), "project=Sala") {
		t.Errorf("expected attribute in log, got %q", content)
	}
}

func TestNewJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "obras.log")

	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Path: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.Component(logger.Logger, "export").Error("letterhead fetch failed", logging.Err(os.ErrNotExist))
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &record); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", content, err)
	}
	if record["component"] != "export" || record["level"] != "ERROR" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml", Path: filepath.Join(t.TempDir(), "x.log")})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	logger, err := logging.New(logging.Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Errorf("nop logger should not be enabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, expected := range tests {
		if got := logging.ParseLevel(input); got != expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, expected)
		}
	}
}
