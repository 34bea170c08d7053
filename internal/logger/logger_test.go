package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_ConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "pitchroast.log")

	l, closeFn, err := New(Options{Level: "info", Console: &buf, NoColor: true, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	Component(l, "driver").Info("turn finished", "events", 3)
	l.Debug("hidden")

	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	if !strings.Contains(buf.String(), "turn finished") {
		t.Errorf("Expected console output, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("Expected debug records to be filtered")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("Expected one JSON record, got %q: %v", data, err)
	}
	if record["component"] != "driver" || record["msg"] != "turn finished" {
		t.Errorf("Unexpected record: %v", record)
	}
}

func TestNew_NoSinks(t *testing.T) {
	l, closeFn, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Error("dropped")
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}
