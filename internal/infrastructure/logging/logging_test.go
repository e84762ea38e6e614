package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShouldLog(t *testing.T) {
	tests := []struct {
		configured string
		level      string
		want       bool
	}{
		{"debug", "debug", true},
		{"info", "debug", false},
		{"info", "info", true},
		{"warning", "info", false},
		{"warning", "error", true},
		{"error", "warning", false},
		{"", "info", true},
		{"verbose", "debug", false},
		{"info", "trace", false},
	}

	for _, tt := range tests {
		if got := shouldLog(tt.configured, tt.level); got != tt.want {
			t.Errorf("shouldLog(%q, %q) = %v, want %v", tt.configured, tt.level, got, tt.want)
		}
	}
}

func TestNewFileLogger_Disabled(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "x.log"), "info", 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger != nil {
		t.Fatal("expected nil logger when file logging is disabled")
	}
}

func TestFileLogger_WritesAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imageprep.log")

	// Файл больше одного мегабайта должен быть очищен при открытии
	if err := os.WriteFile(path, bytes.Repeat([]byte("a"), 1024*1024+1), 0644); err != nil {
		t.Fatal(err)
	}

	logger, err := NewFileLogger(path, "warning", 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hidden")
	logger.Warning("shown %d", 42)
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "aaaa") {
		t.Error("oversized log file was not truncated")
	}
	if strings.Contains(content, "hidden") {
		t.Error("info message leaked through warning level")
	}
	if !strings.Contains(content, "[WARNING] shown 42") {
		t.Errorf("warning line missing, got %q", content)
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "info")

	logger.Debug("noise")
	logger.Success("done %s", "a.png")
	logger.Error("broken")

	got := buf.String()
	want := "[SUCCESS] done a.png\n[ERROR] broken\n"
	if got != want {
		t.Errorf("console output = %q, want %q", got, want)
	}
}

func TestTeeLogger_SkipsNilLoggers(t *testing.T) {
	var a, b bytes.Buffer
	var disabled *FileLogger

	tee := NewTeeLogger(NewConsoleLogger(&a, "debug"), nil, disabled, NewConsoleLogger(&b, "error"))
	if len(tee.loggers) != 2 {
		t.Fatalf("expected 2 loggers, got %d", len(tee.loggers))
	}

	tee.Info("hello")
	tee.Error("boom")

	if a.String() != "[INFO] hello\n[ERROR] boom\n" {
		t.Errorf("first logger got %q", a.String())
	}
	if b.String() != "[ERROR] boom\n" {
		t.Errorf("second logger got %q", b.String())
	}
	if err := tee.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
