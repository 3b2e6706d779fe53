package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if got, want := FilePath(), filepath.Join(logDir, "oversight.log"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "day", "2024-01-01")
	Error("Test error message")

	data, err := os.ReadFile(filepath.Join(logDir, "oversight.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Test warning message") {
		t.Errorf("log file missing warning: %q", content)
	}
	if strings.Contains(content, "Test debug message") {
		t.Errorf("debug message written at warn level: %q", content)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message in debug mode")
	Info("Test info message in debug mode")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
