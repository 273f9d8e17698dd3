package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "REPORTGEST_API_KEY", "REPORT_INPUT", "REPORT_OUTPUT", "REPORT_GLOSSARY",
		"TRENDS_FIRST", "MAX_UPLOAD_BYTES", "CHUNK_SIZE", "CHUNK_OVERLAP",
		"STATS_WINDOW", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.InputPath != "index.html" || cfg.OutputPath != "src/data/report.json" {
		t.Errorf("unexpected default paths %q -> %q", cfg.InputPath, cfg.OutputPath)
	}
	if cfg.TrendsFirst {
		t.Error("expected trends in document order by default")
	}
	if cfg.APIKey != "" {
		t.Error("expected auth disabled by default")
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("unexpected logging defaults %q %v", cfg.LogFormat, cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REPORTGEST_API_KEY", "secret")
	t.Setenv("TRENDS_FIRST", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("STATS_WINDOW", "5m")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9000" || cfg.APIKey != "secret" {
		t.Errorf("unexpected port/key %q/%q", cfg.Port, cfg.APIKey)
	}
	if !cfg.TrendsFirst {
		t.Error("expected TrendsFirst from env")
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Errorf("expected 2048, got %d", cfg.MaxUploadBytes)
	}
	if cfg.StatsWindow != 5*time.Minute {
		t.Errorf("expected 5m, got %v", cfg.StatsWindow)
	}
	if cfg.LogFormat != "json" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("unexpected logging %q %v", cfg.LogFormat, cfg.LogLevel)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("CHUNK_SIZE", "lots")
	t.Setenv("LOG_LEVEL", "chatty")

	cfg := Load()
	if cfg.MaxUploadBytes != 10485760 {
		t.Errorf("expected default upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("expected default chunk size, got %d", cfg.ChunkSize)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:       "8090",
		InputPath:  "index.html",
		OutputPath: "out.json",
		ChunkSize:  500,
		LogFormat:  "text",
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"port", func(c *Config) { c.Port = "http" }, "PORT"},
		{"input", func(c *Config) { c.InputPath = "" }, "REPORT_INPUT"},
		{"overlap", func(c *Config) { c.ChunkOverlap = 500 }, "CHUNK_OVERLAP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
