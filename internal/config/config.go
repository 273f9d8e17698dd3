package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth; an empty key disables authentication.
	APIKey string

	// Files
	InputPath    string
	OutputPath   string
	GlossaryPath string

	// Extraction
	TrendsFirst bool

	// Upload limits
	MaxUploadBytes int64

	// Chunk export
	ChunkSize    int
	ChunkOverlap int

	// Extraction stats window
	StatsWindow time.Duration

	// Logging
	LogFormat string
	LogLevel  slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("REPORTGEST_API_KEY"),

		InputPath:    envOr("REPORT_INPUT", "index.html"),
		OutputPath:   envOr("REPORT_OUTPUT", "src/data/report.json"),
		GlossaryPath: os.Getenv("REPORT_GLOSSARY"),

		TrendsFirst: envBool("TRENDS_FIRST", false),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		ChunkSize:    envInt("CHUNK_SIZE", 500),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 50),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "text")),
		LogLevel:  envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 50
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.InputPath == "" {
		return fmt.Errorf("REPORT_INPUT must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("REPORT_OUTPUT must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
