package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/sustainparse/internal/analysis"
	"github.com/dgallion1/sustainparse/internal/outline"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Storage
	DataDir      string
	DatabasePath string
	ExportDir    string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Parsing
	Strategy    string
	MaxDepth    int
	TOCMaxPages int

	// Analysis
	Clusters int

	// Figure extraction
	ExtractFigures bool

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("SUSTAINPARSE_API_KEY"),

		DataDir:      envOr("DATA_DIR", "data"),
		DatabasePath: os.Getenv("DATABASE_PATH"),
		ExportDir:    os.Getenv("EXPORT_DIR"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		Strategy:    envOr("PARSE_STRATEGY", "auto"),
		MaxDepth:    envInt("PARSE_MAX_DEPTH", 4),
		TOCMaxPages: envInt("TOC_MAX_PAGES", 10),

		Clusters: envInt("ANALYSIS_CLUSTERS", 6),

		ExtractFigures: envBool("EXTRACT_FIGURES", false),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 4
	}
	if cfg.TOCMaxPages <= 0 {
		cfg.TOCMaxPages = 10
	}
	if cfg.Clusters <= 0 {
		cfg.Clusters = 6
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = cfg.DataDir + "/sustainparse.db"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = cfg.DataDir + "/exports"
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.Strategy {
	case "auto", outline.StrategyOutline, outline.StrategyTOC, outline.StrategyHeadings:
	default:
		return fmt.Errorf("unknown PARSE_STRATEGY %q", c.Strategy)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	return nil
}

// OutlineConfig maps the service config onto parser settings.
func (c Config) OutlineConfig() outline.Config {
	oc := outline.DefaultConfig()
	oc.Strategy = c.Strategy
	oc.MaxLevel = c.MaxDepth
	oc.TOCMaxPages = c.TOCMaxPages
	return oc
}

// AnalysisConfig maps the service config onto analyzer settings.
func (c Config) AnalysisConfig() analysis.Config {
	ac := analysis.DefaultConfig()
	ac.Clusters = c.Clusters
	return ac
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
