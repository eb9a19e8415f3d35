package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docsift/docsift/internal/corpus"
)

type Config struct {
	Port string

	// Auth for the HTTP API.
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Batch and ranking limits
	MaxDocuments    int
	SectionLimit    int
	PassageLimit    int
	MinPassageWords int

	// Job state
	JobTTL time.Duration

	// Local embedding capability (optional)
	EmbedEnabled  bool
	EmbedModel    string
	EmbedCacheDir string

	// PDF
	PDFFallbackPdftotext bool

	// Offline batch mode
	InputDir    string
	PersonaPath string
	OutputPath  string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCSIFT_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MaxDocuments:    envInt("MAX_DOCUMENTS", 10),
		SectionLimit:    envInt("SECTION_LIMIT", 20),
		PassageLimit:    envInt("PASSAGE_LIMIT", 15),
		MinPassageWords: envInt("MIN_PASSAGE_WORDS", 20),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		EmbedEnabled:  envBool("EMBED_ENABLED", false),
		EmbedModel:    envOr("EMBED_MODEL", "BAAI/bge-small-en-v1.5"),
		EmbedCacheDir: envOr("EMBED_CACHE_DIR", "local_cache"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		InputDir:    envOr("INPUT_DIR", "input"),
		PersonaPath: envOr("PERSONA_PATH", "persona.json"),
		OutputPath:  envOr("OUTPUT_PATH", "output/analysis.json"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxDocuments <= 0 || cfg.MaxDocuments > corpus.MaxBatchDocuments {
		cfg.MaxDocuments = corpus.MaxBatchDocuments
	}
	if cfg.SectionLimit <= 0 {
		cfg.SectionLimit = 20
	}
	if cfg.PassageLimit <= 0 {
		cfg.PassageLimit = 15
	}
	if cfg.MinPassageWords <= 0 {
		cfg.MinPassageWords = 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// ValidateServer checks the settings the HTTP server cannot run without.
func (c Config) ValidateServer() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSIFT_API_KEY is required")
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
