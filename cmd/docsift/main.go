// Command docsift runs the offline batch analysis: it reads a persona
// config, discovers documents in the input directory, ranks their
// sections and passages, and writes the result JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embeddings"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/relevance"
	"github.com/docsift/docsift/internal/report"
	"github.com/joho/godotenv"
)

// personaConfig accepts both the flat form {"persona": "...", "job": "..."}
// and the nested form {"persona": {"role": "..."}, "job_to_be_done": {"task": "..."}}.
type personaConfig struct {
	Persona     json.RawMessage `json:"persona"`
	Job         json.RawMessage `json:"job"`
	JobToBeDone json.RawMessage `json:"job_to_be_done"`
}

func stringOrField(raw json.RawMessage, field string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj[field]
	}
	return ""
}

func loadPersona(path string) (persona, job string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read persona config: %w", err)
	}
	var pc personaConfig
	if err := json.Unmarshal(data, &pc); err != nil {
		return "", "", fmt.Errorf("parse persona config: %w", err)
	}
	persona = stringOrField(pc.Persona, "role")
	job = stringOrField(pc.Job, "task")
	if job == "" {
		job = stringOrField(pc.JobToBeDone, "task")
	}
	if persona == "" || job == "" {
		return "", "", fmt.Errorf("persona config must provide both persona and job")
	}
	return persona, job, nil
}

// discoverInputs lists supported files in dir, sorted by name.
func discoverInputs(dir string) ([]pipeline.Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if extract.IsSupportedExtension(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var inputs []pipeline.Input
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		inputs = append(inputs, pipeline.Input{Filename: name, Data: data})
	}
	return inputs, nil
}

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()
	extract.PDFFallback = cfg.PDFFallbackPdftotext

	persona, job, err := loadPersona(cfg.PersonaPath)
	if err != nil {
		log.Error("persona config", "path", cfg.PersonaPath, "error", err)
		os.Exit(1)
	}

	inputs, err := discoverInputs(cfg.InputDir)
	if err != nil {
		log.Error("input discovery", "dir", cfg.InputDir, "error", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		log.Error("no supported documents found", "dir", cfg.InputDir)
		os.Exit(1)
	}
	log.Info("batch discovered", "dir", cfg.InputDir, "files", len(inputs))

	var embedder relevance.Embedder
	if cfg.EmbedEnabled {
		p, err := embeddings.New(embeddings.Config{
			Model:    cfg.EmbedModel,
			CacheDir: cfg.EmbedCacheDir,
		})
		if err != nil {
			log.Warn("embedding model unavailable, using tf-idf", "error", err)
		} else {
			defer p.Close()
			embedder = p
			log.Info("embedding model loaded", "model", cfg.EmbedModel, "dimension", p.Dimension())
		}
	}

	analyzer := pipeline.NewAnalyzer(cfg, embedder, log)

	start := time.Now()
	result, warnings, err := analyzer.Run(context.Background(), inputs, persona, job, nil)
	if err != nil {
		log.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	if err := report.Write(cfg.OutputPath, result); err != nil {
		log.Error("write output", "path", cfg.OutputPath, "error", err)
		os.Exit(1)
	}

	log.Info("analysis written",
		"path", cfg.OutputPath,
		"documents", result.Metadata.TotalDocuments,
		"sections", result.Metadata.TotalSections,
		"subsections", result.Metadata.TotalSubsections,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
