package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docsift/docsift/internal/api"
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embeddings"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/relevance"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	extract.PDFFallback = cfg.PDFFallbackPdftotext

	// Optional local embedding model. Absence degrades to TF-IDF.
	var embedder relevance.Embedder
	var provider *embeddings.Provider
	if cfg.EmbedEnabled {
		p, err := embeddings.New(embeddings.Config{
			Model:    cfg.EmbedModel,
			CacheDir: cfg.EmbedCacheDir,
		})
		if err != nil {
			log.Warn("embedding model unavailable, using tf-idf", "error", err)
		} else {
			provider = p
			embedder = p
			log.Info("embedding model loaded", "model", cfg.EmbedModel, "dimension", p.Dimension())
		}
	}

	analyzer := pipeline.NewAnalyzer(cfg, embedder, log)
	orch := pipeline.NewOrchestrator(cfg, analyzer, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if provider != nil {
			provider.Close()
		}
	}()

	log.Info("starting docsift", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
