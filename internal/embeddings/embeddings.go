// Package embeddings provides the optional local sentence-embedding
// capability via ONNX models. The system must work without it; callers
// treat any initialization error as "capability absent".
package embeddings

import "errors"

// ErrNotAvailable is returned when the local embedding runtime cannot
// be used in this build.
var ErrNotAvailable = errors.New("embeddings: local model not available")

// Config holds configuration for the local embedding provider.
type Config struct {
	// Model is the embedding model name, e.g. BAAI/bge-small-en-v1.5.
	Model string
	// CacheDir is the local model cache directory. Inference never
	// leaves the machine; only a missing model triggers a download.
	CacheDir string
	// MaxLength is the maximum input sequence length (default 512).
	MaxLength int
}
