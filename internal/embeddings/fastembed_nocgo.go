//go:build !cgo

package embeddings

import "context"

// Provider is a stub for builds without cgo; the ONNX runtime needs it.
// The scorer treats the absent capability as "strategy unavailable".
type Provider struct{}

// New reports the capability as absent in non-cgo builds.
func New(_ Config) (*Provider, error) {
	return nil, ErrNotAvailable
}

func (p *Provider) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrNotAvailable
}

func (p *Provider) Dimension() int { return 0 }

func (p *Provider) Close() error { return nil }
