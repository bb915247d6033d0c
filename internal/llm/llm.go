package llm

import (
	"context"
	"errors"
)

// Request is a single prompt sent to a provider.
type Request struct {
	System string
	Prompt string
	// JSON asks the provider to constrain output to a JSON object.
	JSON bool
}

// Client abstracts LLM providers for text generation.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// DocumentReader is implemented by providers that can read a file directly,
// for scanned PDFs and images that yield no local text.
type DocumentReader interface {
	ReadDocument(ctx context.Context, path, mimeType, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// ErrNoMetadata is returned when a provider response carries no usable metadata.
var ErrNoMetadata = errors.New("no usable metadata in LLM response")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}

// Configured reports whether c is backed by a real provider.
func Configured(c Client) bool {
	if c == nil {
		return false
	}
	switch v := c.(type) {
	case PlaceholderClient, *PlaceholderClient:
		return false
	case retryingClient:
		return Configured(v.base)
	}
	return true
}
