// Package vectorstore is the boundary to the chunk index: add chunks,
// drop a journalist's chunks wholesale, and run similarity search scoped
// to one journalist.
package vectorstore

import (
	"context"

	"bylines/internal/core"
)

// Store is the vector index boundary.
type Store interface {
	// Add indexes the given chunks with their metadata.
	Add(ctx context.Context, chunks []core.Chunk) error

	// DeleteByJournalist removes every chunk whose journalist_id matches.
	DeleteByJournalist(ctx context.Context, journalistID string) error

	// Query returns the topK chunks most similar to text, restricted to
	// one journalist, best first.
	Query(ctx context.Context, text, journalistID string, topK int) ([]Result, error)
}

// Result is one retrieved chunk with its raw distance (lower = closer).
type Result struct {
	Chunk    core.Chunk
	Distance float32
}

// Embedder turns texts into embedding vectors, one per input.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
