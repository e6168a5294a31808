package vectorstore

import (
	"context"
	"sort"
	"strings"

	"bylines/internal/core"
)

// Memory is an in-process Store. It ranks by naive term overlap instead of
// embeddings, which is plenty for tests and offline development.
type Memory struct {
	chunks []core.Chunk
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Add appends the chunks to the index.
func (m *Memory) Add(ctx context.Context, chunks []core.Chunk) error {
	m.chunks = append(m.chunks, chunks...)
	return nil
}

// DeleteByJournalist drops every chunk carrying the journalist's id.
func (m *Memory) DeleteByJournalist(ctx context.Context, journalistID string) error {
	kept := m.chunks[:0]
	for _, chunk := range m.chunks {
		if chunk.JournalistID != journalistID {
			kept = append(kept, chunk)
		}
	}
	m.chunks = kept
	return nil
}

// Query scores the journalist's chunks by shared lowercase terms with the
// query text and returns the topK best.
func (m *Memory) Query(ctx context.Context, text, journalistID string, topK int) ([]Result, error) {
	terms := strings.Fields(strings.ToLower(text))

	var results []Result
	for _, chunk := range m.chunks {
		if chunk.JournalistID != journalistID {
			continue
		}
		haystack := strings.ToLower(chunk.Text)
		matches := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matches++
			}
		}
		results = append(results, Result{
			Chunk:    chunk,
			Distance: 1 / float32(1+matches), // More matches = closer
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Count returns the number of indexed chunks for one journalist.
func (m *Memory) Count(journalistID string) int {
	n := 0
	for _, chunk := range m.chunks {
		if chunk.JournalistID == journalistID {
			n++
		}
	}
	return n
}
