// Package ingest moves a journalist's stored articles into the vector
// index: compose, chunk, embed, replace.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bylines/internal/chunk"
	"bylines/internal/core"
	"bylines/internal/logger"
	"bylines/internal/vectorstore"
)

// ArticleSource lists the persisted articles for one journalist.
type ArticleSource interface {
	ListArticlesByJournalist(journalistID string) ([]core.Article, error)
}

// Syncer rebuilds the vector index for one journalist at a time.
type Syncer struct {
	articles ArticleSource
	vectors  vectorstore.Store
	size     int
	overlap  int
}

// NewSyncer creates a Syncer. Non-positive size or overlap fall back to the
// chunking defaults.
func NewSyncer(articles ArticleSource, vectors vectorstore.Store, size, overlap int) *Syncer {
	if size <= 0 {
		size = chunk.DefaultSize
	}
	if overlap < 0 {
		overlap = chunk.DefaultOverlap
	}
	return &Syncer{articles: articles, vectors: vectors, size: size, overlap: overlap}
}

// Sync replaces the journalist's chunks in the index with chunks freshly
// derived from the database. Articles without content are skipped. Returns
// false when the journalist has nothing indexable, in which case the index
// is left untouched.
func (s *Syncer) Sync(ctx context.Context, journalistID string) (bool, error) {
	log := logger.Get()

	articles, err := s.articles.ListArticlesByJournalist(journalistID)
	if err != nil {
		return false, fmt.Errorf("failed to list articles: %w", err)
	}

	var chunks []core.Chunk
	indexed := 0
	for _, article := range articles {
		if strings.TrimSpace(article.Content) == "" {
			continue
		}
		composite := fmt.Sprintf("Title: %s\n\nContent:\n%s", article.Title, article.Content)

		published := ""
		if !article.PublishedDate.IsZero() {
			published = article.PublishedDate.Format(time.RFC3339)
		}
		for _, text := range chunk.Split(composite, s.size, s.overlap) {
			chunks = append(chunks, core.Chunk{
				ID:            uuid.New().String(),
				Text:          text,
				ArticleID:     article.ID,
				JournalistID:  journalistID,
				Title:         article.Title,
				URL:           article.URL,
				PublishedDate: published,
			})
		}
		indexed++
	}

	if len(chunks) == 0 {
		log.Info().Str("journalist_id", journalistID).Msg("No indexable articles, index unchanged")
		return false, nil
	}

	// Replace wholesale so re-fetched articles never leave stale chunks behind.
	if err := s.vectors.DeleteByJournalist(ctx, journalistID); err != nil {
		return false, fmt.Errorf("failed to clear old chunks: %w", err)
	}
	if err := s.vectors.Add(ctx, chunks); err != nil {
		return false, fmt.Errorf("failed to index chunks: %w", err)
	}

	log.Info().
		Str("journalist_id", journalistID).
		Int("articles", indexed).
		Int("chunks", len(chunks)).
		Msg("Vector index synced")
	return true, nil
}
