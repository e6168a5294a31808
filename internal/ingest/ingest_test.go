package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bylines/internal/core"
	"bylines/internal/vectorstore"
)

type fakeArticles struct {
	articles map[string][]core.Article
	err      error
}

func (f *fakeArticles) ListArticlesByJournalist(journalistID string) ([]core.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles[journalistID], nil
}

func article(id, title, content string) core.Article {
	return core.Article{
		ID:           id,
		Title:        title,
		URL:          "https://news.example/a/" + id,
		Content:      content,
		JournalistID: "56-74-1533",
	}
}

func TestSync_IndexesArticleChunks(t *testing.T) {
	articles := &fakeArticles{articles: map[string][]core.Article{
		"56-74-1533": {
			article("74-1", "First", strings.Repeat("Sentence about budgets. ", 20)),
			article("74-2", "Second", strings.Repeat("Sentence about elections. ", 20)),
		},
	}}
	vectors := vectorstore.NewMemory()
	syncer := NewSyncer(articles, vectors, 200, 40)

	ok, err := syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Greater(t, vectors.Count("56-74-1533"), 0)
}

func TestSync_ChunkTextCarriesTitleHeader(t *testing.T) {
	articles := &fakeArticles{articles: map[string][]core.Article{
		"56-74-1533": {article("74-1", "Budget Cuts Loom", "A short body.")},
	}}
	vectors := vectorstore.NewMemory()
	syncer := NewSyncer(articles, vectors, 1000, 200)

	_, err := syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)

	results, err := vectors.Query(context.Background(), "budget", "56-74-1533", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Chunk.Text, "Title: Budget Cuts Loom")
	assert.Contains(t, results[0].Chunk.Text, "Content:\nA short body.")
}

func TestSync_SkipsArticlesWithoutContent(t *testing.T) {
	articles := &fakeArticles{articles: map[string][]core.Article{
		"56-74-1533": {
			article("74-1", "Has body", "Real content here."),
			article("74-2", "Stub only", ""),
			article("74-3", "Whitespace", "   \n  "),
		},
	}}
	vectors := vectorstore.NewMemory()
	syncer := NewSyncer(articles, vectors, 1000, 200)

	ok, err := syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)
	assert.True(t, ok)

	results, err := vectors.Query(context.Background(), "content", "56-74-1533", 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "74-1", r.Chunk.ArticleID)
	}
}

func TestSync_NothingIndexableLeavesIndexUntouched(t *testing.T) {
	articles := &fakeArticles{articles: map[string][]core.Article{
		"56-74-1533": {article("74-1", "Stub", "")},
	}}
	vectors := vectorstore.NewMemory()
	require.NoError(t, vectors.Add(context.Background(), []core.Chunk{
		{ID: "old", Text: "previous chunk", JournalistID: "56-74-1533"},
	}))

	syncer := NewSyncer(articles, vectors, 1000, 200)
	ok, err := syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, vectors.Count("56-74-1533"), "existing chunks must survive an empty sync")
}

func TestSync_ReplacesInsteadOfAccumulating(t *testing.T) {
	articles := &fakeArticles{articles: map[string][]core.Article{
		"56-74-1533": {article("74-1", "First", strings.Repeat("Some body text. ", 30))},
	}}
	vectors := vectorstore.NewMemory()
	syncer := NewSyncer(articles, vectors, 200, 40)

	_, err := syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)
	first := vectors.Count("56-74-1533")

	_, err = syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)
	assert.Equal(t, first, vectors.Count("56-74-1533"), "second sync must not grow the index")
}

func TestSync_LeavesOtherJournalistsAlone(t *testing.T) {
	articles := &fakeArticles{articles: map[string][]core.Article{
		"56-74-1533": {article("74-1", "Mine", "Body text.")},
	}}
	vectors := vectorstore.NewMemory()
	require.NoError(t, vectors.Add(context.Background(), []core.Chunk{
		{ID: "other", Text: "someone else", JournalistID: "56-99-0001"},
	}))

	syncer := NewSyncer(articles, vectors, 1000, 200)
	_, err := syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)
	assert.Equal(t, 1, vectors.Count("56-99-0001"))
}

func TestSync_PropagatesStoreError(t *testing.T) {
	articles := &fakeArticles{err: errors.New("db locked")}
	syncer := NewSyncer(articles, vectorstore.NewMemory(), 1000, 200)

	_, err := syncer.Sync(context.Background(), "56-74-1533")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list articles")
}

func TestSync_PublishedDateFormatting(t *testing.T) {
	published := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	a := article("74-1", "Dated", "Body text.")
	a.PublishedDate = published

	articles := &fakeArticles{articles: map[string][]core.Article{"56-74-1533": {a}}}
	vectors := vectorstore.NewMemory()
	syncer := NewSyncer(articles, vectors, 1000, 200)

	_, err := syncer.Sync(context.Background(), "56-74-1533")
	require.NoError(t, err)

	results, err := vectors.Query(context.Background(), "body", "56-74-1533", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2025-03-14T09:30:00Z", results[0].Chunk.PublishedDate)
}
