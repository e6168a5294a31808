package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bylines/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := NewStore(tmpDir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = os.Stat(filepath.Join(tmpDir, "bylines.db"))
	assert.NoError(t, err, "database file should be created")
}

func TestNewStore_Reopen(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := NewStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Opening the same database again must rerun schema setup without error.
	s, err = NewStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestEnsureJournalist_Idempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EnsureJournalist("56-74-1533", "Jane Doe", "https://yle.fi/p/56-74-1533/fi"))
	require.NoError(t, s.EnsureJournalist("56-74-1533", "Someone Else", "https://yle.fi/p/56-74-1533/fi"))

	journalists, err := s.ListJournalists()
	require.NoError(t, err)
	require.Len(t, journalists, 1)
	assert.Equal(t, "Jane Doe", journalists[0].Name, "second insert must not overwrite the name")
}

func TestInsertStubArticles_DuplicatesSkipped(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureJournalist("j1", "Jane Doe", "https://yle.fi/p/j1/fi"))

	stubs := []core.ArticleStub{
		{ID: "a1", Title: "First", URL: "https://yle.fi/a/a1"},
		{ID: "a2", Title: "Second", URL: "https://yle.fi/a/a2"},
	}

	inserted, err := s.InsertStubArticles("j1", stubs)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Identical batch a second time inserts nothing.
	inserted, err = s.InsertStubArticles("j1", stubs)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	articles, err := s.ListArticlesByJournalist("j1")
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestInsertStubArticle_Result(t *testing.T) {
	s := newTestStore(t)

	result, err := s.InsertStubArticle("j1", core.ArticleStub{ID: "a1", Title: "First", URL: "u"})
	require.NoError(t, err)
	assert.Equal(t, core.Inserted, result)

	result, err = s.InsertStubArticle("j1", core.ArticleStub{ID: "a1", Title: "First", URL: "u"})
	require.NoError(t, err)
	assert.Equal(t, core.AlreadyExists, result)
}

func TestListPending_Complement(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureJournalist("j1", "Jane Doe", "u"))

	stubs := []core.ArticleStub{
		{ID: "a1", Title: "First", URL: "https://yle.fi/a/a1"},
		{ID: "a2", Title: "Second", URL: "https://yle.fi/a/a2"},
		{ID: "a3", Title: "Third", URL: "https://yle.fi/a/a3"},
	}
	_, err := s.InsertStubArticles("j1", stubs)
	require.NoError(t, err)

	pending, err := s.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 3)

	err = s.CompleteArticle("a2", core.ArticleDetails{
		Content:     "Body text.",
		Description: "A description",
		Keywords:    "news,politics",
	})
	require.NoError(t, err)

	pending, err = s.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 2)

	ids := []string{pending[0].ID, pending[1].ID}
	assert.ElementsMatch(t, []string{"a1", "a3"}, ids)
}

func TestCompleteArticle_EmptyDescriptionClearsPending(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertStubArticles("j1", []core.ArticleStub{{ID: "a1", Title: "T", URL: "u"}})
	require.NoError(t, err)

	// Metadata fields may legitimately come back empty; an empty string is
	// still "present" and the row must leave the pending set.
	err = s.CompleteArticle("a1", core.ArticleDetails{Content: "Body.", Description: "", Keywords: ""})
	require.NoError(t, err)

	pending, err := s.ListPending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCompleteArticle_UnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t)

	err := s.CompleteArticle("missing", core.ArticleDetails{Content: "x", Description: "y"})
	assert.NoError(t, err)
}

func TestCompleteArticle_PublishedDateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertStubArticles("j1", []core.ArticleStub{{ID: "a1", Title: "T", URL: "u"}})
	require.NoError(t, err)

	published := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	err = s.CompleteArticle("a1", core.ArticleDetails{
		Content:       "Body.",
		Description:   "Desc",
		PublishedDate: published,
	})
	require.NoError(t, err)

	article, err := s.GetArticle("a1")
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.True(t, published.Equal(article.PublishedDate))
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureJournalist("j1", "Jane Doe", "u"))

	_, err := s.InsertStubArticles("j1", []core.ArticleStub{
		{ID: "a1", Title: "First", URL: "u1"},
		{ID: "a2", Title: "Second", URL: "u2"},
	})
	require.NoError(t, err)
	require.NoError(t, s.CompleteArticle("a1", core.ArticleDetails{Content: "1234567890", Description: "d"}))

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.JournalistCount)
	assert.Equal(t, 2, stats.ArticleCount)
	assert.Equal(t, 1, stats.PendingCount)
	assert.InDelta(t, 10.0, stats.AvgContentLength, 0.01)
}
