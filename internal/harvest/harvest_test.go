package harvest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bylines/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSession replays a fixed sequence of page snapshots; each LoadMore
// advances to the next one.
type scriptedSession struct {
	snapshots   []string
	index       int
	opened      bool
	closed      bool
	loadMoreErr error
	loadMores   int
}

func (s *scriptedSession) Open(ctx context.Context, url string) error {
	s.opened = true
	return nil
}

func (s *scriptedSession) DismissConsent(ctx context.Context, wait time.Duration) bool {
	return false
}

func (s *scriptedSession) Snapshot(ctx context.Context) (string, error) {
	if !s.opened {
		return "", errors.New("not opened")
	}
	return s.snapshots[s.index], nil
}

func (s *scriptedSession) LoadMore(ctx context.Context, wait time.Duration) (bool, error) {
	s.loadMores++
	if s.loadMoreErr != nil {
		return false, s.loadMoreErr
	}
	if s.index+1 < len(s.snapshots) {
		s.index++
		return true, nil
	}
	return false, nil
}

func (s *scriptedSession) Close() error {
	s.closed = true
	return nil
}

func listingPage(ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><main>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<a data-card-heading-content-id=%q href="/a/%s">Article %s</a>`, id, id, id)
	}
	b.WriteString("</main></body></html>")
	return b.String()
}

func anchorIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("74-2000%02d", i)
	}
	return ids
}

func collectBatches(t *testing.T, session Session, max int) ([][]core.ArticleStub, map[string]int) {
	t.Helper()

	h := NewHarvester("https://yle.fi", time.Second, time.Second, func() Session { return session })
	var batches [][]core.ArticleStub
	counts := map[string]int{}

	err := h.Harvest(context.Background(), "56-74-1533", max, func(batch []core.ArticleStub) error {
		batches = append(batches, batch)
		for _, stub := range batch {
			counts[stub.ID]++
		}
		return nil
	})
	require.NoError(t, err)
	return batches, counts
}

func TestHarvest_DedupAcrossPasses(t *testing.T) {
	// The second snapshot repeats every anchor from the first and adds two.
	session := &scriptedSession{snapshots: []string{
		listingPage("a1", "a2", "a3"),
		listingPage("a1", "a2", "a3", "a4", "a5"),
	}}

	batches, counts := collectBatches(t, session, 0)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 2)
	for id, n := range counts {
		assert.Equal(t, 1, n, "id %s yielded more than once", id)
	}
	assert.True(t, session.closed, "session must be closed after harvest")
}

func TestHarvest_CapStopsAtTen(t *testing.T) {
	// 25 anchors available, cap of 10: exactly 10 distinct stubs, and the
	// harvester must not ask the session to reveal an 11th.
	session := &scriptedSession{snapshots: []string{
		listingPage(anchorIDs(25)...),
	}}

	batches, counts := collectBatches(t, session, 10)

	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 10)
	assert.Len(t, counts, 10)
	assert.Equal(t, 0, session.loadMores, "cap reached, no load-more should be attempted")
}

func TestHarvest_CapAcrossPasses(t *testing.T) {
	session := &scriptedSession{snapshots: []string{
		listingPage("a1", "a2", "a3"),
		listingPage("a1", "a2", "a3", "a4", "a5", "a6", "a7"),
	}}

	_, counts := collectBatches(t, session, 5)
	assert.Len(t, counts, 5)
}

func TestHarvest_EmptyBatchesNotEmitted(t *testing.T) {
	// Second snapshot is identical to the first: nothing new, no batch.
	session := &scriptedSession{snapshots: []string{
		listingPage("a1", "a2"),
		listingPage("a1", "a2"),
	}}

	batches, _ := collectBatches(t, session, 0)
	require.Len(t, batches, 1)
}

func TestHarvest_LoadMoreErrorEndsGracefully(t *testing.T) {
	session := &scriptedSession{
		snapshots:   []string{listingPage("a1", "a2")},
		loadMoreErr: errors.New("stale element"),
	}

	batches, _ := collectBatches(t, session, 0)
	require.Len(t, batches, 1)
	assert.True(t, session.closed)
}

func TestHarvest_StubFields(t *testing.T) {
	session := &scriptedSession{snapshots: []string{listingPage("74-123")}}

	batches, _ := collectBatches(t, session, 0)
	require.Len(t, batches, 1)
	stub := batches[0][0]
	assert.Equal(t, "74-123", stub.ID)
	assert.Equal(t, "Article 74-123", stub.Title)
	assert.Equal(t, "https://yle.fi/a/74-123", stub.URL)
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://yle.fi/p/56-74-1533/fi", ProfileURL("https://yle.fi", "56-74-1533"))
	assert.Equal(t, "https://yle.fi/p/56-74-1533/fi", ProfileURL("https://yle.fi/", "56-74-1533"))
}

func TestResolver_JournalistName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:title" content="Jane Doe"/></head><body><h1>Other</h1></body></html>`)
	}))
	defer server.Close()

	r := NewResolver(time.Second, "test-agent")
	name, err := r.JournalistName(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
}

func TestResolver_JournalistNameFallsBackToH1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1> Jane Doe </h1></body></html>`)
	}))
	defer server.Close()

	r := NewResolver(time.Second, "")
	name, err := r.JournalistName(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
}

func TestHTTPSession_OpenAndSnapshot(t *testing.T) {
	page := listingPage("a1")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	session := NewHTTPSession(time.Second, "test-agent")
	require.NoError(t, session.Open(context.Background(), server.URL))

	html, err := session.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, "data-card-heading-content-id")

	more, err := session.LoadMore(context.Background(), time.Second)
	require.NoError(t, err)
	assert.False(t, more)

	require.NoError(t, session.Close())
	_, err = session.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestHTTPSession_OpenBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	session := NewHTTPSession(time.Second, "")
	err := session.Open(context.Background(), server.URL)
	assert.Error(t, err)
}
