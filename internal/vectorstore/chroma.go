package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"bylines/internal/core"
)

// Chroma talks to the Chroma vector database REST API (v2). Chroma v2
// expects client-supplied embeddings, so every write and query goes through
// the configured Embedder first.
type Chroma struct {
	baseURL        string
	tenant         string
	database       string
	collectionName string
	collectionID   string
	httpClient     *http.Client
	embedder       Embedder
}

// ChromaConfig holds connection settings for a Chroma server.
type ChromaConfig struct {
	Host           string
	Port           int
	CollectionName string
}

var _ Store = (*Chroma)(nil)

// NewChroma connects to Chroma and resolves (or creates) the collection.
func NewChroma(config ChromaConfig, embedder Embedder) (*Chroma, error) {
	if embedder == nil {
		return nil, fmt.Errorf("chroma requires an embeddings provider")
	}

	c := &Chroma{
		baseURL:        fmt.Sprintf("http://%s:%d/api/v2", config.Host, config.Port),
		tenant:         "default_tenant",
		database:       "default_database",
		collectionName: config.CollectionName,
		httpClient:     &http.Client{},
		embedder:       embedder,
	}

	collectionID, err := c.getOrCreateCollection(config.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection: %w", err)
	}
	c.collectionID = collectionID

	return c, nil
}

func (c *Chroma) getOrCreateCollection(name string) (string, error) {
	url := fmt.Sprintf("%s/tenants/%s/databases/%s/collections/%s", c.baseURL, c.tenant, c.database, name)
	resp, err := c.httpClient.Get(url)
	if err == nil && resp.StatusCode == http.StatusOK {
		defer resp.Body.Close()
		var result map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", err
		}
		if id, ok := result["id"].(string); ok {
			return id, nil
		}
		return "", fmt.Errorf("collection response missing id")
	}
	if resp != nil {
		resp.Body.Close()
	}

	createURL := fmt.Sprintf("%s/tenants/%s/databases/%s/collections", c.baseURL, c.tenant, c.database)
	payload := map[string]any{
		"name":          name,
		"get_or_create": true,
		"metadata": map[string]any{
			"description": "journalist article chunks",
		},
	}

	body, err := c.post(createURL, payload)
	if err != nil {
		return "", err
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse collection response: %w", err)
	}
	if id, ok := result["id"].(string); ok {
		return id, nil
	}
	return "", fmt.Errorf("collection response missing id")
}

func (c *Chroma) collectionURL() string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s/collections/%s", c.baseURL, c.tenant, c.database, c.collectionID)
}

// Add indexes the chunks, embedding their text client-side.
func (c *Chroma) Add(ctx context.Context, chunks []core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	documents := make([]string, len(chunks))
	metadatas := make([]map[string]any, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		documents[i] = chunk.Text
		metadatas[i] = chunkMetadata(chunk)
		ids[i] = chunk.ID
	}

	embeddings, err := c.embedder.EmbedTexts(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	payload := map[string]any{
		"ids":        ids,
		"documents":  documents,
		"metadatas":  metadatas,
		"embeddings": embeddings,
	}

	if _, err := c.post(fmt.Sprintf("%s/add", c.collectionURL()), payload); err != nil {
		return fmt.Errorf("failed to add chunks: %w", err)
	}
	return nil
}

// DeleteByJournalist removes every chunk carrying the journalist's id.
func (c *Chroma) DeleteByJournalist(ctx context.Context, journalistID string) error {
	payload := map[string]any{
		"where": map[string]any{"journalist_id": journalistID},
	}

	if _, err := c.post(fmt.Sprintf("%s/delete", c.collectionURL()), payload); err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", journalistID, err)
	}
	return nil
}

// queryResults mirrors Chroma's nested per-query response arrays.
type queryResults struct {
	IDs       [][]string         `json:"ids"`
	Distances [][]float32        `json:"distances"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Documents [][]string         `json:"documents"`
}

// Query embeds the text and runs a similarity search filtered to one
// journalist.
func (c *Chroma) Query(ctx context.Context, text, journalistID string, topK int) ([]Result, error) {
	embeddings, err := c.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	payload := map[string]any{
		"query_embeddings": embeddings,
		"n_results":        topK,
		"where":            map[string]any{"journalist_id": journalistID},
		"include":          []string{"metadatas", "documents", "distances"},
	}

	body, err := c.post(fmt.Sprintf("%s/query", c.collectionURL()), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	var parsed queryResults
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse query response: %w", err)
	}
	if len(parsed.IDs) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(parsed.IDs[0]))
	for i, id := range parsed.IDs[0] {
		chunk := core.Chunk{ID: id}
		if len(parsed.Documents) > 0 && i < len(parsed.Documents[0]) {
			chunk.Text = parsed.Documents[0][i]
		}
		if len(parsed.Metadatas) > 0 && i < len(parsed.Metadatas[0]) {
			applyMetadata(&chunk, parsed.Metadatas[0][i])
		}

		result := Result{Chunk: chunk}
		if len(parsed.Distances) > 0 && i < len(parsed.Distances[0]) {
			result.Distance = parsed.Distances[0][i]
		}
		results = append(results, result)
	}

	return results, nil
}

func (c *Chroma) post(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("chroma request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("chroma returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func chunkMetadata(chunk core.Chunk) map[string]any {
	return map[string]any{
		"article_id":     chunk.ArticleID,
		"journalist_id":  chunk.JournalistID,
		"title":          chunk.Title,
		"url":            chunk.URL,
		"published_date": chunk.PublishedDate,
	}
}

func applyMetadata(chunk *core.Chunk, metadata map[string]any) {
	get := func(key string) string {
		if v, ok := metadata[key].(string); ok {
			return v
		}
		return ""
	}
	chunk.ArticleID = get("article_id")
	chunk.JournalistID = get("journalist_id")
	chunk.Title = get("title")
	chunk.URL = get("url")
	chunk.PublishedDate = get("published_date")
}
