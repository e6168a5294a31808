package handlers

import (
	"context"
	"fmt"
	"time"

	"bylines/internal/config"
	"bylines/internal/fetch"
	"bylines/internal/harvest"
	"bylines/internal/ingest"
	"bylines/internal/llm"
	"bylines/internal/pipeline"
	"bylines/internal/rag"
	"bylines/internal/store"
	"bylines/internal/vectorstore"
)

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

func newPipeline(cfg *config.Config, st *store.Store) *pipeline.Pipeline {
	timeout := parseDuration(cfg.Scrape.RequestTimeout, 10*time.Second)
	ua := cfg.Scrape.UserAgent

	harvester := harvest.NewHarvester(
		cfg.Scrape.BaseURL,
		parseDuration(cfg.Scrape.ConsentWait, 4*time.Second),
		parseDuration(cfg.Scrape.LoadMoreWait, 2*time.Second),
		func() harvest.Session { return harvest.NewHTTPSession(timeout, ua) },
	)

	deps := pipeline.Deps{
		Store:   st,
		Links:   harvester,
		Details: fetch.NewFetcher(timeout, ua),
		Names:   harvest.NewResolver(timeout, ua),
	}
	return pipeline.New(deps, cfg.Scrape.BaseURL, parseDuration(cfg.Scrape.FetchDelay, time.Second))
}

// newAIStack builds the Gemini client and the Chroma store backed by it.
// The caller owns closing the client.
func newAIStack(ctx context.Context, cfg *config.Config) (*llm.Client, vectorstore.Store, error) {
	client, err := llm.NewClient(ctx,
		cfg.AI.Gemini.APIKey,
		cfg.AI.Gemini.Model,
		cfg.AI.Gemini.EmbeddingModel,
		cfg.AI.Gemini.Temperature,
	)
	if err != nil {
		return nil, nil, err
	}

	vectors, err := vectorstore.NewChroma(vectorstore.ChromaConfig{
		Host:           cfg.Vector.Host,
		Port:           cfg.Vector.Port,
		CollectionName: cfg.Vector.Collection,
	}, client)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}

	return client, vectors, nil
}

func newSyncer(cfg *config.Config, st *store.Store, vectors vectorstore.Store) *ingest.Syncer {
	return ingest.NewSyncer(st, vectors, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
}

func newRAGService(cfg *config.Config, vectors vectorstore.Store, client *llm.Client) *rag.Service {
	return rag.NewService(vectors, client, cfg.RAG.TopK)
}
