package pipeline

import (
	"context"
	"fmt"
	"time"

	"bylines/internal/core"
	"bylines/internal/harvest"
	"bylines/internal/logger"
)

// ArticleStore is the persistence surface the pipeline drives.
type ArticleStore interface {
	EnsureJournalist(id, name, profileURL string) error
	InsertStubArticles(journalistID string, stubs []core.ArticleStub) (int, error)
	ListPending() ([]core.Pending, error)
	CompleteArticle(id string, details core.ArticleDetails) error
}

// LinkSource yields deduplicated batches of article stubs for a profile.
type LinkSource interface {
	Harvest(ctx context.Context, profileID string, maxArticles int, emit func(batch []core.ArticleStub) error) error
}

// DetailFetcher retrieves one article's body and metadata. An error is a
// per-item soft failure.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, url string) (*core.ArticleDetails, error)
}

// NameResolver resolves a journalist's display name from their profile page.
type NameResolver interface {
	JournalistName(ctx context.Context, profileURL string) (string, error)
}

// Deps wires the collaborators into the pipeline.
type Deps struct {
	Store   ArticleStore
	Links   LinkSource
	Details DetailFetcher
	Names   NameResolver
}

// Pipeline runs the two-phase scrape: stream-discover article stubs into
// the store, then backfill every pending row. Both phases are idempotent;
// re-running with the same profile id inserts no duplicates and only
// touches rows still missing data.
type Pipeline struct {
	store      ArticleStore
	links      LinkSource
	details    DetailFetcher
	names      NameResolver
	baseURL    string
	fetchDelay time.Duration
}

// New constructs the pipeline. fetchDelay is the politeness pause between
// detail fetches.
func New(deps Deps, baseURL string, fetchDelay time.Duration) *Pipeline {
	return &Pipeline{
		store:      deps.Store,
		links:      deps.Links,
		details:    deps.Details,
		names:      deps.Names,
		baseURL:    baseURL,
		fetchDelay: fetchDelay,
	}
}

// Run executes both phases for one journalist and reports the resolved
// display name plus the number of pending rows completed in this run.
//
// Phase 1 persists every harvested batch as it arrives, so partial progress
// survives a crash mid-harvest. A harvest-session failure aborts the run.
// Phase 2 failures are per-article: the row stays pending and the run
// continues.
func (p *Pipeline) Run(ctx context.Context, profileID string, maxArticles int) (core.PipelineSummary, error) {
	log := logger.Get()
	profileURL := harvest.ProfileURL(p.baseURL, profileID)

	name, err := p.names.JournalistName(ctx, profileURL)
	if err != nil {
		return core.PipelineSummary{}, fmt.Errorf("pipeline: resolve journalist name: %w", err)
	}

	if err := p.store.EnsureJournalist(profileID, name, profileURL); err != nil {
		return core.PipelineSummary{}, fmt.Errorf("pipeline: %w", err)
	}

	log.Info().Str("journalist", name).Int("max", maxArticles).Msg("phase 1: harvesting links")
	err = p.links.Harvest(ctx, profileID, maxArticles, func(batch []core.ArticleStub) error {
		inserted, err := p.store.InsertStubArticles(profileID, batch)
		if err != nil {
			return err
		}
		log.Info().Int("batch", len(batch)).Int("inserted", inserted).Msg("saved stub articles")
		return nil
	})
	if err != nil {
		return core.PipelineSummary{}, fmt.Errorf("pipeline: harvest phase: %w", err)
	}

	pending, err := p.store.ListPending()
	if err != nil {
		return core.PipelineSummary{}, fmt.Errorf("pipeline: %w", err)
	}

	log.Info().Int("pending", len(pending)).Msg("phase 2: backfilling articles")
	updated := 0
	for i, item := range pending {
		if i > 0 {
			if err := sleep(ctx, p.fetchDelay); err != nil {
				return core.PipelineSummary{JournalistName: name, Updated: updated}, err
			}
		}

		details, err := p.details.FetchDetails(ctx, item.URL)
		if err != nil {
			log.Warn().Str("url", item.URL).Err(err).Msg("detail fetch failed, skipping")
			continue
		}

		if err := p.store.CompleteArticle(item.ID, *details); err != nil {
			return core.PipelineSummary{JournalistName: name, Updated: updated}, fmt.Errorf("pipeline: %w", err)
		}
		updated++
		log.Debug().Str("id", item.ID).Int("chars", len(details.Content)).Msg("article completed")
	}

	log.Info().Str("journalist", name).Int("updated", updated).Msg("pipeline finished")
	return core.PipelineSummary{JournalistName: name, Updated: updated}, nil
}

// sleep waits for the politeness delay unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
