package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bylines/internal/core"
	"bylines/internal/logger"

	"github.com/PuerkitoBio/goquery"
)

// listingAnchorSelector matches article cards on a profile listing. The
// attribute value is the article's stable external id.
const listingAnchorSelector = "a[data-card-heading-content-id]"

// ProfileURL derives a journalist's profile page URL from their id.
func ProfileURL(baseURL, profileID string) string {
	return fmt.Sprintf("%s/p/%s/fi", strings.TrimSuffix(baseURL, "/"), profileID)
}

// ArticleURL derives an article's canonical URL from its id.
func ArticleURL(baseURL, articleID string) string {
	return fmt.Sprintf("%s/a/%s", strings.TrimSuffix(baseURL, "/"), articleID)
}

// Harvester walks a profile listing through a Session, yielding batches of
// newly discovered article stubs until a cap or the end of the listing.
// Each harvest run acquires its own session from the factory and releases
// it on every exit path; no session outlives a run.
type Harvester struct {
	baseURL      string
	consentWait  time.Duration
	loadMoreWait time.Duration
	sessions     func() Session
}

// NewHarvester builds a harvester for one publisher base URL. The factory
// is invoked once per Harvest call.
func NewHarvester(baseURL string, consentWait, loadMoreWait time.Duration, sessions func() Session) *Harvester {
	return &Harvester{
		baseURL:      baseURL,
		consentWait:  consentWait,
		loadMoreWait: loadMoreWait,
		sessions:     sessions,
	}
}

// Harvest opens the journalist's profile in a fresh session and emits
// deduplicated batches of article stubs until maxArticles distinct ids have
// been yielded (maxArticles <= 0 means unbounded) or no more items can be
// revealed. Each scan pass emits only ids never seen before in this run;
// passes that reveal nothing new emit no batch.
//
// The session is closed before Harvest returns, on every path. Failures
// while looking for the load-more control end the harvest gracefully;
// failures to open or snapshot the page are fatal and propagate.
func (h *Harvester) Harvest(ctx context.Context, profileID string, maxArticles int, emit func(batch []core.ArticleStub) error) error {
	session := h.sessions()
	defer func() {
		if err := session.Close(); err != nil {
			logger.Get().Warn().Err(err).Msg("failed to close harvest session")
		}
	}()

	log := logger.Get()
	profileURL := ProfileURL(h.baseURL, profileID)

	log.Info().Str("url", profileURL).Msg("opening profile")
	if err := session.Open(ctx, profileURL); err != nil {
		return fmt.Errorf("harvest: %w", err)
	}

	if session.DismissConsent(ctx, h.consentWait) {
		log.Debug().Msg("consent prompt dismissed")
	}

	seen := make(map[string]struct{})
	total := 0
	unbounded := maxArticles <= 0

	for {
		html, err := session.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("harvest: %w", err)
		}

		batch, err := h.scan(html, seen, maxArticles, &total)
		if err != nil {
			return fmt.Errorf("harvest: %w", err)
		}

		if len(batch) > 0 {
			log.Info().Int("new", len(batch)).Int("total", total).Msg("discovered articles")
			if err := emit(batch); err != nil {
				return fmt.Errorf("harvest: emit batch: %w", err)
			}
		}

		if !unbounded && total >= maxArticles {
			log.Info().Int("total", total).Msg("article cap reached")
			return nil
		}

		more, err := session.LoadMore(ctx, h.loadMoreWait)
		if err != nil {
			// Treated the same as the control being absent.
			log.Warn().Err(err).Msg("load-more lookup failed, ending harvest")
			return nil
		}
		if !more {
			log.Info().Int("total", total).Msg("no more items to reveal")
			return nil
		}
	}
}

// scan extracts not-yet-seen article stubs from one page snapshot, stopping
// the instant the cap is reached.
func (h *Harvester) scan(html string, seen map[string]struct{}, maxArticles int, total *int) ([]core.ArticleStub, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	unbounded := maxArticles <= 0
	var batch []core.ArticleStub

	doc.Find(listingAnchorSelector).EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		id, _ := anchor.Attr("data-card-heading-content-id")
		if id == "" {
			return true
		}
		if _, ok := seen[id]; ok {
			return true
		}

		seen[id] = struct{}{}
		batch = append(batch, core.ArticleStub{
			ID:    id,
			Title: strings.TrimSpace(anchor.Text()),
			URL:   ArticleURL(h.baseURL, id),
		})
		*total++

		return unbounded || *total < maxArticles
	})

	return batch, nil
}

// Resolver fetches a journalist's display name from their profile page.
// This is a single-shot retrieval, separate from the paginated harvest.
type Resolver struct {
	Client    *http.Client
	UserAgent string
}

// NewResolver builds a resolver with a bounded-timeout client.
func NewResolver(timeout time.Duration, userAgent string) *Resolver {
	return &Resolver{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// JournalistName resolves the display name from the profile page: og:title
// first, then the first h1.
func (r *Resolver) JournalistName(ctx context.Context, profileURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build profile request: %w", err)
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch profile %s: %w", profileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch profile %s: status %d", profileURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read profile %s: %w", profileURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse profile %s: %w", profileURL, err)
	}

	if ogTitle, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if name := strings.TrimSpace(ogTitle); name != "" {
			return name, nil
		}
	}
	if name := strings.TrimSpace(doc.Find("h1").First().Text()); name != "" {
		return name, nil
	}

	return "", fmt.Errorf("no journalist name found on %s", profileURL)
}
