package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bylines/internal/core"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoContent marks a page that yielded no body text. Metadata alone does
// not make a fetch successful.
var ErrNoContent = errors.New("no article content extracted")

// contentSelectors lists candidate article containers, most specific first.
// The first one that matches wins.
var contentSelectors = []string{
	"section.yle__article__content",
	"div.yle__article__content",
	"article",
	"main",
}

// Fetcher retrieves article body text and metadata from article pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher builds a fetcher with a bounded-timeout HTTP client.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchDetails retrieves one article page and extracts body text,
// description, keywords and the published date. Every failure (transport,
// status, or a page with no extractable body) comes back as an error the
// caller is expected to log and skip; none of them are fatal to a pipeline.
func (f *Fetcher) FetchDetails(ctx context.Context, url string) (*core.ArticleDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	details := &core.ArticleDetails{
		Description:   metaContent(doc, "meta[name='description']"),
		Keywords:      metaContent(doc, "meta[name='keywords']"),
		Content:       extractBody(doc),
		PublishedDate: extractPublishedDate(doc),
	}

	if details.Content == "" {
		return nil, fmt.Errorf("%s: %w", url, ErrNoContent)
	}

	return details, nil
}

// metaContent returns the content attribute of the first matching meta tag,
// or the empty string.
func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// extractBody walks the fallback container list and, inside the first match,
// concatenates paragraph and subheading text in document order.
func extractBody(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		var blocks []string
		container.Find("p, h2, h3").Each(func(_ int, item *goquery.Selection) {
			if text := strings.TrimSpace(item.Text()); text != "" {
				blocks = append(blocks, text)
			}
		})
		return strings.Join(blocks, "\n\n")
	}
	return ""
}

// extractPublishedDate reads article:published_time, falling back to the
// first time element's datetime attribute. Unparseable or missing dates
// resolve to the zero time.
func extractPublishedDate(doc *goquery.Document) time.Time {
	candidates := []string{
		metaContent(doc, "meta[property='article:published_time']"),
	}
	if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		candidates = append(candidates, strings.TrimSpace(datetime))
	}

	layouts := []string{time.RFC3339, "2006-01-02"}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, candidate); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
