package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Session is one live page session on a journalist profile. Implementations
// wrap whatever actually drives the page (plain HTTP, a headless browser);
// the harvester only ever talks to this interface.
//
// DismissConsent and LoadMore are bounded best-effort operations: a missing
// consent prompt or load-more control is a normal outcome, not an error.
type Session interface {
	// Open navigates to the profile page.
	Open(ctx context.Context, url string) error

	// DismissConsent tries to clear a consent prompt within the given wait.
	// Returns true when a prompt was found and dismissed.
	DismissConsent(ctx context.Context, wait time.Duration) bool

	// Snapshot returns the current HTML of the page.
	Snapshot(ctx context.Context) (string, error)

	// LoadMore tries to reveal more listing items within the given wait.
	// Returns false when no interactable control exists.
	LoadMore(ctx context.Context, wait time.Duration) (bool, error)

	// Close releases the session. Must be safe to call on every exit path.
	Close() error
}

// HTTPSession is the built-in Session over a plain GET of the profile page.
// It sees the server-rendered first batch of listing items; there is no
// consent prompt and no load-more control to interact with. A
// browser-automation Session can replace it without touching the harvester.
type HTTPSession struct {
	Client    *http.Client
	UserAgent string

	html string
}

// NewHTTPSession builds an HTTPSession with a bounded-timeout client.
func NewHTTPSession(timeout time.Duration, userAgent string) *HTTPSession {
	return &HTTPSession{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Open fetches the profile page and keeps its HTML as the session snapshot.
func (s *HTTPSession) Open(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build profile request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open profile %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to open profile %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read profile %s: %w", url, err)
	}

	s.html = string(body)
	return nil
}

// DismissConsent is a no-op for static fetches: no prompt ever appears.
func (s *HTTPSession) DismissConsent(ctx context.Context, wait time.Duration) bool {
	return false
}

// Snapshot returns the HTML captured by Open.
func (s *HTTPSession) Snapshot(ctx context.Context) (string, error) {
	if s.html == "" {
		return "", fmt.Errorf("session has no open page")
	}
	return s.html, nil
}

// LoadMore reports that no further items can be revealed.
func (s *HTTPSession) LoadMore(ctx context.Context, wait time.Duration) (bool, error) {
	return false, nil
}

// Close releases the snapshot.
func (s *HTTPSession) Close() error {
	s.html = ""
	return nil
}
