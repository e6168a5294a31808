package core

import "time"

// Journalist represents a publisher profile whose articles are tracked.
type Journalist struct {
	ID         string `json:"id"`          // Stable external identifier (e.g. "56-74-1533")
	Name       string `json:"name"`        // Display name resolved from the profile page
	ProfileURL string `json:"profile_url"` // Derived deterministically from ID
}

// ArticleStub is the discovery-time view of an article: identity and title
// only, harvested from a profile listing before any detail fetch.
type ArticleStub struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Article is a fully persisted article row. Content, Description, Keywords
// and PublishedDate stay empty until the backfill phase fills them in.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	PublishedDate time.Time `json:"published_date"` // Zero value when not yet known
	Content       string    `json:"content"`
	Description   string    `json:"description"`
	Keywords      string    `json:"keywords"`
	JournalistID  string    `json:"journalist_id"`
}

// Pending identifies an article still missing content or description and
// therefore eligible for backfill.
type Pending struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ArticleDetails is the result of a successful detail fetch.
type ArticleDetails struct {
	Content       string    `json:"content"`
	Description   string    `json:"description"`
	Keywords      string    `json:"keywords"`
	PublishedDate time.Time `json:"published_date"` // Zero value when the page carries no date
}

// Chunk is a bounded, overlapping fragment of an article's text destined
// for the vector index. Metadata ties it back to its article and journalist.
type Chunk struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	ArticleID     string `json:"article_id"`
	JournalistID  string `json:"journalist_id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
}

// PipelineSummary reports the outcome of one scrape-and-backfill run.
type PipelineSummary struct {
	JournalistName string `json:"journalist_name"`
	Updated        int    `json:"updated"` // Pending rows completed in this run
}

// InsertResult reports whether a stub insert created a row or hit an
// existing id.
type InsertResult int

const (
	Inserted InsertResult = iota
	AlreadyExists
)
