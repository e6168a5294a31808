package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bylines/internal/core"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed record of journalists and their articles.
// It assumes a single writer; every statement is atomic on its own.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database under dataDir and applies the
// schema. Calling it repeatedly against the same directory is safe.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "bylines.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables.
func (s *Store) initialize() error {
	journalistsTable := `
	CREATE TABLE IF NOT EXISTS journalists (
		id TEXT PRIMARY KEY,
		name TEXT,
		profile_url TEXT
	);`

	articlesTable := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT,
		url TEXT,
		published_date TEXT,
		content TEXT,
		description TEXT,
		keywords TEXT,
		journalist_id TEXT,
		FOREIGN KEY (journalist_id) REFERENCES journalists (id)
	);`

	tables := []string{journalistsTable, articlesTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// migrate applies additive schema upgrades. Columns that already exist are
// not an error, so databases created by any prior revision pass through.
func (s *Store) migrate() error {
	alters := []string{
		"ALTER TABLE articles ADD COLUMN description TEXT",
		"ALTER TABLE articles ADD COLUMN keywords TEXT",
		"ALTER TABLE articles ADD COLUMN published_date TEXT",
	}

	for _, stmt := range alters {
		if _, err := s.db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("failed to alter table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureJournalist inserts a journalist row if absent. An existing row is
// left untouched, name included.
func (s *Store) EnsureJournalist(id, name, profileURL string) error {
	query := `
	INSERT OR IGNORE INTO journalists (id, name, profile_url)
	VALUES (?, ?, ?)`

	if _, err := s.db.Exec(query, id, name, profileURL); err != nil {
		return fmt.Errorf("failed to ensure journalist %s: %w", id, err)
	}
	return nil
}

// InsertStubArticle inserts a content-less article row, reporting whether a
// row was created or the id was already present.
func (s *Store) InsertStubArticle(journalistID string, stub core.ArticleStub) (core.InsertResult, error) {
	query := `
	INSERT OR IGNORE INTO articles (id, title, url, journalist_id)
	VALUES (?, ?, ?, ?)`

	res, err := s.db.Exec(query, stub.ID, stub.Title, stub.URL, journalistID)
	if err != nil {
		return core.AlreadyExists, fmt.Errorf("failed to insert stub %s: %w", stub.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.AlreadyExists, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return core.AlreadyExists, nil
	}
	return core.Inserted, nil
}

// InsertStubArticles inserts a batch of stubs and returns how many rows were
// actually created. Duplicates are skipped silently.
func (s *Store) InsertStubArticles(journalistID string, stubs []core.ArticleStub) (int, error) {
	inserted := 0
	for _, stub := range stubs {
		result, err := s.InsertStubArticle(journalistID, stub)
		if err != nil {
			return inserted, err
		}
		if result == core.Inserted {
			inserted++
		}
	}
	return inserted, nil
}

// ListPending returns every article still missing body text or description,
// across all journalists, in insertion order.
func (s *Store) ListPending() ([]core.Pending, error) {
	query := `
	SELECT id, url FROM articles
	WHERE content IS NULL OR content = '' OR description IS NULL
	ORDER BY rowid`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending articles: %w", err)
	}
	defer rows.Close()

	var pending []core.Pending
	for rows.Next() {
		var p core.Pending
		if err := rows.Scan(&p.ID, &p.URL); err != nil {
			return nil, fmt.Errorf("failed to scan pending article: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending articles: %w", err)
	}

	return pending, nil
}

// CompleteArticle fills in the backfill fields for an existing row. An
// unknown id is a no-op: pending ids are the only callers' source, so a
// vanished row means there is simply nothing to update.
func (s *Store) CompleteArticle(id string, details core.ArticleDetails) error {
	query := `
	UPDATE articles
	SET content = ?, description = ?, keywords = ?, published_date = ?
	WHERE id = ?`

	var published any
	if !details.PublishedDate.IsZero() {
		published = details.PublishedDate.UTC().Format(time.RFC3339)
	}

	if _, err := s.db.Exec(query, details.Content, details.Description, details.Keywords, published, id); err != nil {
		return fmt.Errorf("failed to complete article %s: %w", id, err)
	}
	return nil
}

// ListArticlesByJournalist returns every article row for one journalist.
func (s *Store) ListArticlesByJournalist(journalistID string) ([]core.Article, error) {
	query := `
	SELECT id, title, url, published_date, content, description, keywords, journalist_id
	FROM articles
	WHERE journalist_id = ?
	ORDER BY rowid`

	rows, err := s.db.Query(query, journalistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles for %s: %w", journalistID, err)
	}
	defer rows.Close()

	var articles []core.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

// GetArticle returns a single article row, or nil when the id is unknown.
func (s *Store) GetArticle(id string) (*core.Article, error) {
	query := `
	SELECT id, title, url, published_date, content, description, keywords, journalist_id
	FROM articles
	WHERE id = ?`

	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query article %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	article, err := scanArticle(rows)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// ListJournalists returns every journalist row.
func (s *Store) ListJournalists() ([]core.Journalist, error) {
	rows, err := s.db.Query(`SELECT id, name, profile_url FROM journalists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journalists: %w", err)
	}
	defer rows.Close()

	var journalists []core.Journalist
	for rows.Next() {
		var j core.Journalist
		var name, profileURL sql.NullString
		if err := rows.Scan(&j.ID, &name, &profileURL); err != nil {
			return nil, fmt.Errorf("failed to scan journalist: %w", err)
		}
		j.Name = name.String
		j.ProfileURL = profileURL.String
		journalists = append(journalists, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journalists: %w", err)
	}

	return journalists, nil
}

// Stats summarizes the store contents for the dashboard's metric row.
type Stats struct {
	JournalistCount  int     `json:"journalist_count"`
	ArticleCount     int     `json:"article_count"`
	PendingCount     int     `json:"pending_count"`
	AvgContentLength float64 `json:"avg_content_length"`
}

// GetStats returns aggregate counts over the store.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	counts := map[string]*int{
		"SELECT COUNT(*) FROM journalists": &stats.JournalistCount,
		"SELECT COUNT(*) FROM articles":    &stats.ArticleCount,
		"SELECT COUNT(*) FROM articles WHERE content IS NULL OR content = '' OR description IS NULL": &stats.PendingCount,
	}
	for query, target := range counts {
		if err := s.db.QueryRow(query).Scan(target); err != nil {
			return nil, fmt.Errorf("failed to get count: %w", err)
		}
	}

	var avg sql.NullFloat64
	query := `SELECT AVG(LENGTH(content)) FROM articles WHERE content IS NOT NULL AND content != ''`
	if err := s.db.QueryRow(query).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to get average length: %w", err)
	}
	stats.AvgContentLength = avg.Float64

	return stats, nil
}

func scanArticle(rows *sql.Rows) (core.Article, error) {
	var article core.Article
	var title, url, published, content, description, keywords, journalistID sql.NullString

	if err := rows.Scan(&article.ID, &title, &url, &published, &content, &description, &keywords, &journalistID); err != nil {
		return core.Article{}, fmt.Errorf("failed to scan article: %w", err)
	}

	article.Title = title.String
	article.URL = url.String
	article.Content = content.String
	article.Description = description.String
	article.Keywords = keywords.String
	article.JournalistID = journalistID.String

	if published.Valid && published.String != "" {
		if parsed, err := time.Parse(time.RFC3339, published.String); err == nil {
			article.PublishedDate = parsed
		}
	}

	return article, nil
}
