// Package server exposes the journalist dashboard as a JSON API: browse
// journalists and articles, trigger scrapes and index syncs, ask questions,
// and pull per-article analytics.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bylines/internal/analytics"
	"bylines/internal/core"
	"bylines/internal/logger"
	"bylines/internal/rag"
	"bylines/internal/store"
)

// Scraper runs the discover-and-backfill pipeline for one profile.
type Scraper interface {
	Run(ctx context.Context, profileID string, maxArticles int) (core.PipelineSummary, error)
}

// Indexer rebuilds a journalist's chunks in the vector index.
type Indexer interface {
	Sync(ctx context.Context, journalistID string) (bool, error)
}

// Answerer answers a question scoped to one journalist.
type Answerer interface {
	Ask(ctx context.Context, journalistID, question string) (*rag.Answer, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	store    *store.Store
	scraper  Scraper
	indexer  Indexer
	answerer Answerer
}

// New creates a Server over the given components.
func New(st *store.Store, scraper Scraper, indexer Indexer, answerer Answerer) *Server {
	return &Server{store: st, scraper: scraper, indexer: indexer, answerer: answerer}
}

// Router constructs the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/journalists", s.handleListJournalists)
		api.GET("/journalists/:id/articles", s.handleListArticles)
		api.POST("/journalists/:id/sync", s.handleSync)
		api.POST("/journalists/:id/ask", s.handleAsk)
		api.GET("/articles/:id/analytics", s.handleAnalytics)
		api.GET("/stats", s.handleStats)
		api.POST("/scrape", s.handleScrape)
	}

	return r
}

// Run starts the HTTP server on the given port.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.Get().Info().Str("addr", addr).Msg("Starting API server")
	return s.Router().Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleListJournalists(c *gin.Context) {
	journalists, err := s.store.ListJournalists()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list journalists: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"journalists": journalists})
}

func (s *Server) handleListArticles(c *gin.Context) {
	articles, err := s.store.ListArticlesByJournalist(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// ScrapeRequest triggers a pipeline run for one profile id.
type ScrapeRequest struct {
	ProfileID   string `json:"profile_id" binding:"required"`
	MaxArticles int    `json:"max_articles"`
}

func (s *Server) handleScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := s.scraper.Run(c.Request.Context(), req.ProfileID, req.MaxArticles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scrape failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"journalist_name": summary.JournalistName,
		"updated":         summary.Updated,
	})
}

func (s *Server) handleSync(c *gin.Context) {
	indexed, err := s.indexer.Sync(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexed": indexed})
}

// AskRequest carries a question about one journalist's articles.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleAsk(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.answerer.Ask(c.Request.Context(), c.Param("id"), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (s *Server) handleAnalytics(c *gin.Context) {
	article, err := s.store.GetArticle(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article: " + err.Error()})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	report := analytics.Generate(article.URL, article.PublishedDate)
	c.JSON(http.StatusOK, gin.H{
		"article_id": article.ID,
		"title":      article.Title,
		"analytics":  report,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
