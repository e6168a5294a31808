// Package rag answers questions about one journalist's work by retrieving
// their most relevant article chunks and grounding a model response in them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"bylines/internal/logger"
	"bylines/internal/vectorstore"
)

// DefaultTopK is how many chunks are retrieved per question.
const DefaultTopK = 5

const systemPrompt = `You are an Editorial Assistant for a Journalist Dashboard. Your role is to help editors and journalists quickly understand a journalist's body of work.

You answer questions using ONLY the article excerpts provided as context. The articles are written in Finnish and cover Finnish news topics, but you always answer in English.

Guidelines:
- Base every claim on the provided excerpts. If the context does not contain the answer, say so plainly instead of guessing.
- When you reference an article, cite it by its title in square brackets, e.g. [Article Title].
- Summarize and synthesize across articles when the question spans several of them.
- Keep answers concise and factual, in the register of an editorial briefing.`

const noContextAnswer = "I couldn't find any relevant articles to answer that question. Try scraping and syncing this journalist's articles first, or rephrase the question."

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Answer is a grounded response with the titles of the articles it drew on.
type Answer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
}

// Service wires retrieval to generation for one vector store and model.
type Service struct {
	vectors   vectorstore.Store
	generator Generator
	topK      int
}

// NewService creates a query service. Non-positive topK falls back to
// DefaultTopK.
func NewService(vectors vectorstore.Store, generator Generator, topK int) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{vectors: vectors, generator: generator, topK: topK}
}

// Ask retrieves the journalist's chunks most relevant to the question and
// generates an answer grounded in them. When nothing relevant is indexed the
// answer says so without calling the model.
func (s *Service) Ask(ctx context.Context, journalistID, question string) (*Answer, error) {
	log := logger.Get()

	results, err := s.vectors.Query(ctx, question, journalistID, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(results) == 0 {
		log.Debug().Str("journalist_id", journalistID).Msg("No chunks retrieved for question")
		return &Answer{Text: noContextAnswer, Sources: []string{}}, nil
	}

	prompt := buildPrompt(question, results)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return &Answer{Text: text, Sources: sourceTitles(results)}, nil
}

func buildPrompt(question string, results []vectorstore.Result) string {
	var context strings.Builder
	for i, result := range results {
		title := result.Chunk.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&context, "--- Article %d: %s ---\n%s\n\n", i+1, title, result.Chunk.Text)
	}

	return fmt.Sprintf(`%s

Context from the journalist's articles:

%s
Question: %s

Answer:`, systemPrompt, context.String(), question)
}

// sourceTitles returns the distinct article titles behind the results, in
// retrieval order.
func sourceTitles(results []vectorstore.Result) []string {
	seen := make(map[string]bool)
	titles := make([]string, 0, len(results))
	for _, result := range results {
		title := result.Chunk.Title
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles
}
