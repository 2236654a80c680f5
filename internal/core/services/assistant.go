package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
	"github.com/docent-dev/docent/internal/core/ports/driving"
	"github.com/docent-dev/docent/internal/logger"
	"github.com/docent-dev/docent/internal/postprocessors/extractor"
)

// Ensure Assistant implements the interface.
var _ driving.AssistantService = (*Assistant)(nil)

// Options holds the pipeline's tunable budgets.
type Options struct {
	// SummaryMaxLen is the target summary length in characters.
	SummaryMaxLen int

	// SummarizeInputChars bounds the text sent to summarization.
	SummarizeInputChars int

	// SmallDocChars is the size under which a document goes into the
	// context whole, skipping excerpt extraction.
	SmallDocChars int

	// ExtractChunkSize and ExtractMaxChunks shape excerpt extraction
	// for large documents.
	ExtractChunkSize int
	ExtractMaxChunks int

	// MaxDocTokens bounds each document's context block.
	MaxDocTokens int

	// MaxContextTokens bounds the whole assembled context.
	MaxContextTokens int

	// HistoryLimit is how many recent turns feed generation.
	HistoryLimit int
}

// DefaultOptions returns the pipeline budgets used in production.
func DefaultOptions() Options {
	return Options{
		SummaryMaxLen:       500,
		SummarizeInputChars: 16000,
		SmallDocChars:       5000,
		ExtractChunkSize:    1500,
		ExtractMaxChunks:    2,
		MaxDocTokens:        10000,
		MaxContextTokens:    60000,
		HistoryLimit:        6,
	}
}

// Assistant answers questions from a per-user document corpus.
// Each request runs to completion: route, search, extract, cache
// check, maybe generate, cache write, history append.
type Assistant struct {
	ai        driven.AIService
	docs      driven.DocumentStore
	blobs     driven.BlobStore
	cache     driven.AnswerCache
	history   driven.ConversationStore
	router    *Router
	extractor *extractor.Processor
	opts      Options
}

// NewAssistant wires the assistant over its ports. The AIService is
// expected to already carry retry and rate-limit decorators.
func NewAssistant(
	ai driven.AIService,
	docs driven.DocumentStore,
	blobs driven.BlobStore,
	cache driven.AnswerCache,
	history driven.ConversationStore,
	opts Options,
) *Assistant {
	return &Assistant{
		ai:      ai,
		docs:    docs,
		blobs:   blobs,
		cache:   cache,
		history: history,
		router:  NewRouter(),
		extractor: extractor.New(
			extractor.WithChunkSize(opts.ExtractChunkSize),
			extractor.WithMaxChunks(opts.ExtractMaxChunks),
		),
		opts: opts,
	}
}

// Router exposes the assistant's query router, for routing
// explanations outside the ask pipeline.
func (a *Assistant) Router() *Router {
	return a.router
}

// Ask answers a question from the owner's documents.
func (a *Assistant) Ask(ctx context.Context, ownerID int64, query string) (*driving.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	logger.Section("Ask")
	decision := a.router.Route(query)
	logger.Info("Routing: type=%s strategy=%s top_k=%d threshold=%.2f",
		decision.Type, decision.Strategy, decision.TopK, decision.SimilarityThreshold)

	answer := &driving.Answer{Routing: decision}

	queryVec, err := a.ai.Embed(ctx, query)
	if err != nil || domain.IsZeroVector(queryVec) {
		// A query that fails to embed retrieves nothing; the caller
		// sees the graceful no-answer outcome, not an error.
		logger.Warn("Query embedding unavailable: %v", err)
		return answer, nil
	}

	results, err := a.docs.Search(ctx, ownerID, queryVec, decision.TopK, decision.SimilarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	answer.DocumentsFound = len(results)
	logger.Debug("Retrieved %d documents", len(results))
	if len(results) == 0 {
		return answer, nil
	}

	a.hydrate(ctx, results)

	docContext, used := a.assembleContext(results, query)
	answer.DocumentsUsed = used
	logger.Debug("Assembled context from %d/%d documents (~%d tokens)",
		used, len(results), estimateTokens(docContext))

	key := domain.CacheKey(ownerID, query, docContext)
	if entry, err := a.cache.Get(ctx, key); err == nil {
		logger.Info("Cache hit for key %s", key[:16])
		answer.Text = entry.Answer
		answer.Cached = true
	} else {
		history := a.recentHistory(ctx, ownerID)
		text, err := a.ai.GenerateAnswer(ctx, query, docContext, history, a.opts.MaxContextTokens)
		if err != nil {
			return nil, fmt.Errorf("generate answer: %w", err)
		}
		answer.Text = text
		a.cacheAnswer(ctx, key, ownerID, query, text)
	}

	a.appendTurns(ctx, ownerID, query, answer.Text)
	return answer, nil
}

// hydrate loads each result's full text lazily, degrading to the
// summary on any blob read failure. One bad record never fails a
// whole search.
func (a *Assistant) hydrate(ctx context.Context, results []domain.SearchResult) {
	for i := range results {
		text, err := a.blobs.Get(ctx, results[i].Document.TextRef)
		if err != nil {
			logger.Error("Full text unreadable for document %s, using summary: %v",
				results[i].Document.ID, err)
			results[i].FullText = results[i].Document.Summary
			continue
		}
		results[i].FullText = text
	}
}

// recentHistory fetches the dialogue turns that feed generation.
// History I/O failures degrade to an empty history.
func (a *Assistant) recentHistory(ctx context.Context, ownerID int64) []domain.ConversationTurn {
	turns, err := a.history.History(ctx, ownerID, a.opts.HistoryLimit)
	if err != nil {
		logger.Error("History unavailable for user %d: %v", ownerID, err)
		return nil
	}
	return turns
}

// cacheAnswer writes the generated answer; cache I/O failures are
// absorbed.
func (a *Assistant) cacheAnswer(ctx context.Context, key string, ownerID int64, query, text string) {
	entry := domain.CacheEntry{
		Key:     key,
		OwnerID: ownerID,
		Query:   query,
		Answer:  text,
	}
	if err := a.cache.Set(ctx, entry); err != nil {
		logger.Error("Cache write failed for key %s: %v", key[:16], err)
	}
}

// appendTurns records the question/answer pair. History I/O failures
// are absorbed.
func (a *Assistant) appendTurns(ctx context.Context, ownerID int64, query, text string) {
	if text == "" {
		return
	}
	if err := a.history.Append(ctx, ownerID, domain.ConversationTurn{Role: domain.RoleUser, Content: query}); err != nil {
		logger.Error("History append failed for user %d: %v", ownerID, err)
		return
	}
	if err := a.history.Append(ctx, ownerID, domain.ConversationTurn{Role: domain.RoleAssistant, Content: text}); err != nil {
		logger.Error("History append failed for user %d: %v", ownerID, err)
	}
}
