package services

import (
	"fmt"
	"strings"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/logger"
)

// typePriority is the fixed evaluation order for query types. It
// resolves ties among equal nonzero keyword scores: the earliest
// type in this slice wins. The order is deterministic by contract;
// nothing beyond determinism should be read into it.
var typePriority = []domain.QueryType{
	domain.QueryFactual,
	domain.QueryAnalytical,
	domain.QueryProcedural,
	domain.QueryConceptual,
	domain.QueryComparison,
}

// typeKeywords are the case-insensitive trigger phrases per query
// type, matched as substrings of the lower-cased query. Russian and
// English phrases side by side.
var typeKeywords = map[domain.QueryType][]string{
	domain.QueryFactual: {
		"кто", "что", "где", "когда", "какой", "какая", "какие",
		"сколько", "дата", "дедлайн", "процент", "команды",
		"who", "where", "when", "which", "how many", "date", "deadline",
	},
	domain.QueryAnalytical: {
		"почему", "зачем", "как работает", "причина", "объясни",
		"разберись", "проанализируй", "в чем суть",
		"why", "how does", "explain", "analyse", "analyze", "reason",
	},
	domain.QueryProcedural: {
		"как сделать", "как создать", "шаги", "инструкция",
		"руководство", "tutorial", "как использовать",
		"how to", "how do i", "steps", "guide", "instructions",
	},
	domain.QueryConceptual: {
		"что такое", "определение", "концепция", "понятие",
		"термин", "смысл", "значение",
		"what is", "definition", "concept", "meaning",
	},
	domain.QueryComparison: {
		"сравни", "различие", "отличие", "сходство", "vs",
		"лучше", "хуже", "преимущество", "недостаток",
		"compare", "difference", "versus", "better", "worse",
	},
}

// strategyForType maps each query type to its search strategy.
var strategyForType = map[domain.QueryType]domain.SearchStrategy{
	domain.QueryFactual:    domain.StrategyPrecise,
	domain.QueryConceptual: domain.StrategyPrecise,
	domain.QueryAnalytical: domain.StrategyBroad,
	domain.QueryProcedural: domain.StrategyBroad,
	domain.QueryComparison: domain.StrategyComprehensive,
}

// strategyParams holds the tunable breadth knobs per strategy.
// The similarity threshold is a real field even while every strategy
// currently runs at 0.0.
type strategyParams struct {
	topK      int
	threshold float64
}

var strategyConfig = map[domain.SearchStrategy]strategyParams{
	domain.StrategyPrecise:       {topK: 3, threshold: 0.0},
	domain.StrategyBroad:         {topK: 7, threshold: 0.0},
	domain.StrategyComprehensive: {topK: 10, threshold: 0.0},
}

// Router classifies free-text queries and maps them to a search
// strategy. It is stateless, deterministic and does no I/O.
type Router struct{}

// NewRouter creates a query router.
func NewRouter() *Router {
	return &Router{}
}

// Classify scores each query type by the number of its keywords found
// in the lower-cased query and returns the arg-max. An all-zero score
// defaults to analytical; nonzero ties go to the earliest type in
// typePriority.
func (r *Router) Classify(query string) domain.QueryType {
	lower := strings.ToLower(query)

	best := domain.QueryAnalytical
	bestScore := 0
	for _, qt := range typePriority {
		score := 0
		for _, kw := range typeKeywords[qt] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = qt
			bestScore = score
		}
	}

	if bestScore == 0 {
		logger.Debug("Query %q unclassified, defaulting to %s", query, domain.QueryAnalytical)
		return domain.QueryAnalytical
	}
	logger.Debug("Query %q classified as %s", query, best)
	return best
}

// Route composes classification with the strategy table. No side
// effects, no failure mode.
func (r *Router) Route(query string) domain.RoutingDecision {
	qt := r.Classify(query)
	strategy := strategyForType[qt]
	params := strategyConfig[strategy]

	logger.Debug("Routing: %s -> %s (top_k=%d, threshold=%.2f)",
		qt, strategy, params.topK, params.threshold)

	return domain.RoutingDecision{
		Query:               query,
		Type:                qt,
		Strategy:            strategy,
		TopK:                params.topK,
		SimilarityThreshold: params.threshold,
	}
}

// Explain renders a human-readable description of the routing
// decision for a query.
func (r *Router) Explain(query string) string {
	d := r.Route(query)
	return fmt.Sprintf(
		"Query type: %s\nStrategy: %s\nTop K: %d documents\nSimilarity threshold: %.2f",
		d.Type, d.Strategy, d.TopK, d.SimilarityThreshold)
}
