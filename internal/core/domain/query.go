package domain

// QueryType classifies the semantic intent of a free-text query.
type QueryType string

const (
	// QueryFactual covers who/what/where/when style questions.
	QueryFactual QueryType = "factual"

	// QueryAnalytical covers why/how-does-it-work questions.
	// It is also the default for unclassifiable queries.
	QueryAnalytical QueryType = "analytical"

	// QueryProcedural covers how-to and step-by-step questions.
	QueryProcedural QueryType = "procedural"

	// QueryConceptual covers definition and terminology questions.
	QueryConceptual QueryType = "conceptual"

	// QueryComparison covers difference/similarity questions.
	QueryComparison QueryType = "comparison"
)

// SearchStrategy determines how broad a retrieval pass to run.
type SearchStrategy string

const (
	// StrategyPrecise is a narrow search for factual and conceptual
	// questions.
	StrategyPrecise SearchStrategy = "precise"

	// StrategyBroad is a wider search for analytical and procedural
	// questions.
	StrategyBroad SearchStrategy = "broad"

	// StrategyComprehensive is the widest search, for comparisons and
	// other questions that need many documents in context.
	StrategyComprehensive SearchStrategy = "comprehensive"
)

// RoutingDecision is the ephemeral outcome of routing one query.
// It is derived purely from the query string and never persisted.
type RoutingDecision struct {
	// Query is the routed query text.
	Query string

	// Type is the classified query type.
	Type QueryType

	// Strategy is the search strategy mapped from Type.
	Strategy SearchStrategy

	// TopK is the maximum number of documents to retrieve.
	TopK int

	// SimilarityThreshold filters candidates below this cosine
	// similarity. A tunable knob per strategy, currently 0.0 for all.
	SimilarityThreshold float64
}
