// Package domain defines the core business entities for Docent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A per-user unit of knowledge with its embedding
//   - SearchResult: A retrieved document with a similarity score
//   - RoutingDecision: A query classification and its search strategy
//   - CacheEntry: A memoized answer keyed by (owner, query, context)
//   - ConversationTurn: One entry in a per-user dialogue log
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
