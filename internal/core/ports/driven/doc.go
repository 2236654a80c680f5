// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// The core services depend on these interfaces, never on concrete
// adapters. Storage ports have file, sqlite and memory
// implementations; the AI port has an OpenAI-compatible HTTP
// implementation wrapped by retry and rate-limit decorators.
package driven
