// Package services implements the application core: query routing,
// the ask pipeline (route, search, extract, cache, generate) and
// per-user document management. Services depend only on domain types
// and driven ports, never on concrete adapters.
package services
