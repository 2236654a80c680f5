// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI drives the core through these.
package driving
