// Package sqlite provides a unified SQLite storage backend for
// document metadata, the answer cache, and conversation logs. One
// database file serves all three stores through wrapper types.
package sqlite
