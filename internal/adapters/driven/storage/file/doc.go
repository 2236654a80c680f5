// Package file provides JSON-file storage adapters: document metadata
// with a per-user positional index, full-text blobs, a TTL answer
// cache, and per-user conversation logs. Everything lives under one
// data directory and is written atomically.
package file
