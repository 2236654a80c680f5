package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/logger"
)

// minPartialDocTokens is the smallest budget remainder worth filling
// with a truncated document block. Anything smaller is dropped.
const minPartialDocTokens = 1000

// blockSeparator joins per-document context blocks.
const blockSeparator = "\n\n---\n\n"

// assembleContext renders retrieved documents into the text block fed
// to answer generation. Small documents go in whole; large ones are
// reduced to their most query-relevant excerpts. Returns the context
// and the number of documents that made it in.
func (a *Assistant) assembleContext(results []domain.SearchResult, query string) (string, int) {
	var blocks []string
	used := 0
	budget := a.opts.MaxContextTokens

	for _, res := range results {
		block := a.documentBlock(res, query)
		tokens := estimateTokens(block)

		if tokens > budget {
			if budget < minPartialDocTokens {
				break
			}
			block = truncateToTokens(block, budget)
			blocks = append(blocks, block)
			used++
			break
		}

		blocks = append(blocks, block)
		used++
		budget -= tokens
	}

	if used < len(results) {
		logger.Debug("Context budget reached: %d of %d documents included", used, len(results))
	}
	return strings.Join(blocks, blockSeparator), used
}

// documentBlock renders one retrieved document. Documents under the
// small-document threshold keep their full text; larger ones are cut
// to relevant excerpts.
func (a *Assistant) documentBlock(res domain.SearchResult, query string) string {
	text := res.FullText
	if text == "" {
		text = res.Document.Summary
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\nSummary: %s\n\n", res.Document.Title, res.Document.Summary)

	if utf8.RuneCountInString(text) <= a.opts.SmallDocChars {
		b.WriteString("Content:\n")
		b.WriteString(truncateToTokens(text, a.opts.MaxDocTokens))
		return b.String()
	}

	chunks := a.extractor.Extract(text, query)
	b.WriteString("Relevant excerpts:\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "\n[Excerpt %d]\n%s\n", i+1, chunk)
	}
	return truncateToTokens(b.String(), a.opts.MaxDocTokens)
}
