// Package extractor selects the excerpts of a long document most
// relevant to a query, using lexical scoring only. It deliberately
// avoids a second embedding call: extraction runs once per retrieved
// document on every question.
package extractor

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default excerpt budget unit in characters.
const DefaultChunkSize = 2000

// DefaultMaxChunks is the default number of excerpts to return.
const DefaultMaxChunks = 3

// minTailChars is the smallest truncated fragment worth including.
// A candidate that would be cut below this is skipped instead.
const minTailChars = 500

// truncationMarker is appended to a hard-truncated excerpt.
const truncationMarker = "..."

// stopWords are query tokens that carry no retrieval signal.
// Russian and English function words; tokens of <= 2 runes are
// dropped separately.
var stopWords = map[string]struct{}{
	// Russian
	"и": {}, "в": {}, "на": {}, "с": {}, "по": {}, "для": {},
	"от": {}, "к": {}, "из": {}, "что": {}, "как": {}, "это": {},
	"а": {}, "но": {}, "или": {},
	// English
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
	"this": {}, "that": {}, "what": {}, "how": {}, "are": {},
	"was": {}, "you": {}, "not": {},
}

// Processor extracts query-relevant excerpts from document text.
type Processor struct {
	chunkSize int
	maxChunks int
}

// Option configures the extractor processor.
type Option func(*Processor)

// WithChunkSize sets the excerpt budget unit in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithMaxChunks sets the maximum number of excerpts.
func WithMaxChunks(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChunks = n
		}
	}
}

// New creates a new extractor processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		maxChunks: DefaultMaxChunks,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "extractor"
}

// scored is one candidate excerpt with its lexical score.
type scored struct {
	score float64
	text  string
}

// Extract returns the excerpts of text most relevant to query.
// For any non-empty text it returns at least one non-empty chunk:
// when nothing scores positively it falls back to the document head.
func (p *Processor) Extract(text, query string) []string {
	if text == "" {
		return nil
	}

	queryWords := queryWordSet(query)

	// Paragraph pass: blank-line delimited blocks scored by distinct
	// query-word hits plus a small weight for repeated occurrences.
	candidates := scoreParagraphs(text, queryWords)

	// Sentence fallback when no paragraph matched at all.
	if len(candidates) == 0 {
		candidates = scoreSentences(text, queryWords)
	}

	// Stable: equal scores keep original document order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	chunks := p.fillBudget(candidates)

	if len(chunks) == 0 {
		chunks = append(chunks, truncateRunes(text, p.chunkSize))
	}
	return chunks
}

// fillBudget greedily accepts whole candidates while the running
// total stays under chunkSize*maxChunks. The first overflowing
// candidate is hard-truncated into the remaining budget and ends
// extraction, unless the remainder is fragment-sized, in which case
// the candidate is skipped.
func (p *Processor) fillBudget(candidates []scored) []string {
	var chunks []string
	total := 0
	budget := p.chunkSize * p.maxChunks

	for _, c := range candidates {
		n := utf8.RuneCountInString(c.text)
		switch {
		case total+n <= budget && len(chunks) < p.maxChunks:
			chunks = append(chunks, c.text)
			total += n
		case len(chunks) < p.maxChunks:
			remaining := budget - total
			if remaining > minTailChars {
				chunks = append(chunks, truncateRunes(c.text, remaining)+truncationMarker)
				return chunks
			}
			// Fragment-sized remainder: drop this candidate, a
			// shorter one may still fit.
		default:
			return chunks
		}
	}
	return chunks
}

// queryWordSet tokenizes the query, dropping stop words and tokens
// of two runes or fewer.
func queryWordSet(query string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}

func scoreParagraphs(text string, queryWords map[string]struct{}) []scored {
	var out []scored
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lower := strings.ToLower(para)
		score := 0.0
		for w := range queryWords {
			if strings.Contains(lower, w) {
				score += 1.0
			}
			score += 0.1 * float64(strings.Count(lower, w))
		}
		if score > 0 {
			out = append(out, scored{score: score, text: para})
		}
	}
	return out
}

func scoreSentences(text string, queryWords map[string]struct{}) []scored {
	var out []scored
	flat := strings.ReplaceAll(text, "\n", " ")
	for _, sentence := range strings.Split(flat, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		score := 0.0
		for w := range queryWords {
			if strings.Contains(lower, w) {
				score += 1.0
			}
		}
		if score > 0 {
			out = append(out, scored{score: score, text: sentence + "."})
		}
	}
	return out
}

// truncateRunes cuts s to at most n runes without splitting a rune.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
