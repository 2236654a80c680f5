package services

import "unicode/utf8"

// charsPerToken is the rough character-to-token ratio used for
// context budgeting. One token approximates four characters.
const charsPerToken = 4

// contextTruncationMarker is appended when text is cut to fit a
// token budget.
const contextTruncationMarker = " ... [truncated]"

// estimateTokens approximates the token count of text.
func estimateTokens(text string) int {
	return utf8.RuneCountInString(text) / charsPerToken
}

// truncateToTokens cuts text to roughly maxTokens, appending a
// truncation marker when anything was removed.
func truncateToTokens(text string, maxTokens int) string {
	maxChars := maxTokens * charsPerToken
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	return headRunes(text, maxChars) + contextTruncationMarker
}

// headRunes returns the first n runes of s without splitting a rune.
func headRunes(s string, n int) string {
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
