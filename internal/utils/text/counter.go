// Package text provides rune-safe text helpers shared by the AI
// enrichment providers.
package text

// CountRunes counts the number of Unicode characters in the given text.
// Byte length over-counts multi-byte characters, which matters when
// budgeting prompt sizes for non-ASCII article content.
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate shortens text to at most max runes, appending an ellipsis when
// anything was cut. A non-positive max returns the empty string.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
