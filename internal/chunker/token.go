package chunker

import (
	"strings"
	"unicode"
)

// EstimateTokens gives a rough token count: about 1.33 tokens per
// space-separated word, and one token per Han character, since CJK text has
// no spaces to count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words, han := 0, 0
	for _, field := range strings.Fields(text) {
		n := 0
		for _, r := range field {
			if unicode.Is(unicode.Han, r) {
				n++
			}
		}
		han += n
		if n < len([]rune(field)) {
			words++
		}
	}
	tokens := int(float64(words)*1.33) + han
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
