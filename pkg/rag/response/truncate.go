package response

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultMaxSentences = 5
	// fragments of this many characters or fewer are treated as artifacts
	minFragmentLength = 10
)

// Truncate keeps at most n sentence-like fragments of text and guarantees
// trailing punctuation. Fragments are cut after . ! or ? followed by
// whitespace.
func Truncate(text string, n int) string {
	var kept []string
	for _, s := range splitSentences(strings.TrimSpace(text)) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) > minFragmentLength {
			kept = append(kept, s)
		}
	}

	if n < 0 {
		n = 0
	}
	if len(kept) > n {
		kept = kept[:n]
	}

	out := strings.Join(kept, " ")
	if out == "" {
		return out
	}
	if last, _ := utf8.DecodeLastRuneInString(out); !isTerminal(last) {
		out += "."
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
