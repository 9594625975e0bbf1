package utils

import (
	"strings"
	"unicode"
)

// SplitText splits text into chunks of at most chunkSize runes, each
// overlapping the previous one by overlap runes. A chunk prefers to end on
// whitespace found in its last quarter so words are not cut.
func SplitText(text string, chunkSize int, overlap int) []string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen == 0 {
		return nil
	}
	if chunkSize <= 0 || totalLen <= chunkSize {
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < totalLen; {
		end := start + chunkSize
		if end >= totalLen {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		for i := end; i > end-chunkSize/4; i-- {
			if unicode.IsSpace(runes[i]) {
				end = i
				break
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(runes[start:end])))

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}
