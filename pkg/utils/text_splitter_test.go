package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitText_Short(t *testing.T) {
	assert.Equal(t, []string{"hola"}, SplitText("  hola ", 100, 10))
	assert.Nil(t, SplitText("   ", 100, 10))
}

func TestSplitText_ChunksRespectSizeAndCoverText(t *testing.T) {
	text := strings.Repeat("saneamiento físico legal ", 200)

	chunks := SplitText(text, 150, 20)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 150)
		assert.NotEmpty(t, c)
	}
	assert.True(t, strings.HasPrefix(strings.TrimSpace(text), chunks[0]))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), chunks[len(chunks)-1]))
}

func TestSplitText_PrefersWhitespace(t *testing.T) {
	words := strings.Fields(strings.Repeat("alfa beta casa dato lote ", 20))
	text := strings.Join(words, " ")

	for _, c := range SplitText(text, 20, 0) {
		for _, w := range strings.Fields(c) {
			assert.Len(t, w, 4, "chunk %q cut a word", c)
		}
	}
}

func TestSplitText_OversizedOverlapIsIgnored(t *testing.T) {
	text := strings.Repeat("x", 1000)
	assert.Len(t, SplitText(text, 100, 150), 10)
}
