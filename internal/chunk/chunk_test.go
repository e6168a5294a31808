package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextIsSingleChunk(t *testing.T) {
	chunks := Split("A short article body.", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short article body.", chunks[0])
}

func TestSplit_EmptyText(t *testing.T) {
	assert.Empty(t, Split("", 1000, 200))
	assert.Empty(t, Split("   \n\n  ", 1000, 200))
}

func TestSplit_RespectsSizeLimit(t *testing.T) {
	text := strings.Repeat("sentence one. sentence two. ", 200)
	chunks := Split(text, 100, 20)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 100, "chunk %d exceeds size", i)
	}
}

func TestSplit_CarriedOverlapNeverBreachesSize(t *testing.T) {
	// A run of short words followed by one unbreakable piece that nearly
	// fills a chunk on its own: the overlap carried from the first chunk
	// must be shed rather than stretch the second chunk past the limit.
	text := strings.Repeat("aaaa ", 20) + strings.Repeat("b", 90)
	chunks := Split(text, 100, 30)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 100, "chunk %d exceeds size", i)
	}
	assert.Contains(t, chunks[len(chunks)-1], strings.Repeat("b", 90))
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	text := para1 + "\n\n" + para2

	chunks := Split(text, 100, 10)
	require.Len(t, chunks, 2)
	assert.Equal(t, para1, chunks[0])
	assert.Equal(t, para2, chunks[1])
}

func TestSplit_OverlapCarriesContext(t *testing.T) {
	// Words are the only separators here, so consecutive chunks must share
	// trailing words with their predecessor.
	words := make([]string, 120)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	text := strings.Join(words, " ")

	chunks := Split(text, 100, 30)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		first := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], first, "chunk %d does not overlap its predecessor", i)
	}
}

func TestSplit_HardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := Split(text, 100, 0)

	require.Len(t, chunks, 3)
	assert.Equal(t, 100, len(chunks[0]))
	assert.Equal(t, 100, len(chunks[1]))
	assert.Equal(t, 50, len(chunks[2]))
}

func TestSplit_DoesNotSplitRunes(t *testing.T) {
	// Multibyte Finnish characters must never be cut in half.
	text := strings.Repeat("ä", 150)
	chunks := Split(text, 100, 0)

	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c, "ä"))
		assert.Equal(t, 0, len(c)%2, "chunk ends mid-rune")
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("Paragraph text here.\n\nAnother paragraph follows. ", 30)
	first := Split(text, 1000, 200)
	second := Split(text, 1000, 200)
	assert.Equal(t, first, second)
}
