// Package chunk splits article text into bounded, overlapping fragments for
// retrieval indexing.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// Default splitting parameters.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// separators lists break points in preference order: paragraph, line,
// sentence, word. Text with none of them inside a window is cut hard at
// the size limit.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into chunks of at most size bytes, sharing up to overlap
// bytes of trailing context between consecutive chunks. The text is first
// fragmented on the strongest separator that keeps every fragment within
// size, recursing to weaker separators for oversized fragments, then the
// fragments are merged back into chunks. Chunks are trimmed of surrounding
// whitespace; empty chunks are dropped.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}

	return merge(fragment(text, size, separators), size, overlap)
}

// fragment recursively splits text into pieces no longer than size.
// Separators stay attached to the piece they terminate.
func fragment(text string, size int, seps []string) []string {
	if len(text) <= size {
		if text == "" {
			return nil
		}
		return []string{text}
	}
	if len(seps) == 0 {
		return hardSplit(text, size)
	}

	var pieces []string
	for _, part := range strings.SplitAfter(text, seps[0]) {
		if part == "" {
			continue
		}
		if len(part) <= size {
			pieces = append(pieces, part)
			continue
		}
		pieces = append(pieces, fragment(part, size, seps[1:])...)
	}
	return pieces
}

// hardSplit cuts every size bytes, backing off to rune boundaries.
func hardSplit(text string, size int) []string {
	var pieces []string
	for len(text) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}
		pieces = append(pieces, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		pieces = append(pieces, text)
	}
	return pieces
}

// merge joins consecutive pieces into chunks up to size bytes. When a chunk
// closes, the trailing pieces totaling at most overlap bytes are carried
// into the next chunk. Carried pieces are dropped, oldest first, when they
// would push a chunk past size: the size bound wins over the overlap.
func merge(pieces []string, size, overlap int) []string {
	var chunks []string
	var buffer []string
	buffered := 0
	fresh := false // buffer holds something beyond carried overlap

	flush := func() {
		if !fresh {
			return
		}
		fresh = false
		if trimmed := strings.TrimSpace(strings.Join(buffer, "")); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		var carry []string
		carried := 0
		for i := len(buffer) - 1; i >= 0; i-- {
			if carried+len(buffer[i]) > overlap {
				break
			}
			carried += len(buffer[i])
			carry = append([]string{buffer[i]}, carry...)
		}
		buffer = carry
		buffered = carried
	}

	for _, piece := range pieces {
		if buffered > 0 && buffered+len(piece) > size {
			flush()
			for len(buffer) > 0 && buffered+len(piece) > size {
				buffered -= len(buffer[0])
				buffer = buffer[1:]
			}
		}
		buffer = append(buffer, piece)
		buffered += len(piece)
		fresh = true
	}
	flush()

	return chunks
}
