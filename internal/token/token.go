// Package token splits text block content into token spans: contiguous
// character ranges that must never be broken across a page boundary. A
// legal break exists only at a span's end offset.
package token

import (
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Span is a half-open byte range [Start, End) into the owning block's text.
// Spans are non-overlapping, ordered by Start, and together cover every
// non-whitespace run in the text.
type Span struct {
	Start int
	End   int
}

// Build returns the ordered token spans for text, using the default,
// language-agnostic tokenizer: UAX #29 word boundaries, with whitespace-only
// segments dropped and adjacent non-whitespace segments (UAX #29 sometimes
// splits a word from trailing punctuation with no intervening whitespace)
// merged back into one span, and ideographic runs re-split per rune so a
// break is legal between any two ideographs.
//
// Build is a pure function of text: same input, same spans, every time.
func Build(text string) []Span {
	if text == "" {
		return nil
	}

	var spans []Span
	offset := 0

	seg := words.FromBytes([]byte(text))
	for seg.Next() {
		raw := seg.Value()
		start := offset
		end := offset + len(raw)
		offset = end

		if isWhitespaceSegment(raw) {
			continue
		}

		if len(spans) > 0 && spans[len(spans)-1].End == start {
			// No whitespace between this segment and the previous one:
			// merge so a break is never offered inside "word," or similar.
			spans[len(spans)-1].End = end
			continue
		}

		spans = append(spans, Span{Start: start, End: end})
	}

	return splitIdeographs(text, spans)
}

func isWhitespaceSegment(raw []byte) bool {
	for _, r := range string(raw) {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// splitIdeographs re-splits any span consisting solely of ideographic runes
// into one span per rune, since UAX #29 treats runs of CJK ideographs as a
// single word but §4.2 requires per-character break legality there.
func splitIdeographs(text string, spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		if !isAllIdeographic(text[sp.Start:sp.End]) {
			out = append(out, sp)
			continue
		}
		pos := sp.Start
		for _, r := range text[sp.Start:sp.End] {
			n := len(string(r))
			out = append(out, Span{Start: pos, End: pos + n})
			pos += n
		}
	}
	return out
}

func isAllIdeographic(s string) bool {
	found := false
	for _, r := range s {
		if !unicode.Is(unicode.Han, r) && !unicode.Is(unicode.Hiragana, r) && !unicode.Is(unicode.Katakana, r) {
			return false
		}
		found = true
	}
	return found
}
