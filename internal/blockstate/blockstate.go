// Package blockstate holds the derived, mutable per-block state the page
// builder consumes: cached measurer output, token spans, and a cursor
// tracking how far the block has been paginated. States are built lazily,
// on first visit to their block, and mutated only by the engine's serial
// queue (SPEC_FULL.md §3, §5).
package blockstate

import (
	"sort"

	"github.com/jackzampolin/folium/internal/measure"
	"github.com/jackzampolin/folium/internal/token"
)

// Cursor is a block-local text position: which line, which byte offset
// (always 0 or the End of some token span — never mid-token), and which
// token the next unconsumed token span is.
type Cursor struct {
	LineIndex    int
	CharOffset   int
	TokenPointer int
}

// State is the lazily-built derived state for one text block.
type State struct {
	Laid      measure.LaidOutText
	Tokens    []token.Span
	Cursor    Cursor
	Completed bool
}

// Build measures text at maxWidth and tokenizes it, producing a fresh State
// positioned at the start of the block.
func Build(text string, style measure.Style, maxWidth float64, m measure.Measurer) *State {
	return &State{
		Laid:   m.Measure(text, style, maxWidth),
		Tokens: token.Build(text),
	}
}

// Lines returns the block's measured lines.
func (s *State) Lines() []measure.LineMetric {
	return s.Laid.Lines
}

// LineStartChar returns the byte offset the given line begins at.
func (s *State) LineStartChar(lineIndex int) int {
	lines := s.Laid.Lines
	if lineIndex < 0 || lineIndex >= len(lines) {
		return 0
	}
	return lines[lineIndex].FirstChar
}

// LineIndexForOffset returns the index of the line containing offset: the
// last line whose FirstChar is <= offset (SPEC_FULL.md §4.3 step 7's
// "first line with line_start_char > safe_break, minus 1").
func (s *State) LineIndexForOffset(offset int) int {
	lines := s.Laid.Lines
	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i].FirstChar > offset
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// AtEnd reports whether the cursor has consumed the entire block.
func (s *State) AtEnd(textLen int) bool {
	return s.Cursor.CharOffset >= textLen
}
