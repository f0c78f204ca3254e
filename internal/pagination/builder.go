// Package pagination implements the fit/shrink page builder (SPEC_FULL.md
// §4.3): the algorithm that turns a cursor position plus a document's
// blocks into one PageContent at a time. It is the only package that knows
// how a line's measured height, a token boundary, and a layout's
// max_width/max_height combine into a page break.
package pagination

import (
	"math"

	"github.com/jackzampolin/folium/internal/blockstate"
	"github.com/jackzampolin/folium/internal/document"
	"github.com/jackzampolin/folium/internal/measure"
	"github.com/jackzampolin/folium/internal/page"
	"github.com/jackzampolin/folium/internal/token"
)

// Layout carries the subset of a layout configuration the builder needs to
// fit lines into a page. It is distinct from layoutkey.Key: Key folds these
// dimensions together with the font settings and a measurer fingerprint
// into a cache-stable string.
type Layout struct {
	MaxWidth  float64
	MaxHeight float64
}

// Cursor is the serializable global position SPEC_FULL.md §3 describes: a
// block index, the running character and word counts of every block before
// it, and — when mid-block — the inner BlockState cursor to resume from.
type Cursor struct {
	BlockIndex int
	GlobalChar int
	GlobalWord int
	TextState  *blockstate.Cursor
}

// Builder runs the fit/shrink algorithm against a fixed measurer. It is
// stateless: all mutable pagination state lives in the BlockState slice and
// the Cursor passed to Next.
type Builder struct {
	Measurer measure.Measurer
}

// NewBuilder constructs a Builder bound to m.
func NewBuilder(m measure.Measurer) *Builder {
	return &Builder{Measurer: m}
}

// Next produces the page starting at cursor, or reports ok=false if blocks
// has been fully consumed. states must be the same length as blocks; slots
// are built lazily, on first visit, and mutated in place.
func (b *Builder) Next(blocks []document.Block, states []*blockstate.State, cursor Cursor, layout Layout) (page.Content, Cursor, bool) {
	for cursor.BlockIndex < len(blocks) {
		blk := blocks[cursor.BlockIndex]
		isFirstBlock := cursor.BlockIndex == 0

		if blk.Kind == document.KindImage {
			content, next := b.emitImage(blk, cursor, layout, isFirstBlock)
			return content, next, true
		}

		if blk.IsEmpty() {
			cursor = advancePastBlock(cursor)
			continue
		}

		state := b.ensureState(states, cursor.BlockIndex, blk, layout)
		if cursor.TextState != nil {
			state.Cursor = *cursor.TextState
		}

		text := blk.Text.Content
		if state.AtEnd(len(text)) {
			cursor = advancePastBlock(cursor)
			continue
		}

		content, next, emitted := b.emitText(blk, state, cursor, layout, isFirstBlock)
		if !emitted {
			// No token remains after the cursor: nothing more can be
			// produced from this block. Treat it as exhausted.
			state.Completed = true
			cursor = advancePastBlock(cursor)
			continue
		}
		return content, next, true
	}
	return page.Content{}, cursor, false
}

func advancePastBlock(cursor Cursor) Cursor {
	return Cursor{
		BlockIndex: cursor.BlockIndex + 1,
		GlobalChar: cursor.GlobalChar,
		GlobalWord: cursor.GlobalWord,
	}
}

func (b *Builder) ensureState(states []*blockstate.State, idx int, blk document.Block, layout Layout) *blockstate.State {
	if states[idx] != nil {
		return states[idx]
	}
	style := toMeasureStyle(blk.Text.Style, blk.Text.FontScale)
	states[idx] = blockstate.Build(blk.Text.Content, style, layout.MaxWidth, b.Measurer)
	return states[idx]
}

func toMeasureStyle(s document.Style, fontScale float64) measure.Style {
	if fontScale == 0 {
		fontScale = 1.0
	}
	return measure.Style{
		FontFamily:         s.FontFamily,
		FontSize:           s.FontSize * fontScale,
		LineHeightMultiple: s.LineHeight,
		Bold:               s.Weight >= document.WeightSemiBold,
	}
}

// emitImage implements SPEC_FULL.md §4.3 step 1.
func (b *Builder) emitImage(blk document.Block, cursor Cursor, layout Layout, isFirstBlock bool) (page.Content, Cursor) {
	img := blk.Image
	spacingBefore := blk.SpacingBefore
	if isFirstBlock {
		spacingBefore = 0
	}
	spacingAfter := blk.SpacingAfter

	fittedHeight := img.IntrinsicHeight
	if img.IntrinsicWidth > 0 && img.IntrinsicHeight > 0 {
		fittedHeight = img.IntrinsicHeight * (layout.MaxWidth / img.IntrinsicWidth)
	}

	available := layout.MaxHeight - spacingBefore - spacingAfter
	if available < 0 {
		available = 0
	}
	if fittedHeight > available {
		fittedHeight = available
	}
	if fittedHeight < 0 {
		fittedHeight = 0
	}

	content := page.NewImage(blk.ChapterIndex, cursor.GlobalChar, cursor.GlobalWord, img.Bytes, fittedHeight, spacingBefore, spacingAfter)
	next := Cursor{
		BlockIndex: cursor.BlockIndex + 1,
		GlobalChar: cursor.GlobalChar + 1,
		GlobalWord: cursor.GlobalWord,
	}
	return content, next
}

// emitText implements SPEC_FULL.md §4.3 steps 2-8 for a single text block
// that has not yet reached end-of-block. It returns emitted=false only when
// no token remains at or after the block cursor (shrinkToFit then has
// nothing to accept); a single remaining token is always emitted.
func (b *Builder) emitText(blk document.Block, state *blockstate.State, cursor Cursor, layout Layout, isFirstBlock bool) (page.Content, Cursor, bool) {
	text := blk.Text.Content
	mstyle := toMeasureStyle(blk.Text.Style, blk.Text.FontScale)
	lines := state.Lines()

	nominalLineHeight := 0.0
	if len(lines) > 0 {
		nominalLineHeight = lines[0].Height
	}
	effMaxHeight := layout.MaxHeight - pageBottomMargin(nominalLineHeight, blk.SpacingAfter, layout.MaxHeight)

	startOffset := state.Cursor.CharOffset
	startLineIdx := state.Cursor.LineIndex
	tokenPointer := state.Cursor.TokenPointer

	spacingBefore := 0.0
	if startOffset == 0 && !isFirstBlock {
		spacingBefore = blk.SpacingBefore
	}

	currentHeight := spacingBefore
	lineIdx := startLineIdx
	overflowed := false
	breakLineIdx := -1

	for lineIdx < len(lines) {
		line := lines[lineIdx]
		isLastLine := lineIdx == len(lines)-1
		extra := 0.0
		if isLastLine {
			extra = blk.SpacingAfter
		}
		candidate := currentHeight + line.Height + extra
		hasPageContent := lineIdx > startLineIdx

		if candidate > effMaxHeight && hasPageContent {
			overflowed = true
			breakLineIdx = lineIdx
			break
		}

		currentHeight = candidate
		lineIdx++
	}

	var tokenPtrExcl int
	var spacingAfterIfLast float64

	if overflowed {
		line := lines[breakLineIdx]
		breakY := (line.BaselineY - line.Ascent) - breakPointMargin(nominalLineHeight)
		if breakY < 0 {
			breakY = 0
		}
		breakOffset := state.Laid.PositionAtOffset(line.Left, breakY)

		target := breakOffset
		if lineStart := state.LineStartChar(breakLineIdx); target < lineStart {
			target = lineStart
		}

		tokenPtrExcl = tokenPointerFor(state.Tokens, tokenPointer, target)
		if tokenPtrExcl > len(state.Tokens) {
			tokenPtrExcl = len(state.Tokens)
		}
		safeBreak := state.LineStartChar(breakLineIdx)
		if tokenPtrExcl > tokenPointer {
			safeBreak = state.Tokens[tokenPtrExcl-1].End
		}

		if safeBreak <= startOffset {
			tokenPtrExcl = tokenPointer + 1
			if tokenPtrExcl-1 < len(state.Tokens) {
				safeBreak = state.Tokens[tokenPtrExcl-1].End
			} else {
				safeBreak = len(text)
			}
		}
		spacingAfterIfLast = 0
	} else {
		// Reached end of block without overflowing: step 8 flush.
		tokenPtrExcl = len(state.Tokens)
		spacingAfterIfLast = blk.SpacingAfter
	}

	acceptedEnd, acceptedTokenPtrExcl, ok := b.shrinkToFit(text, mstyle, layout, startOffset, state.Tokens, tokenPointer, tokenPtrExcl, spacingBefore, spacingAfterIfLast, effMaxHeight)
	if !ok {
		return page.Content{}, cursor, false
	}

	isBlockEnd := acceptedEnd >= len(text)
	appliedSpacingAfter := 0.0
	if isBlockEnd {
		appliedSpacingAfter = blk.SpacingAfter
	}

	accepted := text[startOffset:acceptedEnd]
	tokensInPage := acceptedTokenPtrExcl - tokenPointer
	endWord := cursor.GlobalWord - 1
	if tokensInPage > 0 {
		endWord = cursor.GlobalWord + tokensInPage - 1
	}

	content := page.NewText(
		blk.ChapterIndex,
		cursor.GlobalChar,
		cursor.GlobalChar+len(accepted)-1,
		cursor.GlobalWord,
		endWord,
		accepted,
		blk.Text.Style,
		blk.Text.Align,
		spacingBefore,
		appliedSpacingAfter,
	)

	state.Cursor.CharOffset = acceptedEnd
	state.Cursor.LineIndex = state.LineIndexForOffset(acceptedEnd)
	state.Cursor.TokenPointer = acceptedTokenPtrExcl

	next := Cursor{
		BlockIndex: cursor.BlockIndex,
		GlobalChar: cursor.GlobalChar + len(accepted),
		GlobalWord: cursor.GlobalWord + tokensInPage,
	}
	if isBlockEnd {
		state.Completed = true
		next.BlockIndex = cursor.BlockIndex + 1
		next.TextState = nil
	} else {
		cur := state.Cursor
		next.TextState = &cur
	}

	return content, next, true
}

// tokenPointerFor finds the smallest k >= tokenPointer such that
// tokens[k-1].End >= target (SPEC_FULL.md §4.3 step 4d).
func tokenPointerFor(tokens []token.Span, tokenPointer, target int) int {
	k := tokenPointer
	for k < len(tokens) && tokens[k].End < target {
		k++
	}
	return k + 1
}

// shrinkToFit implements SPEC_FULL.md §4.3 step 5: walk tokenPtrExcl
// backwards from its initial guess until the candidate slice, re-measured
// at max_width, fits within effMaxHeight.
func (b *Builder) shrinkToFit(text string, mstyle measure.Style, layout Layout, startOffset int, tokens []token.Span, tokenPointer, tokenPtrExcl int, spacingBefore, spacingAfterIfLast, effMaxHeight float64) (acceptedEnd, acceptedTokenPtrExcl int, ok bool) {
	// A single remaining token is the forced-progress floor: per
	// SPEC_FULL.md §4.3's "single token longer than the page" policy, it
	// is always emitted, clipped, even if it alone overflows.
	floor := tokenPointer + 1
	if floor > tokenPtrExcl {
		floor = tokenPtrExcl
	}

	for tokenPtrExcl >= floor && tokenPtrExcl > tokenPointer {
		end := tokenEnd(tokens, tokenPtrExcl, len(text))
		if end <= startOffset {
			if tokenPtrExcl == floor {
				break
			}
			tokenPtrExcl--
			continue
		}
		candidate := text[startOffset:end]
		laid := b.Measurer.Measure(candidate, mstyle, layout.MaxWidth)

		total := spacingBefore + laid.TotalHeight()
		if end >= len(text) {
			total += spacingAfterIfLast
		}
		if math.Ceil(total) <= effMaxHeight || tokenPtrExcl == floor {
			return end, tokenPtrExcl, true
		}
		tokenPtrExcl--
	}
	return startOffset, tokenPointer, false
}

func tokenEnd(tokens []token.Span, tokenPtrExcl, textLen int) int {
	if tokenPtrExcl <= 0 {
		return 0
	}
	if tokenPtrExcl >= len(tokens) {
		// Whitespace after the last token belongs to it, so the block's
		// final page runs to the end of the text.
		return textLen
	}
	return tokens[tokenPtrExcl-1].End
}

func pageBottomMargin(lineHeight, spacingAfter, maxHeight float64) float64 {
	upper := math.Max(48, maxHeight*0.18)
	return clamp(lineHeight+spacingAfter, 48, upper)
}

func breakPointMargin(lineHeight float64) float64 {
	return clamp(lineHeight*0.75, 24, 80)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
