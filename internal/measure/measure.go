// Package measure defines the Text Measurer contract (SPEC_FULL.md §4.1):
// a pure, total function from (text, style, max width) to per-line
// metrics, plus an inverse pixel-offset-to-character lookup the page
// builder uses to find safe break points.
//
// The engine depends only on the Measurer interface. A platform embedding
// this engine is expected to supply its own implementation (a native text
// shaper, HarfBuzz+ICU, …); DefaultMeasurer is the headless implementation
// this repository ships so the engine is usable without one.
package measure

// Style is the subset of paragraph styling that affects line breaking and
// line metrics. It is deliberately smaller than document.Style — the
// measurer doesn't care about color, alignment, or italics, only about
// what changes glyph advances and line height.
type Style struct {
	FontFamily         string
	FontSize           float64
	LineHeightMultiple float64 // multiplier on the face's natural line height; 0 means 1.0
	Bold               bool
}

// LineMetric describes one laid-out line of text.
type LineMetric struct {
	Left      float64
	BaselineY float64
	Ascent    float64
	Descent   float64
	Height    float64
	FirstChar int // byte offset into the measured text, inclusive
	LastChar  int // byte offset into the measured text, exclusive
}

// LaidOutText is the result of measuring a string at a fixed width.
// Implementations are expected to be deterministic: the same (text, style,
// maxWidth) must always produce byte-identical Lines.
type LaidOutText struct {
	PreferredLineHeight float64
	Lines               []LineMetric

	// position is the measurer-specific inverse lookup used to implement
	// PositionAtOffset without re-deriving it from scratch on every call.
	position func(x, y float64) int
}

// TotalHeight returns the sum of every line's Height.
func (l LaidOutText) TotalHeight() float64 {
	var h float64
	for _, ln := range l.Lines {
		h += ln.Height
	}
	return h
}

// PositionAtOffset maps a local pixel offset to a byte offset into the
// measured text. x and y are relative to the text box's top-left corner.
func (l LaidOutText) PositionAtOffset(x, y float64) int {
	if l.position == nil {
		return 0
	}
	return l.position(x, y)
}

// Measurer is the contract the pagination engine depends on. It must be
// pure and total: no error return, no observable failure mode.
type Measurer interface {
	Measure(text string, style Style, maxWidth float64) LaidOutText

	// Fingerprint identifies this measurer implementation (and any
	// configuration that affects its output) for SPEC_FULL.md §4.5's
	// layout key. Two measurers that produce identical measurements for
	// every input must return the same fingerprint.
	Fingerprint() string
}
