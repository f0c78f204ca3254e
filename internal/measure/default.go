package measure

import (
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// defaultFaceNominalSize is the point size basicfont.Face7x13's metrics are
// defined at; every style's FontSize is expressed as a scale factor against
// it. basicfont ships a single bitmap face with no external font file, so
// DefaultMeasurer has no font-loading dependency and stays deterministic
// across machines.
const defaultFaceNominalSize = 13.0

// defaultMeasurerVersion is bumped whenever DefaultMeasurer's output for a
// fixed input could change, so a stale layout key (and the pages cached
// under it) is never silently reused against a different measurer.
const defaultMeasurerVersion = "v1"

// DefaultMeasurer is a headless Measurer: it never touches the filesystem,
// never loads a system font, and produces identical output on every
// platform, trading real typographic fidelity for that determinism.
type DefaultMeasurer struct {
	face font.Face
}

// NewDefaultMeasurer constructs the default measurer.
func NewDefaultMeasurer() *DefaultMeasurer {
	return &DefaultMeasurer{face: basicfont.Face7x13}
}

// Fingerprint implements Measurer.
func (m *DefaultMeasurer) Fingerprint() string {
	return "default-" + defaultMeasurerVersion
}

// Measure implements Measurer by walking text rune-by-rune, accumulating
// glyph advances scaled to the style's font size, and wrapping to a new
// line whenever the next glyph would exceed maxWidth.
func (m *DefaultMeasurer) Measure(text string, style Style, maxWidth float64) LaidOutText {
	scale := style.FontSize / defaultFaceNominalSize
	if scale <= 0 {
		scale = 1.0
	}
	lineHeightMultiple := style.LineHeightMultiple
	if lineHeightMultiple <= 0 {
		lineHeightMultiple = 1.0
	}

	faceMetrics := m.face.Metrics()
	ascent := fixedToFloat(faceMetrics.Ascent) * scale
	descent := fixedToFloat(faceMetrics.Descent) * scale
	naturalHeight := fixedToFloat(faceMetrics.Height) * scale
	lineHeight := naturalHeight * lineHeightMultiple
	if lineHeight <= 0 {
		lineHeight = ascent + descent
	}

	type run struct {
		first, last int // byte offsets, [first, last)
	}
	var runs []run

	lineStart := 0
	x := 0.0
	pos := 0
	n := len(text)

	flush := func(end int) {
		if end <= lineStart {
			// Never end a line before it starts; empty text yields one
			// empty line.
			end = lineStart
		}
		runs = append(runs, run{first: lineStart, last: end})
	}

	for pos < n {
		r, size := utf8.DecodeRuneInString(text[pos:])
		advance := m.glyphAdvance(r) * scale

		if x > 0 && x+advance > maxWidth && lineStart < pos {
			flush(pos)
			lineStart = pos
			x = 0
		}

		x += advance
		pos += size
	}
	flush(n)
	if len(runs) == 0 {
		runs = append(runs, run{first: 0, last: n})
	}

	lines := make([]LineMetric, len(runs))
	for i, r := range runs {
		lines[i] = LineMetric{
			Left:      0,
			BaselineY: float64(i)*lineHeight + ascent,
			Ascent:    ascent,
			Descent:   descent,
			Height:    lineHeight,
			FirstChar: r.first,
			LastChar:  r.last,
		}
	}

	laidOut := LaidOutText{
		PreferredLineHeight: lineHeight,
		Lines:               lines,
	}
	laidOut.position = func(px, py float64) int {
		return m.positionAtOffset(text, lines, scale, lineHeight, px, py)
	}
	return laidOut
}

func (m *DefaultMeasurer) positionAtOffset(text string, lines []LineMetric, scale, lineHeight, px, py float64) int {
	if len(lines) == 0 {
		return 0
	}
	lineIdx := int(py / lineHeight)
	if lineIdx < 0 {
		lineIdx = 0
	}
	if lineIdx >= len(lines) {
		lineIdx = len(lines) - 1
	}
	line := lines[lineIdx]

	x := 0.0
	pos := line.FirstChar
	for pos < line.LastChar {
		r, size := utf8.DecodeRuneInString(text[pos:])
		advance := m.glyphAdvance(r) * scale
		if x+advance/2 > px {
			return pos
		}
		x += advance
		pos += size
	}
	return line.LastChar
}

func (m *DefaultMeasurer) glyphAdvance(r rune) float64 {
	adv, ok := m.face.GlyphAdvance(r)
	if !ok {
		adv, _ = m.face.GlyphAdvance(' ')
	}
	return fixedToFloat(adv)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

var _ Measurer = (*DefaultMeasurer)(nil)
