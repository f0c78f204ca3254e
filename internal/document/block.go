// Package document defines the input model the pagination engine consumes:
// an ordered list of immutable blocks produced by an external parser
// (EPUB/plain-text acquisition is out of scope for this repository).
package document

// Align is a paragraph's horizontal text alignment.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignJustify
)

// Weight is a canonical font weight, matching the 100-900 CSS scale.
type Weight int

const (
	WeightThin       Weight = 100
	WeightLight      Weight = 300
	WeightRegular    Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// Style carries the text-rendering attributes of a TextBlock. A style
// travels with its block through pagination unchanged; the engine never
// mutates it.
type Style struct {
	FontFamily string // empty means "use the layout's default family"
	FontSize   float64
	LineHeight float64 // multiplier applied to FontSize, e.g. 1.4
	Weight     Weight
	Italic     bool
	Color      uint32 // ARGB, 0 means "inherit"
}

// Kind discriminates the two Block variants.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

// Block is one document unit in reading order. Exactly one of Text or
// Image is populated, selected by Kind. Blocks are produced once by the
// caller and never mutated by the engine.
type Block struct {
	Kind         Kind
	ChapterIndex int
	SpacingBefore float64
	SpacingAfter  float64

	Text  *TextBlock
	Image *ImageBlock
}

// TextBlock is a single non-empty logical paragraph.
type TextBlock struct {
	Content   string
	Style     Style
	Align     Align
	FontScale float64 // multiplier on Style.FontSize, default 1.0
}

// ImageBlock is an atomic image; it is never split across pages.
type ImageBlock struct {
	Bytes           []byte
	IntrinsicWidth  float64 // 0 means unknown
	IntrinsicHeight float64
}

// NewText builds a text block with FontScale defaulted to 1.0 when zero.
func NewText(chapterIndex int, content string, style Style, align Align, fontScale float64, spacingBefore, spacingAfter float64) Block {
	if fontScale == 0 {
		fontScale = 1.0
	}
	return Block{
		Kind:          KindText,
		ChapterIndex:  chapterIndex,
		SpacingBefore: spacingBefore,
		SpacingAfter:  spacingAfter,
		Text: &TextBlock{
			Content:   content,
			Style:     style,
			Align:     align,
			FontScale: fontScale,
		},
	}
}

// NewImage builds an image block.
func NewImage(chapterIndex int, bytes []byte, intrinsicWidth, intrinsicHeight float64, spacingBefore, spacingAfter float64) Block {
	return Block{
		Kind:          KindImage,
		ChapterIndex:  chapterIndex,
		SpacingBefore: spacingBefore,
		SpacingAfter:  spacingAfter,
		Image: &ImageBlock{
			Bytes:           bytes,
			IntrinsicWidth:  intrinsicWidth,
			IntrinsicHeight: intrinsicHeight,
		},
	}
}

// IsEmpty reports whether a text block carries no content. Empty text
// blocks are skipped by the page builder (§4.3 edge case).
func (b Block) IsEmpty() bool {
	return b.Kind == KindText && (b.Text == nil || len(b.Text.Content) == 0)
}

// Len returns the length, in bytes, of the block's text content, or 1 for
// an image block (images consume exactly one unit of the global character
// index, per convention — see SPEC_FULL.md §9).
func (b Block) Len() int {
	if b.Kind == KindImage {
		return 1
	}
	if b.Text == nil {
		return 0
	}
	return len(b.Text.Content)
}
