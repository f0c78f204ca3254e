// Package page defines PageContent, the read-only output of pagination
// (SPEC_FULL.md §3). Pages are created once, appended to the engine's page
// vector in increasing order, and never modified afterward.
package page

import (
	"github.com/jackzampolin/folium/internal/document"
)

// Content is one fixed-size page of a paginated document.
type Content struct {
	Blocks       []Block
	ChapterIndex int

	StartChar int
	EndChar   int // inclusive
	StartWord int
	EndWord   int // inclusive
}

// Kind discriminates the two Block variants, mirroring document.Kind.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

// Block is one rendered unit on a page. Exactly one of Text or Image is
// populated, selected by Kind.
type Block struct {
	Kind          Kind
	SpacingBefore float64
	SpacingAfter  float64

	Text  *TextBlock
	Image *ImageBlock
}

// TextBlock is the accepted text slice for a page, along with the style it
// must be rendered with.
type TextBlock struct {
	Text  string
	Style document.Style
	Align document.Align
}

// ImageBlock is an image page: the image is reproduced at its fitted
// height (clamped to the page's available room).
type ImageBlock struct {
	Bytes         []byte
	RenderedHeight float64
}

// NewText builds a single-block text page.
func NewText(chapterIndex, startChar, endChar, startWord, endWord int, text string, style document.Style, align document.Align, spacingBefore, spacingAfter float64) Content {
	return Content{
		ChapterIndex: chapterIndex,
		StartChar:    startChar,
		EndChar:      endChar,
		StartWord:    startWord,
		EndWord:      endWord,
		Blocks: []Block{{
			Kind:          KindText,
			SpacingBefore: spacingBefore,
			SpacingAfter:  spacingAfter,
			Text: &TextBlock{
				Text:  text,
				Style: style,
				Align: align,
			},
		}},
	}
}

// NewImage builds a single-block image page. Per SPEC_FULL.md §9, an image
// page's StartChar equals its EndChar: images consume exactly one unit of
// the global character index.
func NewImage(chapterIndex, charIndex, wordIndex int, bytes []byte, renderedHeight, spacingBefore, spacingAfter float64) Content {
	return Content{
		ChapterIndex: chapterIndex,
		StartChar:    charIndex,
		EndChar:      charIndex,
		StartWord:    wordIndex,
		EndWord:      wordIndex,
		Blocks: []Block{{
			Kind:          KindImage,
			SpacingBefore: spacingBefore,
			SpacingAfter:  spacingAfter,
			Image: &ImageBlock{
				Bytes:          bytes,
				RenderedHeight: renderedHeight,
			},
		}},
	}
}
