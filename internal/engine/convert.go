package engine

import (
	"github.com/jackzampolin/folium/internal/blockstate"
	"github.com/jackzampolin/folium/internal/cache"
	"github.com/jackzampolin/folium/internal/document"
	"github.com/jackzampolin/folium/internal/page"
	"github.com/jackzampolin/folium/internal/pagination"
)

// weightSequence is the sequence SPEC_FULL.md §6's on-disk font_weight
// indexes into: the eight weights document defines, in order. It has no 200
// entry, so weights from 300 up sit one index lower than on the full
// 100-900 scale.
var weightSequence = []document.Weight{
	document.WeightThin, document.WeightLight, document.WeightRegular,
	document.WeightMedium, document.WeightSemiBold, document.WeightBold,
	document.WeightExtraBold, document.WeightBlack,
}

func weightIndex(w document.Weight) uint16 {
	for i, candidate := range weightSequence {
		if candidate == w {
			return uint16(i)
		}
	}
	return uint16(2) // WeightRegular
}

func weightFromIndex(i uint16) document.Weight {
	if int(i) >= len(weightSequence) {
		return document.WeightRegular
	}
	return weightSequence[i]
}

func toCachePage(p page.Content) cache.Page {
	blocks := make([]cache.Block, len(p.Blocks))
	for i, b := range p.Blocks {
		blocks[i] = toCacheBlock(b)
	}
	return cache.Page{
		ChapterIndex:   uint32(p.ChapterIndex),
		StartWordIndex: uint64(p.StartWord),
		EndWordIndex:   uint64(p.EndWord),
		StartCharIndex: uint64(p.StartChar),
		EndCharIndex:   uint64(p.EndChar),
		Blocks:         blocks,
	}
}

func toCacheBlock(b page.Block) cache.Block {
	cb := cache.Block{
		SpacingBefore: float32(b.SpacingBefore),
		SpacingAfter:  float32(b.SpacingAfter),
	}
	switch b.Kind {
	case page.KindText:
		cb.Type = "text"
		cb.Text = b.Text.Text
		cb.TextAlign = int(b.Text.Align)
		cb.FontSize = float32(b.Text.Style.FontSize)
		cb.LineHeight = float32(b.Text.Style.LineHeight)
		cb.FontStyle = "normal"
		if b.Text.Style.Italic {
			cb.FontStyle = "italic"
		}
		cb.FontFamily = b.Text.Style.FontFamily
		if b.Text.Style.Color != 0 {
			c := b.Text.Style.Color
			cb.Color = &c
		}
		w := weightIndex(b.Text.Style.Weight)
		cb.FontWeight = &w
	case page.KindImage:
		cb.Type = "image"
		cb.ImageHeight = float32(b.Image.RenderedHeight)
		cb.ImageBytes = b.Image.Bytes
	}
	return cb
}

func fromCachePage(p cache.Page) page.Content {
	blocks := make([]page.Block, len(p.Blocks))
	for i, b := range p.Blocks {
		blocks[i] = fromCacheBlock(b)
	}
	return page.Content{
		Blocks:       blocks,
		ChapterIndex: int(p.ChapterIndex),
		StartChar:    int(p.StartCharIndex),
		EndChar:      int(p.EndCharIndex),
		StartWord:    int(p.StartWordIndex),
		EndWord:      int(p.EndWordIndex),
	}
}

func fromCacheBlock(b cache.Block) page.Block {
	pb := page.Block{
		SpacingBefore: float64(b.SpacingBefore),
		SpacingAfter:  float64(b.SpacingAfter),
	}
	switch b.Type {
	case "text":
		pb.Kind = page.KindText
		style := document.Style{
			FontSize:   float64(b.FontSize),
			LineHeight: float64(b.LineHeight),
			Italic:     b.FontStyle == "italic",
			FontFamily: b.FontFamily,
			Weight:     document.WeightRegular,
		}
		if b.FontWeight != nil {
			style.Weight = weightFromIndex(*b.FontWeight)
		}
		if b.Color != nil {
			style.Color = *b.Color
		}
		pb.Text = &page.TextBlock{
			Text:  b.Text,
			Style: style,
			Align: document.Align(b.TextAlign),
		}
	case "image":
		pb.Kind = page.KindImage
		pb.Image = &page.ImageBlock{
			Bytes:          b.ImageBytes,
			RenderedHeight: float64(b.ImageHeight),
		}
	}
	return pb
}

func toCacheCursor(c pagination.Cursor) *cache.Cursor {
	cc := &cache.Cursor{
		BlockIndex:      uint32(c.BlockIndex),
		GlobalCharIndex: uint64(c.GlobalChar),
		GlobalWordIndex: uint64(c.GlobalWord),
	}
	if c.TextState != nil {
		cc.TextState = &cache.TextState{
			LineIndex:    uint32(c.TextState.LineIndex),
			TextOffset:   uint32(c.TextState.CharOffset),
			TokenPointer: uint32(c.TextState.TokenPointer),
		}
	}
	return cc
}

func fromCacheCursor(c *cache.Cursor) pagination.Cursor {
	if c == nil {
		return pagination.Cursor{}
	}
	cursor := pagination.Cursor{
		BlockIndex: int(c.BlockIndex),
		GlobalChar: int(c.GlobalCharIndex),
		GlobalWord: int(c.GlobalWordIndex),
	}
	if c.TextState != nil {
		cursor.TextState = &blockstate.Cursor{
			LineIndex:    int(c.TextState.LineIndex),
			CharOffset:   int(c.TextState.TextOffset),
			TokenPointer: int(c.TextState.TokenPointer),
		}
	}
	return cursor
}
