package page

import (
	"testing"

	"github.com/jackzampolin/folium/internal/document"
)

func TestNewText(t *testing.T) {
	style := document.Style{FontSize: 16, LineHeight: 1.2}
	c := NewText(2, 10, 30, 3, 8, "hello world", style, document.AlignCenter, 4, 12)

	if c.ChapterIndex != 2 || c.StartChar != 10 || c.EndChar != 30 || c.StartWord != 3 || c.EndWord != 8 {
		t.Fatalf("unexpected content fields: %+v", c)
	}
	if len(c.Blocks) != 1 {
		t.Fatalf("expected exactly one block, got %d", len(c.Blocks))
	}
	b := c.Blocks[0]
	if b.Kind != KindText {
		t.Errorf("expected KindText, got %v", b.Kind)
	}
	if b.Text == nil || b.Text.Text != "hello world" || b.Text.Align != document.AlignCenter {
		t.Errorf("unexpected text block: %+v", b.Text)
	}
	if b.SpacingBefore != 4 || b.SpacingAfter != 12 {
		t.Errorf("unexpected spacing: before=%v after=%v", b.SpacingBefore, b.SpacingAfter)
	}
}

func TestNewImage_StartCharEqualsEndChar(t *testing.T) {
	c := NewImage(0, 42, 7, []byte{1, 2, 3}, 500, 8, 8)

	if c.StartChar != c.EndChar {
		t.Fatalf("expected image page start_char == end_char, got %d/%d", c.StartChar, c.EndChar)
	}
	if len(c.Blocks) != 1 || c.Blocks[0].Kind != KindImage {
		t.Fatalf("expected single image block, got %+v", c.Blocks)
	}
	if c.Blocks[0].Image.RenderedHeight != 500 {
		t.Errorf("expected rendered height 500, got %v", c.Blocks[0].Image.RenderedHeight)
	}
}
