package blockstate

import (
	"testing"

	"github.com/jackzampolin/folium/internal/measure"
)

func TestBuild_MeasuresAndTokenizes(t *testing.T) {
	s := Build("the quick brown fox", measure.Style{FontSize: 16, LineHeightMultiple: 1.2}, 200, measure.NewDefaultMeasurer())
	if len(s.Tokens) == 0 {
		t.Fatal("expected at least one token span")
	}
	if len(s.Lines()) == 0 {
		t.Fatal("expected at least one measured line")
	}
}

func TestLineStartChar_OutOfRangeReturnsZero(t *testing.T) {
	s := Build("short text", measure.Style{FontSize: 16, LineHeightMultiple: 1.2}, 200, measure.NewDefaultMeasurer())
	if got := s.LineStartChar(-1); got != 0 {
		t.Errorf("expected 0 for negative index, got %d", got)
	}
	if got := s.LineStartChar(len(s.Lines()) + 5); got != 0 {
		t.Errorf("expected 0 for out-of-range index, got %d", got)
	}
}

func TestLineIndexForOffset_Monotonic(t *testing.T) {
	s := Build("the quick brown fox jumps over the lazy dog repeatedly until it wraps multiple lines of text",
		measure.Style{FontSize: 16, LineHeightMultiple: 1.2}, 80, measure.NewDefaultMeasurer())
	if len(s.Lines()) < 2 {
		t.Skip("measurer did not wrap to multiple lines at this width")
	}

	last := -1
	for _, line := range s.Lines() {
		idx := s.LineIndexForOffset(line.FirstChar)
		if idx < last {
			t.Fatalf("line index went backwards: %d after %d", idx, last)
		}
		last = idx
	}
}

func TestAtEnd(t *testing.T) {
	s := Build("hi", measure.Style{FontSize: 16, LineHeightMultiple: 1.2}, 200, measure.NewDefaultMeasurer())
	if s.AtEnd(2) {
		t.Error("expected cursor at offset 0 to not be at end of a 2-byte text")
	}
	s.Cursor.CharOffset = 2
	if !s.AtEnd(2) {
		t.Error("expected cursor at offset 2 to be at end of a 2-byte text")
	}
}
