package measure

import "testing"

func TestDefaultMeasurer_CoversEntireText(t *testing.T) {
	m := NewDefaultMeasurer()
	text := "the quick brown fox jumps over the lazy dog, again and again"
	out := m.Measure(text, Style{FontSize: 16, LineHeightMultiple: 1.2}, 120)

	if len(out.Lines) == 0 {
		t.Fatal("expected at least one line")
	}
	if out.Lines[0].FirstChar != 0 {
		t.Errorf("expected first line to start at 0, got %d", out.Lines[0].FirstChar)
	}
	if last := out.Lines[len(out.Lines)-1].LastChar; last != len(text) {
		t.Errorf("expected last line to end at %d, got %d", len(text), last)
	}
	for i := 1; i < len(out.Lines); i++ {
		if out.Lines[i].FirstChar != out.Lines[i-1].LastChar {
			t.Errorf("line %d does not start where line %d ended: %+v / %+v", i, i-1, out.Lines[i-1], out.Lines[i])
		}
	}
}

func TestDefaultMeasurer_MonotonicFirstChar(t *testing.T) {
	m := NewDefaultMeasurer()
	out := m.Measure("one two three four five six seven eight nine ten", Style{FontSize: 14, LineHeightMultiple: 1.0}, 60)
	for i := 1; i < len(out.Lines); i++ {
		if out.Lines[i].FirstChar <= out.Lines[i-1].FirstChar {
			t.Fatalf("FirstChar not monotonic across lines: %+v", out.Lines)
		}
	}
}

func TestDefaultMeasurer_Deterministic(t *testing.T) {
	m := NewDefaultMeasurer()
	style := Style{FontSize: 18, LineHeightMultiple: 1.3}
	a := m.Measure("Determinism across calls matters for cache reuse.", style, 100)
	b := m.Measure("Determinism across calls matters for cache reuse.", style, 100)
	if len(a.Lines) != len(b.Lines) {
		t.Fatalf("non-deterministic line count: %d vs %d", len(a.Lines), len(b.Lines))
	}
	for i := range a.Lines {
		if a.Lines[i] != b.Lines[i] {
			t.Fatalf("non-deterministic line %d: %+v vs %+v", i, a.Lines[i], b.Lines[i])
		}
	}
}

func TestDefaultMeasurer_PositionAtOffsetWithinBounds(t *testing.T) {
	m := NewDefaultMeasurer()
	text := "a short paragraph used to test break offsets"
	out := m.Measure(text, Style{FontSize: 16, LineHeightMultiple: 1.2}, 80)

	idx := out.PositionAtOffset(0, 0)
	if idx < 0 || idx > len(text) {
		t.Fatalf("PositionAtOffset returned out-of-range index %d", idx)
	}
}

func TestDefaultMeasurer_EmptyText(t *testing.T) {
	m := NewDefaultMeasurer()
	out := m.Measure("", Style{FontSize: 16, LineHeightMultiple: 1.2}, 100)
	if len(out.Lines) != 1 {
		t.Fatalf("expected one (empty) line for empty text, got %d", len(out.Lines))
	}
	if out.Lines[0].FirstChar != 0 || out.Lines[0].LastChar != 0 {
		t.Errorf("expected empty line range, got %+v", out.Lines[0])
	}
}

func TestDefaultMeasurer_FingerprintStable(t *testing.T) {
	a := NewDefaultMeasurer()
	b := NewDefaultMeasurer()
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("expected stable fingerprint across instances, got %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}
