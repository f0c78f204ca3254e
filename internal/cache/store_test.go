package cache

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func sampleEntry() Entry {
	return Entry{
		IsComplete:      true,
		TotalCharacters: 42,
		Cursor: &Cursor{
			BlockIndex:      2,
			GlobalCharIndex: 42,
			GlobalWordIndex: 9,
		},
		Pages: []Page{
			{
				ChapterIndex:   0,
				StartWordIndex: 0,
				EndWordIndex:   3,
				StartCharIndex: 0,
				EndCharIndex:   20,
				Blocks: []Block{
					{
						Type:          "text",
						Text:          "hello cruel world",
						FontSize:      16,
						LineHeight:    1.2,
						FontStyle:     "normal",
						SpacingBefore: 0,
						SpacingAfter:  12,
					},
				},
			},
			{
				ChapterIndex:   0,
				StartWordIndex: 4,
				EndWordIndex:   4,
				StartCharIndex: 21,
				EndCharIndex:   21,
				Blocks: []Block{
					{
						Type:          "image",
						ImageHeight:   300,
						ImageBytes:    []byte{0xDE, 0xAD, 0xBE, 0xEF},
						SpacingBefore: 8,
						SpacingAfter:  8,
					},
				},
			},
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	entry := sampleEntry()

	s.Save("book-1", "layout-key-a", entry)

	loaded, ok := s.Load("book-1", "layout-key-a")
	if !ok {
		t.Fatal("expected a hit after save")
	}
	if loaded.TotalCharacters != entry.TotalCharacters {
		t.Errorf("total_characters mismatch: got %d want %d", loaded.TotalCharacters, entry.TotalCharacters)
	}
	if len(loaded.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(loaded.Pages))
	}
	if !bytes.Equal(loaded.Pages[1].Blocks[0].ImageBytes, entry.Pages[1].Blocks[0].ImageBytes) {
		t.Errorf("image bytes did not round-trip: got %x want %x", loaded.Pages[1].Blocks[0].ImageBytes, entry.Pages[1].Blocks[0].ImageBytes)
	}
	if loaded.Version != schemaVersion {
		t.Errorf("expected stamped version %q, got %q", schemaVersion, loaded.Version)
	}
}

func TestStore_LoadMissingIsMiss(t *testing.T) {
	s := newTestStore(t)
	_, ok := s.Load("nonexistent", "layout-key-a")
	if ok {
		t.Fatal("expected miss for nonexistent entry")
	}
}

func TestStore_LoadCorruptJSONIsMiss(t *testing.T) {
	s := newTestStore(t)
	dir := s.Root + "/book-2"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/layout-key-a.json", []byte("{not valid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok := s.Load("book-2", "layout-key-a")
	if ok {
		t.Fatal("expected corrupt json to be treated as a miss")
	}
}

func TestStore_LoadSchemaMismatchIsMiss(t *testing.T) {
	s := newTestStore(t)
	dir := s.Root + "/book-3"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// valid JSON, but missing every required field
	if err := os.WriteFile(dir+"/layout-key-a.json", []byte(`{"foo": "bar"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok := s.Load("book-3", "layout-key-a")
	if ok {
		t.Fatal("expected schema-mismatched entry to be treated as a miss")
	}
}

func TestStore_SeparateKeysDoNotCollide(t *testing.T) {
	s := newTestStore(t)
	a := sampleEntry()
	a.TotalCharacters = 1
	b := sampleEntry()
	b.TotalCharacters = 2

	s.Save("book-1", "layout-a", a)
	s.Save("book-1", "layout-b", b)

	loadedA, ok := s.Load("book-1", "layout-a")
	if !ok || loadedA.TotalCharacters != 1 {
		t.Fatalf("expected layout-a entry, got %+v ok=%v", loadedA, ok)
	}
	loadedB, ok := s.Load("book-1", "layout-b")
	if !ok || loadedB.TotalCharacters != 2 {
		t.Fatalf("expected layout-b entry, got %+v ok=%v", loadedB, ok)
	}
}
