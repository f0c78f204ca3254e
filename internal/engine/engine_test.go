package engine

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/folium/internal/cache"
	"github.com/jackzampolin/folium/internal/document"
	"github.com/jackzampolin/folium/internal/measure"
	"github.com/jackzampolin/folium/internal/pagination"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() Config {
	return Config{
		Layout: pagination.Layout{MaxWidth: 200, MaxHeight: 300},
	}
}

func textBlocks(paragraphs ...string) []document.Block {
	blocks := make([]document.Block, len(paragraphs))
	for i, p := range paragraphs {
		blocks[i] = document.NewText(0, p, document.Style{FontSize: 16, LineHeight: 1.2}, document.AlignStart, 1.0, 12, 12)
	}
	return blocks
}

func TestOpen_NilBlocksRejected(t *testing.T) {
	_, err := Open("book", nil, testConfig(), measure.NewDefaultMeasurer(), nil, testLogger())
	if err != ErrNilBlocks {
		t.Fatalf("expected ErrNilBlocks, got %v", err)
	}
}

func TestOpen_DegenerateLayoutImmediatelyComplete(t *testing.T) {
	cfg := Config{Layout: pagination.Layout{MaxWidth: 0, MaxHeight: 300}}
	e, err := Open("book", textBlocks("hello"), cfg, measure.NewDefaultMeasurer(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !e.isComplete() {
		t.Fatal("expected degenerate layout to be immediately complete")
	}
	if e.EstimatedTotalPages() != 0 {
		t.Fatalf("expected 0 pages, got %d", e.EstimatedTotalPages())
	}
}

func TestEnsureWindow_ProducesRequestedPages(t *testing.T) {
	content := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 60)
	e, err := Open("book", textBlocks(content), testConfig(), measure.NewDefaultMeasurer(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	e.EnsureWindow(context.Background(), 0, 2)
	if e.pageCount() < 3 && !e.isComplete() {
		t.Fatalf("expected at least 3 pages or completion, got %d pages (complete=%v)", e.pageCount(), e.isComplete())
	}
}

func TestEnsureForCharacter_ReturnsContainingPage(t *testing.T) {
	content := strings.Repeat("pagination must reach the requested character. ", 60)
	e, err := Open("book", textBlocks(content), testConfig(), measure.NewDefaultMeasurer(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	idx, ok := e.EnsureForCharacter(context.Background(), 50)
	if !ok {
		t.Fatal("expected a page to be found")
	}
	p, ok := e.Page(idx)
	if !ok {
		t.Fatalf("expected page %d to exist", idx)
	}
	if p.StartChar > 50 || p.EndChar < 50 {
		t.Fatalf("page %d does not contain char 50: [%d,%d]", idx, p.StartChar, p.EndChar)
	}
}

func TestFindByChapter_PaginatesToCompletionIfNeeded(t *testing.T) {
	blocks := []document.Block{
		document.NewText(0, strings.Repeat("chapter zero. ", 30), document.Style{FontSize: 16, LineHeight: 1.2}, document.AlignStart, 1.0, 12, 12),
		document.NewText(1, strings.Repeat("chapter one. ", 30), document.Style{FontSize: 16, LineHeight: 1.2}, document.AlignStart, 1.0, 12, 12),
	}
	e, err := Open("book", blocks, testConfig(), measure.NewDefaultMeasurer(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	idx, ok := e.FindByChapter(context.Background(), 1)
	if !ok {
		t.Fatal("expected chapter 1 to be found")
	}
	p, _ := e.Page(idx)
	if p.ChapterIndex != 1 {
		t.Fatalf("expected first page of chapter 1, got chapter %d", p.ChapterIndex)
	}
}

func TestStartBackground_RunsToCompletion(t *testing.T) {
	content := strings.Repeat("background production should reach the end. ", 40)
	e, err := Open("book", textBlocks(content), testConfig(), measure.NewDefaultMeasurer(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.StartBackground(ctx)

	for i := 0; i < 10000 && !e.isComplete(); i++ {
		e.Page(0)
		time.Sleep(time.Millisecond)
	}
	if !e.isComplete() {
		t.Fatal("expected background production to complete")
	}
	e.Close()
}

func TestOpen_ResumesFromCache(t *testing.T) {
	content := strings.Repeat("resuming from a saved cache entry. ", 50)
	blocks := textBlocks(content)
	cfg := testConfig()
	m := measure.NewDefaultMeasurer()
	store := cache.NewStore(t.TempDir(), testLogger())

	first, err := Open("book", blocks, cfg, m, store, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	first.EnsureWindow(context.Background(), 0, 2)
	pagesBefore := first.pageCount()
	if pagesBefore == 0 {
		t.Fatal("expected at least one page before reopening")
	}

	second, err := Open("book", blocks, cfg, m, store, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if second.pageCount() != pagesBefore {
		t.Fatalf("expected resumed engine to have %d pages, got %d", pagesBefore, second.pageCount())
	}
}

func TestMatches(t *testing.T) {
	blocks := textBlocks("identical blocks")
	cfg := testConfig()
	m := measure.NewDefaultMeasurer()
	e, err := Open("book", blocks, cfg, m, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if !e.Matches(blocks, cfg, m) {
		t.Fatal("expected Matches to report true for identical blocks/cfg/measurer")
	}

	otherCfg := cfg
	otherCfg.MaxWidth = cfg.MaxWidth + 50
	if e.Matches(blocks, otherCfg, m) {
		t.Fatal("expected Matches to report false when max_width differs")
	}

	if e.Matches(textBlocks("identical blocks", "extra block"), cfg, m) {
		t.Fatal("expected Matches to report false when block count differs")
	}
}

func TestHasNextHasPrev(t *testing.T) {
	content := strings.Repeat("checking has_next and has_prev. ", 40)
	e, err := Open("book", textBlocks(content), testConfig(), measure.NewDefaultMeasurer(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if e.HasPrev(0) {
		t.Fatal("expected no prev page before page 0")
	}
	if !e.HasNext(0) {
		t.Fatal("expected a next page before any production has happened")
	}
}
