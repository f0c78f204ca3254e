// Package engine implements the Pagination Engine (SPEC_FULL.md §4.4): the
// stateful driver that holds a document's block list, its lazily-built
// BlockStates, the page vector produced so far, and the serial queue that
// every mutation of that state is funneled through (§5).
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/jackzampolin/folium/internal/blockstate"
	"github.com/jackzampolin/folium/internal/cache"
	"github.com/jackzampolin/folium/internal/document"
	"github.com/jackzampolin/folium/internal/measure"
	"github.com/jackzampolin/folium/internal/page"
	"github.com/jackzampolin/folium/internal/pagination"
)

// ErrNilBlocks is returned by Open when handed a nil block list; an empty,
// non-nil slice is a legitimate (trivially complete) document.
var ErrNilBlocks = errors.New("engine: blocks must not be nil")

// backgroundYield is the pause the background producer takes between pages
// so other queued work gets a chance to interleave (SPEC_FULL.md §5).
const backgroundYield = 8 * time.Millisecond

// Config is the layout a document is paginated against, plus the font and
// height-behavior settings folded into the layout key and compared by
// Matches. These font settings are not applied to blocks: each text block
// is measured with its own document.Style.
type Config struct {
	pagination.Layout

	FontFamily             string
	FontSize               float64
	LineHeight             float64
	ApplyHeightFirstAscent bool
	ApplyHeightLastDescent bool
}

// Engine is the stateful driver of one book's pagination at one layout.
// All mutation of pages/cursor/states happens on the serial queue; every
// other field is set once at Open and read-only afterward.
type Engine struct {
	bookID    string
	blocks    []document.Block
	cfg       Config
	measurer  measure.Measurer
	layoutKey string
	store     *cache.Store
	logger    *slog.Logger

	builder *pagination.Builder
	pool    *pool.Pool

	states []*blockstate.State

	// mu guards pages, cursor, and complete: produceOne (run only from the
	// serial queue) writes them; every other method may read them from an
	// arbitrary caller goroutine (the "hosting UI" of SPEC_FULL.md §6).
	mu       sync.RWMutex
	pages    []page.Content
	cursor   pagination.Cursor
	complete bool

	degenerate bool

	backgroundRunning atomic.Bool
}

// Open constructs an Engine over blocks at cfg, optionally rehydrating from
// store. store may be nil (no persistence). logger may be nil (defaults to
// slog.Default()).
func Open(bookID string, blocks []document.Block, cfg Config, measurer measure.Measurer, store *cache.Store, logger *slog.Logger) (*Engine, error) {
	if blocks == nil {
		return nil, ErrNilBlocks
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		bookID:   bookID,
		blocks:   blocks,
		cfg:      cfg,
		measurer: measurer,
		store:    store,
		logger:   logger,
		builder:  pagination.NewBuilder(measurer),
		pool:     pool.New().WithMaxGoroutines(1),
		states:   make([]*blockstate.State, len(blocks)),
	}
	e.layoutKey = computeLayoutKey(cfg, measurer)

	if cfg.MaxHeight <= 0 || cfg.MaxWidth <= 0 {
		e.degenerate = true
		e.complete = true
		e.logger.Warn("engine: degenerate layout, no pages will be produced", "book_id", bookID, "max_width", cfg.MaxWidth, "max_height", cfg.MaxHeight)
		return e, nil
	}

	if store != nil {
		if entry, ok := store.Load(bookID, e.layoutKey); ok {
			e.pages = make([]page.Content, len(entry.Pages))
			for i, p := range entry.Pages {
				e.pages[i] = fromCachePage(p)
			}
			e.cursor = fromCacheCursor(entry.Cursor)
			e.complete = entry.IsComplete
			e.logger.Info("engine: resumed from cache", "book_id", bookID, "layout_key", e.layoutKey, "pages", len(e.pages), "complete", e.complete)
		}
	}

	return e, nil
}

func computeLayoutKey(cfg Config, m measure.Measurer) string {
	fp := ""
	if m != nil {
		fp = m.Fingerprint()
	}
	return layoutKeyEncode(cfg, fp)
}

// Page returns pages[i], or false if i is out of range.
func (e *Engine) Page(i int) (page.Content, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i < 0 || i >= len(e.pages) {
		return page.Content{}, false
	}
	return e.pages[i], true
}

// HasNext reports whether a page after i is already available or could
// still be produced.
func (e *Engine) HasNext(i int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return i+1 < len(e.pages) || !e.complete
}

// HasPrev reports whether a page before i exists.
func (e *Engine) HasPrev(i int) bool {
	return i > 0
}

// EstimatedTotalPages returns the exact count once pagination is complete,
// otherwise a loose lower bound.
func (e *Engine) EstimatedTotalPages() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.complete {
		return len(e.pages)
	}
	return len(e.pages) + 1
}

// FindByCharacter returns the index of the page containing charIndex via
// binary search over [StartChar, EndChar] ranges. Past the last page it
// returns the last page's index; on an empty page vector it returns 0.
func (e *Engine) FindByCharacter(charIndex int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.findByCharacterLocked(charIndex)
}

func (e *Engine) findByCharacterLocked(charIndex int) int {
	if len(e.pages) == 0 {
		return 0
	}
	idx := sort.Search(len(e.pages), func(i int) bool {
		return e.pages[i].EndChar >= charIndex
	})
	if idx >= len(e.pages) {
		return len(e.pages) - 1
	}
	return idx
}

// EnsureWindow drives the Page Builder serially until pages.len() exceeds
// center+radius or pagination completes, persisting cache after each new
// page. It returns early (without rolling back in-flight work) if ctx is
// cancelled.
func (e *Engine) EnsureWindow(ctx context.Context, center, radius int) {
	target := center + radius
	for e.pageCount() <= target && !e.isComplete() {
		if ctx.Err() != nil {
			return
		}
		e.runOne(ctx)
	}
}

// EnsureForCharacter extends pages until the last page's EndChar >=
// charIndex or pagination completes, then returns the index of the page
// containing charIndex.
func (e *Engine) EnsureForCharacter(ctx context.Context, charIndex int) (int, bool) {
	for !e.isComplete() {
		if e.lastPageReaches(charIndex) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		e.runOne(ctx)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.pages) == 0 {
		return 0, false
	}
	return e.findByCharacterLocked(charIndex), true
}

func (e *Engine) lastPageReaches(charIndex int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	last := len(e.pages) - 1
	return last >= 0 && e.pages[last].EndChar >= charIndex
}

func (e *Engine) pageCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.pages)
}

func (e *Engine) isComplete() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.complete
}

// FindByChapter linearly scans for the first page of chapterIndex. If not
// found and pagination is not complete, it paginates to completion and
// scans again.
func (e *Engine) FindByChapter(ctx context.Context, chapterIndex int) (int, bool) {
	if idx, ok := e.scanChapter(chapterIndex); ok {
		return idx, true
	}
	for !e.isComplete() {
		if ctx.Err() != nil {
			return 0, false
		}
		e.runOne(ctx)
	}
	return e.scanChapter(chapterIndex)
}

func (e *Engine) scanChapter(chapterIndex int) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for i, p := range e.pages {
		if p.ChapterIndex == chapterIndex {
			return i, true
		}
	}
	return 0, false
}

// StartBackground spawns a goroutine that repeatedly produces the next
// page under the serial-execution discipline of §5, yielding ~8ms between
// pages so ensure_* calls can interleave. A no-op if already running,
// already complete, or the engine is layout-degenerate.
func (e *Engine) StartBackground(ctx context.Context) {
	if e.isComplete() || e.degenerate {
		return
	}
	if !e.backgroundRunning.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer e.backgroundRunning.Store(false)
		for {
			if ctx.Err() != nil {
				return
			}
			if !e.runOne(ctx) {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(backgroundYield):
			}
		}
	}()
}

// Close waits for the serial queue to drain any in-flight work. It does
// not cancel a caller's own context; cancel that first if a prompt stop is
// needed.
func (e *Engine) Close() {
	e.pool.Wait()
}

// Matches reports whether blocks, cfg, and the measurer's fingerprint agree
// with what this engine was opened with, within 0.5px on dimensions — used
// by a hosting UI to skip a pointless rebuild.
func (e *Engine) Matches(blocks []document.Block, cfg Config, m measure.Measurer) bool {
	if len(blocks) != len(e.blocks) {
		return false
	}
	if len(blocks) > 0 && &blocks[0] != &e.blocks[0] {
		return false
	}
	const eps = 0.5
	if absFloat(cfg.MaxWidth-e.cfg.MaxWidth) > eps || absFloat(cfg.MaxHeight-e.cfg.MaxHeight) > eps {
		return false
	}
	if cfg.FontFamily != e.cfg.FontFamily || cfg.FontSize != e.cfg.FontSize || cfg.LineHeight != e.cfg.LineHeight {
		return false
	}
	if cfg.ApplyHeightFirstAscent != e.cfg.ApplyHeightFirstAscent || cfg.ApplyHeightLastDescent != e.cfg.ApplyHeightLastDescent {
		return false
	}
	fp := ""
	if m != nil {
		fp = m.Fingerprint()
	}
	return fp == e.measurer.Fingerprint()
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// runOne submits exactly one page-production step to the serial queue and
// blocks until it runs (or ctx is done, in which case the step still runs
// to completion in the background — no rollback). It reports whether a
// page was produced.
func (e *Engine) runOne(ctx context.Context) bool {
	var produced bool
	done := make(chan struct{})
	e.pool.Go(func() {
		defer close(done)
		produced = e.produceOne()
	})
	select {
	case <-done:
	case <-ctx.Done():
	}
	return produced
}

// produceOne must only be called from the serial queue goroutine: it is the
// only place pages, cursor, and complete are ever written.
func (e *Engine) produceOne() bool {
	e.mu.RLock()
	complete := e.complete
	cursor := e.cursor
	e.mu.RUnlock()
	if complete {
		return false
	}

	content, next, ok := e.builder.Next(e.blocks, e.states, cursor, e.cfg.Layout)

	e.mu.Lock()
	if !ok {
		e.complete = true
	} else {
		e.pages = append(e.pages, content)
		e.cursor = next
	}
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	e.persist(snapshot)
	return ok
}

func (e *Engine) snapshotLocked() cache.Entry {
	entry := cache.Entry{
		IsComplete:      e.complete,
		TotalCharacters: uint64(e.cursor.GlobalChar),
		Pages:           make([]cache.Page, len(e.pages)),
	}
	if !e.complete {
		entry.Cursor = toCacheCursor(e.cursor)
	}
	for i, p := range e.pages {
		entry.Pages[i] = toCachePage(p)
	}
	return entry
}

func (e *Engine) persist(entry cache.Entry) {
	if e.store == nil {
		return
	}
	e.store.Save(e.bookID, e.layoutKey, entry)
}
