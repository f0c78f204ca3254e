// Package library is the thin bookkeeping layer around the Pagination
// Engine: it tracks which books are known, their chapter boundaries, and
// hands back a reusable *engine.Engine for a (book, layout) pair so a
// hosting program never pays to re-measure a book it has already opened
// at the current layout.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jackzampolin/folium/internal/cache"
	"github.com/jackzampolin/folium/internal/document"
	"github.com/jackzampolin/folium/internal/engine"
	"github.com/jackzampolin/folium/internal/measure"
)

// ErrBookNotFound is returned when a book ID has no matching entry.
var ErrBookNotFound = errors.New("library: book not found")

// ChapterInfo is one chapter's position within a book's block list.
type ChapterInfo struct {
	Index int
	Title string
}

// Book is a document plus the chapter table a hosting UI uses for
// table-of-contents navigation (SPEC_FULL.md's engine itself only knows
// chapter_index per block; Book is where a title gets attached to that
// index).
type Book struct {
	ID       string
	Title    string
	Chapters []ChapterInfo
	Blocks   []document.Block
}

// Library holds the known books of one reading session and the engines
// opened against them, reusing an engine across calls that share a book
// and layout.
type Library struct {
	mu      sync.Mutex
	books   map[string]*Book
	engines map[string]*engine.Engine

	store  *cache.Store
	logger *slog.Logger
}

// New constructs an empty Library. store may be nil (no pagination
// persistence). logger may be nil (defaults to slog.Default()).
func New(store *cache.Store, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		books:   make(map[string]*Book),
		engines: make(map[string]*engine.Engine),
		store:   store,
		logger:  logger,
	}
}

// Add registers a book under a fresh UUID and returns it.
func (l *Library) Add(title string, blocks []document.Block, chapters []ChapterInfo) *Book {
	b := &Book{
		ID:       uuid.New().String(),
		Title:    title,
		Chapters: chapters,
		Blocks:   blocks,
	}
	l.mu.Lock()
	l.books[b.ID] = b
	l.mu.Unlock()
	return b
}

// Get returns the book registered under id.
func (l *Library) Get(id string) (*Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.books[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return b, nil
}

// List returns every registered book, in no particular order.
func (l *Library) List() []*Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Book, 0, len(l.books))
	for _, b := range l.books {
		out = append(out, b)
	}
	return out
}

// Open returns the engine for (bookID, cfg), reusing a previously opened
// one when its blocks, layout, and measurer still match (engine.Matches),
// and opening a fresh one otherwise.
func (l *Library) Open(ctx context.Context, bookID string, cfg engine.Config, m measure.Measurer) (*engine.Engine, error) {
	b, err := l.Get(bookID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.engines[bookID]; ok && e.Matches(b.Blocks, cfg, m) {
		return e, nil
	}

	e, err := engine.Open(bookID, b.Blocks, cfg, m, l.store, l.logger)
	if err != nil {
		return nil, fmt.Errorf("library: opening engine for %s: %w", bookID, err)
	}
	l.engines[bookID] = e
	return e, nil
}

// Close releases every open engine's background resources.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.engines {
		e.Close()
	}
}
