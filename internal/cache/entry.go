// Package cache persists and reloads an engine's page vector (SPEC_FULL.md
// §4.6): one JSON blob per (book_id, layout_key), written atomically and
// validated against an embedded JSON Schema on both the write and the read
// path.
package cache

import "errors"

// ErrCacheUnreadable names the condition of a cache file that exists but
// cannot be parsed or fails schema validation. Load does not return or wrap
// it: it logs the cause and reports a miss.
var ErrCacheUnreadable = errors.New("cache: entry unreadable")

// ErrCacheUnwritable wraps the underlying error when Save cannot persist an
// entry after retries. Save never returns it; it is logged and swallowed,
// matching SPEC_FULL.md §7.
var ErrCacheUnwritable = errors.New("cache: entry unwritable")

// schemaVersion is the "version" field stamped into every persisted entry.
const schemaVersion = "v2"

// Entry is the full persisted state for one (book_id, layout_key) pair.
type Entry struct {
	Version         string   `json:"version"`
	IsComplete      bool     `json:"is_complete"`
	TotalCharacters uint64   `json:"total_characters"`
	Cursor          *Cursor  `json:"cursor,omitempty"`
	Pages           []Page   `json:"pages"`
}

// Cursor mirrors pagination.Cursor in a serialization-stable shape.
type Cursor struct {
	BlockIndex      uint32      `json:"block_index"`
	GlobalCharIndex uint64      `json:"global_char_index"`
	GlobalWordIndex uint64      `json:"global_word_index"`
	TextState       *TextState  `json:"text_state,omitempty"`
}

// TextState mirrors blockstate.Cursor.
type TextState struct {
	LineIndex    uint32 `json:"line_index"`
	TextOffset   uint32 `json:"text_offset"`
	TokenPointer uint32 `json:"token_pointer"`
}

// Page mirrors page.Content.
type Page struct {
	ChapterIndex   uint32  `json:"chapter_index"`
	StartWordIndex uint64  `json:"start_word_index"`
	EndWordIndex   uint64  `json:"end_word_index"`
	StartCharIndex uint64  `json:"start_char_index"`
	EndCharIndex   uint64  `json:"end_char_index"`
	Blocks         []Block `json:"blocks"`
}

// Block is the tagged-union CachedPageBlock of SPEC_FULL.md §6. Exactly one
// of the text or image field group is populated, selected by Type.
type Block struct {
	Type string `json:"type"` // "text" or "image"

	// text fields
	Text          string  `json:"text,omitempty"`
	TextAlign     int     `json:"text_align,omitempty"`
	FontSize      float32 `json:"font_size,omitempty"`
	LineHeight    float32 `json:"line_height,omitempty"`
	Color         *uint32 `json:"color,omitempty"`
	FontWeight    *uint16 `json:"font_weight,omitempty"`
	FontStyle     string  `json:"font_style,omitempty"`
	FontFamily    string  `json:"font_family,omitempty"`

	// image fields
	ImageHeight float32 `json:"image_height,omitempty"`
	ImageBytes  []byte  `json:"image_bytes,omitempty"` // encoding/json base64-encodes []byte natively

	SpacingBefore float32 `json:"spacing_before"`
	SpacingAfter  float32 `json:"spacing_after"`
}
