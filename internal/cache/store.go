package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/moby/sys/atomicwriter"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("cache-entry.json", strings.NewReader(entrySchema)); err != nil {
		panic(fmt.Sprintf("cache: invalid embedded schema: %v", err))
	}
	schema, err := compiler.Compile("cache-entry.json")
	if err != nil {
		panic(fmt.Sprintf("cache: schema does not compile: %v", err))
	}
	return schema
}

// Store persists Entry values as one JSON file per (book ID, layout key)
// under Root.
type Store struct {
	Root   string
	Logger *slog.Logger
}

// NewStore constructs a Store rooted at root. A nil logger falls back to
// slog.Default().
func NewStore(root string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Root: root, Logger: logger}
}

func (s *Store) path(bookID, layoutKey string) string {
	return filepath.Join(s.Root, bookID, layoutKey+".json")
}

// Load reads and validates the entry for (bookID, layoutKey). Any I/O,
// parse, or schema-validation failure is treated as a miss: it returns
// (Entry{}, false), never an error, matching SPEC_FULL.md §4.6's
// "on any parse or I/O error, return None".
func (s *Store) Load(bookID, layoutKey string) (Entry, bool) {
	raw, err := os.ReadFile(s.path(bookID, layoutKey))
	if err != nil {
		return Entry{}, false
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		s.Logger.Debug("cache entry unreadable: invalid json", "book_id", bookID, "layout_key", layoutKey, "err", err)
		return Entry{}, false
	}
	if err := compiledSchema.Validate(generic); err != nil {
		s.Logger.Debug("cache entry unreadable: schema mismatch", "book_id", bookID, "layout_key", layoutKey, "err", err)
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.Logger.Debug("cache entry unreadable: struct decode failed", "book_id", bookID, "layout_key", layoutKey, "err", err)
		return Entry{}, false
	}
	return entry, true
}

// Save marshals entry, validates it against the embedded schema, and writes
// it atomically. Failures are logged and swallowed: the caller's next page
// production still succeeds, only the persisted cache lags.
func (s *Store) Save(bookID, layoutKey string, entry Entry) {
	entry.Version = schemaVersion

	raw, err := json.Marshal(entry)
	if err != nil {
		s.Logger.Warn("cache entry unwritable: marshal failed", "book_id", bookID, "layout_key", layoutKey, "err", err)
		return
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		s.Logger.Warn("cache entry unwritable: re-decode failed", "book_id", bookID, "layout_key", layoutKey, "err", err)
		return
	}
	if err := compiledSchema.Validate(generic); err != nil {
		s.Logger.Warn("cache entry unwritable: failed schema validation, refusing to persist", "book_id", bookID, "layout_key", layoutKey, "err", err)
		return
	}

	target := s.path(bookID, layoutKey)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		s.Logger.Warn("cache entry unwritable: mkdir failed", "book_id", bookID, "layout_key", layoutKey, "err", err)
		return
	}

	err = retry.Do(
		func() error {
			return atomicwriter.WriteFile(target, raw, 0o644)
		},
		retry.Attempts(3),
		retry.Delay(20*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		s.Logger.Warn("cache entry unwritable after retries", "book_id", bookID, "layout_key", layoutKey, "err", fmt.Errorf("%w: %v", ErrCacheUnwritable, err))
	}
}
