package cache

// entrySchema is the JSON Schema an Entry must satisfy before it is
// persisted, and that a loaded file is re-checked against before the
// engine trusts it (SPEC_FULL.md §4.6). It exists to catch a partially
// written or hand-edited cache file early, reported by Load as a miss,
// rather than letting engine.Open rehydrate against malformed state.
const entrySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["version", "is_complete", "total_characters", "pages"],
	"properties": {
		"version": {"type": "string"},
		"is_complete": {"type": "boolean"},
		"total_characters": {"type": "integer", "minimum": 0},
		"cursor": {
			"type": "object",
			"required": ["block_index", "global_char_index", "global_word_index"],
			"properties": {
				"block_index": {"type": "integer", "minimum": 0},
				"global_char_index": {"type": "integer", "minimum": 0},
				"global_word_index": {"type": "integer", "minimum": 0},
				"text_state": {
					"type": "object",
					"required": ["line_index", "text_offset", "token_pointer"],
					"properties": {
						"line_index": {"type": "integer", "minimum": 0},
						"text_offset": {"type": "integer", "minimum": 0},
						"token_pointer": {"type": "integer", "minimum": 0}
					}
				}
			}
		},
		"pages": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["chapter_index", "start_word_index", "end_word_index", "start_char_index", "end_char_index", "blocks"],
				"properties": {
					"chapter_index": {"type": "integer", "minimum": 0},
					"start_word_index": {"type": "integer", "minimum": 0},
					"end_word_index": {"type": "integer", "minimum": 0},
					"start_char_index": {"type": "integer", "minimum": 0},
					"end_char_index": {"type": "integer", "minimum": 0},
					"blocks": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["type"],
							"properties": {
								"type": {"type": "string", "enum": ["text", "image"]}
							}
						}
					}
				}
			}
		}
	}
}`
