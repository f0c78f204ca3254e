// Package layoutkey computes the stable fingerprint a layout configuration
// reduces to (SPEC_FULL.md §4.5): the cache key under which a book's pages
// are persisted. engine.Matches does not use the key; it compares the
// layout fields directly.
package layoutkey

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// schemaVersion is bumped whenever the fields folded into a Key, or their
// encoding, change in a way that would make an old key collide with a
// layout it no longer describes.
const schemaVersion = "v2"

// Key is the set of inputs that affect how a document paginates. Two Keys
// built from the same field values always encode to the same string.
type Key struct {
	FontFamily             string // empty encodes as "default"
	FontSize               float64
	LineHeight             float64
	MaxWidth                float64
	MaxHeight               float64
	ApplyHeightFirstAscent bool
	ApplyHeightLastDescent bool

	// ScalerFingerprint is the measurer's own Fingerprint(); two measurers
	// producing identical measurements for every input must supply the
	// same value here.
	ScalerFingerprint string
}

// Encode reduces k to the base64url string used as the on-disk cache key.
func Encode(k Key) string {
	family := k.FontFamily
	if family == "" {
		family = "default"
	}

	raw := strings.Join([]string{
		schemaVersion,
		family,
		formatFloat(k.FontSize),
		formatFloat(k.LineHeight),
		formatDimension(k.MaxWidth),
		formatDimension(k.MaxHeight),
		formatBit(k.ApplyHeightFirstAscent) + formatBit(k.ApplyHeightLastDescent),
		k.ScalerFingerprint,
	}, "|")

	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatDimension(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatBit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
