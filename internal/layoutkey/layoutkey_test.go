package layoutkey

import "testing"

func baseKey() Key {
	return Key{
		FontFamily:             "Georgia",
		FontSize:               16,
		LineHeight:              1.2,
		MaxWidth:                360,
		MaxHeight:               640,
		ApplyHeightFirstAscent: true,
		ApplyHeightLastDescent: false,
		ScalerFingerprint:      "default-v1",
	}
}

func TestEncode_Stable(t *testing.T) {
	a := Encode(baseKey())
	b := Encode(baseKey())
	if a != b {
		t.Fatalf("expected stable encoding, got %q vs %q", a, b)
	}
}

func TestEncode_DiffersOnEveryMaterialField(t *testing.T) {
	base := Encode(baseKey())

	variants := []Key{
		withFontFamily(baseKey(), "Times"),
		withFontSize(baseKey(), 18),
		withLineHeight(baseKey(), 1.4),
		withMaxWidth(baseKey(), 400),
		withMaxHeight(baseKey(), 700),
		withAscentFlag(baseKey(), false),
		withScaler(baseKey(), "default-v2"),
	}
	for i, v := range variants {
		if Encode(v) == base {
			t.Errorf("variant %d did not change the encoded key", i)
		}
	}
}

func TestEncode_EmptyFontFamilyUsesDefaultToken(t *testing.T) {
	k := baseKey()
	k.FontFamily = ""
	if Encode(k) == Encode(baseKey()) {
		t.Error("expected empty font family to encode differently from a named one")
	}
	named := baseKey()
	named.FontFamily = "default"
	if Encode(k) != Encode(named) {
		t.Error("expected empty font family to encode as the \"default\" token")
	}
}

func withFontFamily(k Key, v string) Key     { k.FontFamily = v; return k }
func withFontSize(k Key, v float64) Key      { k.FontSize = v; return k }
func withLineHeight(k Key, v float64) Key    { k.LineHeight = v; return k }
func withMaxWidth(k Key, v float64) Key      { k.MaxWidth = v; return k }
func withMaxHeight(k Key, v float64) Key     { k.MaxHeight = v; return k }
func withAscentFlag(k Key, v bool) Key       { k.ApplyHeightFirstAscent = v; return k }
func withScaler(k Key, v string) Key         { k.ScalerFingerprint = v; return k }
