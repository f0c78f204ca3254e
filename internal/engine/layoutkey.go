package engine

import "github.com/jackzampolin/folium/internal/layoutkey"

func layoutKeyEncode(cfg Config, scalerFingerprint string) string {
	return layoutkey.Encode(layoutkey.Key{
		FontFamily:             cfg.FontFamily,
		FontSize:               cfg.FontSize,
		LineHeight:             cfg.LineHeight,
		MaxWidth:               cfg.MaxWidth,
		MaxHeight:              cfg.MaxHeight,
		ApplyHeightFirstAscent: cfg.ApplyHeightFirstAscent,
		ApplyHeightLastDescent: cfg.ApplyHeightLastDescent,
		ScalerFingerprint:      scalerFingerprint,
	})
}
