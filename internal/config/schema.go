package config

// Config holds folium's reader/layout configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Font    FontCfg    `mapstructure:"font" yaml:"font"`
	Layout  LayoutCfg  `mapstructure:"layout" yaml:"layout"`
	Storage StorageCfg `mapstructure:"storage" yaml:"storage"`
}

// FontCfg is the default text style new books are paginated with when they
// carry no style of their own.
type FontCfg struct {
	Family                 string  `mapstructure:"family" yaml:"family"`
	SizePoints             float64 `mapstructure:"size_points" yaml:"size_points"`
	LineHeight             float64 `mapstructure:"line_height" yaml:"line_height"`
	ApplyHeightFirstAscent bool    `mapstructure:"apply_height_first_ascent" yaml:"apply_height_first_ascent"`
	ApplyHeightLastDescent bool    `mapstructure:"apply_height_last_descent" yaml:"apply_height_last_descent"`
}

// LayoutCfg is the default page viewport, in the same units the text
// measurer reports line metrics in.
type LayoutCfg struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
}

// StorageCfg points at folium's on-disk state. Root supports ${ENV_VAR}
// expansion, same as the reference's API key fields.
type StorageCfg struct {
	Root string `mapstructure:"root" yaml:"root"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Font: FontCfg{
			Family:     "",
			SizePoints: 16,
			LineHeight: 1.3,
		},
		Layout: LayoutCfg{
			ViewportWidth:  360,
			ViewportHeight: 640,
		},
		Storage: StorageCfg{
			Root: "${HOME}/.folium",
		},
	}
}
