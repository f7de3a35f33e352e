// Package config provides configuration loading and access for the needle field.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all needle field configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Noise     NoiseConfig     `yaml:"noise"`
	Timing    TimingConfig    `yaml:"timing"`
	Page      PageConfig      `yaml:"page"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	TargetFPS  int      `yaml:"target_fps"`
	Background [3]uint8 `yaml:"background"`
}

// FieldConfig holds needle grid and stroke parameters.
type FieldConfig struct {
	GridSpacing      float64  `yaml:"grid_spacing"`      // Distance between grid anchors in px
	Jitter           float64  `yaml:"jitter"`            // Max per-axis anchor offset in px
	LineLength       float64  `yaml:"line_length"`       // Needle length in px
	LineWidth        float64  `yaml:"line_width"`        // Stroke width in px
	BaseAlpha        float64  `yaml:"base_alpha"`        // Alpha with no pointer influence
	MaxAlpha         float64  `yaml:"max_alpha"`         // Alpha at full pointer influence
	LerpSpeed        float64  `yaml:"lerp_speed"`        // Fraction of the angle gap closed per frame
	Color            [3]uint8 `yaml:"color"`             // Stroke RGB
	MobileBreakpoint float64  `yaml:"mobile_breakpoint"` // Viewport width below which spacing grows
	MobileSpacing    float64  `yaml:"mobile_spacing"`    // Spacing multiplier below the breakpoint
}

// PointerConfig holds pointer attraction parameters.
type PointerConfig struct {
	Radius       float64 `yaml:"radius"`        // Influence radius in px
	Strength     float64 `yaml:"strength"`      // Influence multiplier before clamping to 1
	FalloffPower float64 `yaml:"falloff_power"` // Exponent applied to the eased proximity
	LerpBoost    float64 `yaml:"lerp_boost"`    // Extra lerp speed at full influence
}

// NoiseConfig holds noise field parameters.
type NoiseConfig struct {
	Backend   string  `yaml:"backend"`    // "simplex" or "opensimplex"
	Scale     float64 `yaml:"scale"`      // Spatial frequency applied to anchor coordinates
	TimeSpeed float64 `yaml:"time_speed"` // Noise z advance per millisecond
}

// TimingConfig holds debounce windows in milliseconds.
type TimingConfig struct {
	ResizeDebounceMS float64 `yaml:"resize_debounce_ms"`
	LayoutDebounceMS float64 `yaml:"layout_debounce_ms"`
}

// PageConfig describes the host page the field is drawn behind.
type PageConfig struct {
	HeroHeight    float64 `yaml:"hero_height"`    // 0 = no hero landmark
	MainPadding   float64 `yaml:"main_padding"`   // Vertical padding inside main
	ContentWidth  float64 `yaml:"content_width"`  // Max width of the card column
	CardColumns   int     `yaml:"card_columns"`   // Columns above the mobile breakpoint
	CardCount     int     `yaml:"card_count"`     // 0 = no card landmarks
	CardHeight    float64 `yaml:"card_height"`    // Collapsed card height
	CardExpanded  float64 `yaml:"card_expanded"`  // Expanded card height
	CardGap       float64 `yaml:"card_gap"`       // Gap between cards
	SectionHeight float64 `yaml:"section_height"` // Extra main content below the cards
	FooterHeight  float64 `yaml:"footer_height"`  // 0 = no footer landmark
	HasMain       bool    `yaml:"has_main"`
	ScrollStep    float64 `yaml:"scroll_step"` // Pixels per wheel notch
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Frames averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfLength     float64       // Field.LineLength / 2
	MobileSpacing  float64       // floor(GridSpacing * MobileSpacing)
	PointerRadius2 float64       // Pointer.Radius squared
	ResizeDebounce time.Duration // Timing.ResizeDebounceMS as a duration
	LayoutDebounce time.Duration // Timing.LayoutDebounceMS as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the field cannot run with.
func (c *Config) validate() error {
	if c.Field.GridSpacing < 1 {
		return fmt.Errorf("field.grid_spacing must be at least 1, got %v", c.Field.GridSpacing)
	}
	if c.Field.MobileSpacing <= 0 {
		return fmt.Errorf("field.mobile_spacing must be positive, got %v", c.Field.MobileSpacing)
	}
	if m := math.Floor(c.Field.GridSpacing * c.Field.MobileSpacing); m < 1 {
		return fmt.Errorf("field.grid_spacing * field.mobile_spacing must floor to at least 1, got %v", m)
	}
	if c.Field.Jitter < 0 {
		return fmt.Errorf("field.jitter must not be negative, got %v", c.Field.Jitter)
	}
	if c.Pointer.Radius <= 0 {
		return fmt.Errorf("pointer.radius must be positive, got %v", c.Pointer.Radius)
	}
	if c.Page.CardCount < 0 {
		return fmt.Errorf("page.card_count must not be negative, got %v", c.Page.CardCount)
	}
	if c.Page.CardColumns < 0 {
		return fmt.Errorf("page.card_columns must not be negative, got %v", c.Page.CardColumns)
	}
	if c.Page.CardHeight < 0 || c.Page.CardExpanded < 0 {
		return fmt.Errorf("page.card_height and page.card_expanded must not be negative, got %v and %v",
			c.Page.CardHeight, c.Page.CardExpanded)
	}
	switch c.Noise.Backend {
	case "", "simplex", "opensimplex":
	default:
		return fmt.Errorf("noise.backend: unknown backend %q", c.Noise.Backend)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Noise.Backend == "" {
		c.Noise.Backend = "simplex"
	}
	c.Derived.HalfLength = c.Field.LineLength * 0.5
	c.Derived.MobileSpacing = math.Floor(c.Field.GridSpacing * c.Field.MobileSpacing)
	c.Derived.PointerRadius2 = c.Pointer.Radius * c.Pointer.Radius
	c.Derived.ResizeDebounce = time.Duration(c.Timing.ResizeDebounceMS * float64(time.Millisecond))
	c.Derived.LayoutDebounce = time.Duration(c.Timing.LayoutDebounceMS * float64(time.Millisecond))
}

// SpacingFor returns the grid spacing to use for a viewport of the given width.
func (c *Config) SpacingFor(width float64) float64 {
	if width < c.Field.MobileBreakpoint {
		return c.Derived.MobileSpacing
	}
	return c.Field.GridSpacing
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
