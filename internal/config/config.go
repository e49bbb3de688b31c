package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/tilewm/internal/action"
	"github.com/1broseidon/tilewm/internal/logging"
)

// Margins represents padding around a tiled area.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// LayoutMode defines how windows are arranged.
type LayoutMode string

const (
	LayoutModeAuto        LayoutMode = "auto"         // Dynamic grid based on count.
	LayoutModeFixed       LayoutMode = "fixed"        // Specific rows × cols.
	LayoutModeVertical    LayoutMode = "vertical"     // Single column stack.
	LayoutModeHorizontal  LayoutMode = "horizontal"   // Single row side-by-side.
	LayoutModeMasterStack LayoutMode = "master-stack" // Main pane left, stack grid right.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines where to tile windows.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack defines the master-stack layout parameters. Slot 0 of a
// screen's window list is the main pane.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // Width of main pane as percentage (10-90)
	MaxStackRows       int `yaml:"max_stack_rows"`       // Maximum rows in the stack grid (>= 1)
	MaxStackCols       int `yaml:"max_stack_cols"`       // Maximum columns in the stack grid (>= 1)
}

// Layout defines a tiling configuration.
type Layout struct {
	Mode            LayoutMode  `yaml:"mode"`
	TileRegion      TileRegion  `yaml:"tile_region"`
	FixedGrid       FixedGrid   `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack `yaml:"master_stack,omitempty"`
	MaxWindowWidth  int         `yaml:"max_window_width"`  // 0 = unlimited
	MaxWindowHeight int         `yaml:"max_window_height"` // 0 = unlimited
	FlexibleLastRow bool        `yaml:"flexible_last_row"` // Last row windows expand to fill width (auto mode only)
}

// RepeatConfig limits how fast actions are dispatched. Key auto-repeat
// beyond the limit is dropped.
type RepeatConfig struct {
	PerSecond float64 `yaml:"per_second"` // 0 = unlimited
	Burst     int     `yaml:"burst"`
}

// LoggingConfig configures the daemon logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config is the effective daemon configuration.
type Config struct {
	GapSize       int               `yaml:"gap_size"`
	ScreenPadding Margins           `yaml:"screen_padding"`
	DefaultLayout string            `yaml:"layout"`
	Layouts       map[string]Layout `yaml:"layouts"`
	// Floating lists WM_CLASS names that are never tiled.
	Floating []string `yaml:"floating"`
	// Bindings maps action names to key sequences. An empty sequence
	// unbinds a default.
	Bindings          map[string]string `yaml:"bindings"`
	Repeat            RepeatConfig      `yaml:"repeat"`
	Logging           LoggingConfig     `yaml:"logging"`
	MetricsAddr       string            `yaml:"metrics_addr"`
	ReconcileInterval time.Duration     `yaml:"reconcile_interval"` // 0 disables
}

const (
	DefaultBuiltinLayout     = "tall"
	DefaultReconcileInterval = 2 * time.Second
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		GapSize:       8,
		ScreenPadding: Margins{},
		DefaultLayout: DefaultBuiltinLayout,
		Layouts:       BuiltinLayouts(),
		Floating:      []string{"Pavucontrol", "Gnome-calculator", "Pinentry"},
		Bindings:      DefaultBindings(),
		Repeat: RepeatConfig{
			PerSecond: 20,
			Burst:     5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		ReconcileInterval: DefaultReconcileInterval,
	}
}

// DefaultBindings returns the stock key bindings.
func DefaultBindings() map[string]string {
	bindings := map[string]string{
		"swap-main":        "Mod4-Shift-Return",
		"swap-cw":          "Mod4-Shift-j",
		"swap-ccw":         "Mod4-Shift-k",
		"screen-cw":        "Mod4-Shift-l",
		"screen-ccw":       "Mod4-Shift-h",
		"push-space-left":  "Mod4-Shift-Left",
		"push-space-right": "Mod4-Shift-Right",
		"toggle-float":     "Mod4-Shift-t",
		"retile":           "Mod4-Shift-z",
	}
	for i, key := range []string{"w", "e", "r"} {
		bindings[fmt.Sprintf("throw-screen-%d", i+1)] = "Mod4-Shift-" + key
	}
	for i := 1; i <= 4; i++ {
		bindings[fmt.Sprintf("push-space-%d", i)] = fmt.Sprintf("Mod4-Shift-%d", i)
	}
	return bindings
}

// GetLayout retrieves a layout by name with validation.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}

	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", name, err)
	}

	return &layout, nil
}

// GetDefaultLayout retrieves the configured layout.
func (c *Config) GetDefaultLayout() (*Layout, error) {
	return c.GetLayout(c.DefaultLayout)
}

// IsFloatingClass reports whether windows of the WM_CLASS are never tiled.
func (c *Config) IsFloatingClass(class string) bool {
	class = strings.TrimSpace(class)
	if class == "" {
		return false
	}
	for _, f := range c.Floating {
		if strings.EqualFold(strings.TrimSpace(f), class) {
			return true
		}
	}
	return false
}

// BoundActions returns the bound action names in sorted order, skipping
// unbound entries.
func (c *Config) BoundActions() []string {
	names := make([]string, 0, len(c.Bindings))
	for name, key := range c.Bindings {
		if strings.TrimSpace(key) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "layout", Err: fmt.Errorf("layout is required")}
	}
	if _, ok := c.Layouts[c.DefaultLayout]; !ok {
		return &ValidationError{Path: "layout", Err: fmt.Errorf("layout %q not found in layouts", c.DefaultLayout)}
	}
	for name, layout := range c.Layouts {
		layout := layout
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}

	for i, class := range c.Floating {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "floating", Err: fmt.Errorf("floating[%d] is empty", i)}
		}
	}

	keys := make(map[string]string, len(c.Bindings))
	for _, name := range sortedKeys(c.Bindings) {
		if _, err := action.Parse(name); err != nil {
			return &ValidationError{Path: "bindings." + name, Err: err}
		}
		key := strings.TrimSpace(c.Bindings[name])
		if key == "" {
			continue
		}
		if other, ok := keys[strings.ToLower(key)]; ok {
			return &ValidationError{Path: "bindings." + name, Err: fmt.Errorf("key %q is already bound to %s", key, other)}
		}
		keys[strings.ToLower(key)] = name
	}

	if c.Repeat.PerSecond < 0 {
		return &ValidationError{Path: "repeat.per_second", Err: fmt.Errorf("per_second must be >= 0")}
	}
	if c.Repeat.PerSecond > 0 && c.Repeat.Burst < 1 {
		return &ValidationError{Path: "repeat.burst", Err: fmt.Errorf("burst must be >= 1 when per_second is set")}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Err: err}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}

	return nil
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout *Layout) error {
	switch layout.Mode {
	case LayoutModeAuto, LayoutModeFixed, LayoutModeVertical, LayoutModeHorizontal, LayoutModeMasterStack:
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	if layout.Mode == LayoutModeFixed {
		if layout.FixedGrid.Rows <= 0 || layout.FixedGrid.Cols <= 0 {
			return fmt.Errorf("fixed mode requires rows and cols to be positive")
		}
	}

	if layout.Mode == LayoutModeMasterStack {
		if layout.MasterStack.MasterWidthPercent < 10 || layout.MasterStack.MasterWidthPercent > 90 {
			return fmt.Errorf("master_stack.master_width_percent must be between 10 and 90")
		}
		if layout.MasterStack.MaxStackRows < 1 {
			return fmt.Errorf("master_stack.max_stack_rows must be >= 1")
		}
		if layout.MasterStack.MaxStackCols < 1 {
			return fmt.Errorf("master_stack.max_stack_cols must be >= 1")
		}
	}

	if layout.MaxWindowWidth < 0 || layout.MaxWindowHeight < 0 {
		return fmt.Errorf("max_window_width/height must be >= 0")
	}

	switch layout.TileRegion.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		// ok
	case RegionCustom:
		r := layout.TileRegion
		if r.XPercent < 0 || r.XPercent > 100 || r.YPercent < 0 || r.YPercent > 100 {
			return fmt.Errorf("x_percent and y_percent must be between 0 and 100")
		}
		if r.WidthPercent <= 0 || r.WidthPercent > 100 || r.HeightPercent <= 0 || r.HeightPercent > 100 {
			return fmt.Errorf("width_percent and height_percent must be between 1 and 100")
		}
		if r.XPercent+r.WidthPercent > 100 || r.YPercent+r.HeightPercent > 100 {
			return fmt.Errorf("custom region must fit inside the screen")
		}
	default:
		return fmt.Errorf("invalid region type %q", layout.TileRegion.Type)
	}

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
