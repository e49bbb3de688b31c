package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TILEWM_CONFIG", "")
	t.Setenv("TILEWM_LOG_LEVEL", "")
	t.Setenv("TILEWM_METRICS_ADDR", "")
}

func TestDefaultConfig_ValidAndHasBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Contains(t, cfg.Layouts, DefaultBuiltinLayout)

	layout, err := cfg.GetDefaultLayout()
	require.NoError(t, err)
	assert.Equal(t, LayoutModeMasterStack, layout.Mode)
}

func TestBuiltinLayoutsValidate(t *testing.T) {
	for name, layout := range BuiltinLayouts() {
		layout := layout
		assert.NoError(t, validateLayout(&layout), name)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, res.Exists)
	assert.Equal(t, DefaultConfig(), res.Config)
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	res, err := LoadFromPath(writeConfig(t, "# empty"))
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.Equal(t, DefaultBuiltinLayout, res.Config.DefaultLayout)
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t,
		"gap_size: 4",
		"layout: columns",
		"floating: [Gimp]",
		"bindings:",
		"  swap-main: Mod1-Return",
		"  retile: \"\"",
		"repeat:",
		"  per_second: 5",
		"  burst: 1",
		"reconcile_interval: 500ms",
		"layouts:",
		"  wide:",
		"    mode: fixed",
		"    tile_region: {type: full}",
		"    fixed_grid: {rows: 2, cols: 3}",
	)

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	cfg := res.Config

	assert.Equal(t, 4, cfg.GapSize)
	assert.Equal(t, "columns", cfg.DefaultLayout)
	assert.Equal(t, []string{"Gimp"}, cfg.Floating)
	assert.Equal(t, "Mod1-Return", cfg.Bindings["swap-main"])
	assert.Equal(t, "Mod4-Shift-j", cfg.Bindings["swap-cw"], "unmentioned defaults survive")
	assert.NotContains(t, cfg.BoundActions(), "retile")
	assert.Equal(t, 500*time.Millisecond, cfg.ReconcileInterval)
	assert.Contains(t, cfg.Layouts, "wide")
	assert.Contains(t, cfg.Layouts, "grid", "builtins survive user layouts")
	assert.Equal(t, SourceFile, res.SourceOf("gap_size").Kind)
	assert.Equal(t, SourceDefault, res.SourceOf("metrics_addr").Kind)
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromPath(writeConfig(t, "gap_sise: 3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gap_sise")
}

func TestLoadFromPath_ValidationErrorCarriesLocation(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t,
		"gap_size: 2",
		"layout: nope",
	)

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "layout", verr.Path)
	assert.Equal(t, 2, verr.Source.Line)
	assert.Contains(t, err.Error(), path+":2:")
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TILEWM_LOG_LEVEL", "debug")
	t.Setenv("TILEWM_METRICS_ADDR", "127.0.0.1:9477")

	res, err := LoadFromPath(writeConfig(t, "logging: {level: warn}"))
	require.NoError(t, err)
	assert.Equal(t, "debug", res.Config.Logging.Level)
	assert.Equal(t, "127.0.0.1:9477", res.Config.MetricsAddr)
	assert.Equal(t, "$TILEWM_LOG_LEVEL", res.SourceOf("logging.level").String())
}

func TestLoadFromPath_BadEnvLevelNamesVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("TILEWM_LOG_LEVEL", "chatty")

	_, err := LoadFromPath(writeConfig(t, "gap_size: 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TILEWM_LOG_LEVEL")
}

func TestResolvePath(t *testing.T) {
	clearEnv(t)
	t.Setenv("TILEWM_CONFIG", "/tmp/custom.yaml")
	path, err := ResolvePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)

	t.Setenv("TILEWM_CONFIG", "")
	path, err = ResolvePath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join(".config", "tilewm", "config.yaml")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative gap", func(c *Config) { c.GapSize = -1 }, "gap_size"},
		{"negative padding", func(c *Config) { c.ScreenPadding.Left = -2 }, "screen_padding"},
		{"missing layout", func(c *Config) { c.DefaultLayout = "" }, "layout"},
		{"unknown action", func(c *Config) { c.Bindings["swap-up"] = "Mod4-u" }, "bindings.swap-up"},
		{"index out of range", func(c *Config) { c.Bindings["throw-screen-12"] = "Mod4-F12" }, "bindings.throw-screen-12"},
		{"duplicate key", func(c *Config) { c.Bindings["retile"] = "mod4-shift-j" }, "bindings.swap-cw"},
		{"empty floating class", func(c *Config) { c.Floating = append(c.Floating, " ") }, "floating"},
		{"negative rate", func(c *Config) { c.Repeat.PerSecond = -1 }, "repeat.per_second"},
		{"zero burst", func(c *Config) { c.Repeat.Burst = 0 }, "repeat.burst"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"negative interval", func(c *Config) { c.ReconcileInterval = -time.Second }, "reconcile_interval"},
		{"bad layout", func(c *Config) {
			c.Layouts["broken"] = Layout{Mode: LayoutModeFixed, TileRegion: TileRegion{Type: RegionFull}}
		}, "layouts.broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestValidate_UnboundDuplicateAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bindings["retile"] = ""
	cfg.Bindings["toggle-float"] = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnlimitedRepeatIgnoresBurst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repeat = RepeatConfig{}
	assert.NoError(t, cfg.Validate())
}

func TestValidateLayout_CustomRegion(t *testing.T) {
	layout := Layout{
		Mode: LayoutModeAuto,
		TileRegion: TileRegion{
			Type:          RegionCustom,
			XPercent:      50,
			WidthPercent:  60,
			HeightPercent: 100,
		},
	}
	assert.Error(t, validateLayout(&layout))

	layout.TileRegion.WidthPercent = 50
	assert.NoError(t, validateLayout(&layout))
}

func TestIsFloatingClass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Floating = []string{"Gimp", " mpv "}
	assert.True(t, cfg.IsFloatingClass("gimp"))
	assert.True(t, cfg.IsFloatingClass("mpv"))
	assert.False(t, cfg.IsFloatingClass(""))
	assert.False(t, cfg.IsFloatingClass("Alacritty"))
}

func TestMarshalRoundTripsThroughStrictDecode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReconcileInterval = 3 * time.Second
	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reconcile_interval: 3s")

	decoded := &Config{}
	require.NoError(t, decodeStrictYAML(data, decoded))
	assert.Equal(t, cfg, decoded)
}
