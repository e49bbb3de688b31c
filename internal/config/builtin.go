package config

// BuiltinLayouts returns the layouts available without any configuration.
// A layout of the same name under layouts in the config file replaces the
// built-in one.
func BuiltinLayouts() map[string]Layout {
	full := TileRegion{Type: RegionFull}
	return map[string]Layout{
		// Main pane at half width, every other window stacked on the right.
		"tall": {
			Mode:        LayoutModeMasterStack,
			TileRegion:  full,
			MasterStack: MasterStack{MasterWidthPercent: 50, MaxStackRows: 8, MaxStackCols: 1},
		},
		"master-stack": {
			Mode:        LayoutModeMasterStack,
			TileRegion:  full,
			MasterStack: MasterStack{MasterWidthPercent: 40, MaxStackRows: 3, MaxStackCols: 2},
		},
		"grid":       {Mode: LayoutModeAuto, TileRegion: full, FlexibleLastRow: true},
		"half-left":  {Mode: LayoutModeAuto, TileRegion: TileRegion{Type: RegionLeftHalf}, FlexibleLastRow: true},
		"half-right": {Mode: LayoutModeAuto, TileRegion: TileRegion{Type: RegionRightHalf}, FlexibleLastRow: true},
		// A single column, and a single row.
		"columns": {Mode: LayoutModeVertical, TileRegion: full},
		"rows":    {Mode: LayoutModeHorizontal, TileRegion: full},
	}
}
