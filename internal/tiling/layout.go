package tiling

import (
	"fmt"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/platform"
)

// GridShape returns the rows and columns of a near-square grid holding n cells.
func GridShape(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = 1
	for cols*cols < n {
		cols++
	}
	return ceilDiv(n, cols), cols
}

// TileSlots returns one rectangle per slot of a screen's window list,
// slot 0 being the main slot. Layouts with a fixed capacity return fewer
// slots than count; the extra windows are left alone.
func TileSlots(count int, area platform.Rect, layout *config.Layout, gap int) ([]platform.Rect, error) {
	if count <= 0 {
		return nil, nil
	}

	switch layout.Mode {
	case config.LayoutModeAuto:
		rows, cols := GridShape(count)
		return gridSlots(count, rows, cols, area, layout, gap, layout.FlexibleLastRow)
	case config.LayoutModeFixed:
		rows, cols := layout.FixedGrid.Rows, layout.FixedGrid.Cols
		return gridSlots(min(count, rows*cols), rows, cols, area, layout, gap, false)
	case config.LayoutModeVertical:
		return gridSlots(count, count, 1, area, layout, gap, false)
	case config.LayoutModeHorizontal:
		return gridSlots(count, 1, count, area, layout, gap, false)
	case config.LayoutModeMasterStack:
		return masterStackSlots(count, area, layout.MasterStack, gap)
	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}
}

// gridSlots fills rows left to right. With flexible set, a short last row
// stretches across the full width.
func gridSlots(count, rows, cols int, area platform.Rect, layout *config.Layout, gap int, flexible bool) ([]platform.Rect, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}

	cellWidth := (area.Width - (cols+1)*gap) / cols
	cellHeight := (area.Height - (rows+1)*gap) / rows
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (cell=%dx%d)",
			area.Width, area.Height, rows, cols, gap, cellWidth, cellHeight,
		)
	}

	slots := make([]platform.Rect, 0, count)
	for row := 0; len(slots) < count; row++ {
		inRow := min(cols, count-len(slots))
		width := cellWidth
		if flexible && inRow < cols {
			width = (area.Width - (inRow+1)*gap) / inRow
		}
		y := area.Y + gap + row*(cellHeight+gap)
		for col := 0; col < inRow; col++ {
			cell := platform.Rect{
				X:      area.X + gap + col*(width+gap),
				Y:      y,
				Width:  width,
				Height: cellHeight,
			}
			slots = append(slots, capCell(cell, layout.MaxWindowWidth, layout.MaxWindowHeight))
		}
	}
	return slots, nil
}

// capCell shrinks cell to the size limits, keeping it centered. Zero means
// no limit.
func capCell(cell platform.Rect, maxWidth, maxHeight int) platform.Rect {
	if maxWidth > 0 && cell.Width > maxWidth {
		cell.X += (cell.Width - maxWidth) / 2
		cell.Width = maxWidth
	}
	if maxHeight > 0 && cell.Height > maxHeight {
		cell.Y += (cell.Height - maxHeight) / 2
		cell.Height = maxHeight
	}
	return cell
}

// masterStackSlots puts slot 0 in a left pane of MasterWidthPercent and
// the rest in a grid on the right, at most MaxStackRows tall and
// MaxStackCols wide.
func masterStackSlots(count int, area platform.Rect, ms config.MasterStack, gap int) ([]platform.Rect, error) {
	mainWidth := area.Width*ms.MasterWidthPercent/100 - gap
	height := area.Height - 2*gap
	main := platform.Rect{X: area.X + gap, Y: area.Y + gap, Width: mainWidth, Height: height}
	if count == 1 {
		return []platform.Rect{main}, nil
	}

	maxRows := max(ms.MaxStackRows, 1)
	stacked := count - 1
	cols := max(min(ceilDiv(stacked, maxRows), ms.MaxStackCols), 1)
	rows := min(ceilDiv(stacked, cols), maxRows)
	stacked = min(stacked, rows*cols)

	left := area.X + mainWidth + 2*gap
	cellWidth := (area.Width - mainWidth - 3*gap - (cols-1)*gap) / cols
	cellHeight := (height - (rows-1)*gap) / rows
	if mainWidth <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: area=%dx%d main=%d cell=%dx%d gap=%d",
			area.Width, area.Height, mainWidth, cellWidth, cellHeight, gap,
		)
	}

	slots := make([]platform.Rect, 0, stacked+1)
	slots = append(slots, main)
	for i := range stacked {
		slots = append(slots, platform.Rect{
			X:      left + (i%cols)*(cellWidth+gap),
			Y:      area.Y + gap + (i/cols)*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		})
	}
	return slots, nil
}

// ApplyPadding shrinks area by the configured screen padding.
func ApplyPadding(area platform.Rect, padding config.Margins) (platform.Rect, error) {
	area.X += padding.Left
	area.Y += padding.Top
	area.Width -= padding.Left + padding.Right
	area.Height -= padding.Top + padding.Bottom

	if area.Width < 1 || area.Height < 1 {
		return area, fmt.Errorf(
			"screen_padding leaves no usable space: %dx%d at %d,%d",
			area.Width, area.Height, area.X, area.Y,
		)
	}
	return area, nil
}

// ApplyRegion narrows area to the configured tile region. The result is
// never smaller than 1x1.
func ApplyRegion(area platform.Rect, region config.TileRegion) platform.Rect {
	// Percentages of area.
	x, y, w, h := 0, 0, 100, 100
	switch region.Type {
	case config.RegionLeftHalf:
		w = 50
	case config.RegionRightHalf:
		x, w = 50, 50
	case config.RegionTopHalf:
		h = 50
	case config.RegionBottomHalf:
		y, h = 50, 50
	case config.RegionCustom:
		x, y, w, h = region.XPercent, region.YPercent, region.WidthPercent, region.HeightPercent
	}

	return platform.Rect{
		X:      area.X + area.Width*x/100,
		Y:      area.Y + area.Height*y/100,
		Width:  max(area.Width*w/100, 1),
		Height: max(area.Height*h/100, 1),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
