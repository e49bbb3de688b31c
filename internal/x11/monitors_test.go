package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/stretchr/testify/assert"
)

func TestShrinkByStruts_TopPanelOnlyAffectsOverlappingMonitor(t *testing.T) {
	// Two 1000x800 monitors side by side; a 30px panel across the left one.
	left := Monitor{ID: 0, X: 0, Y: 0, Width: 1000, Height: 800}
	right := Monitor{ID: 1, X: 1000, Y: 0, Width: 1000, Height: 800}
	panel := &ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 999}

	gotLeft := shrinkByStruts(left, 2000, 800, []*ewmh.WmStrutPartial{panel})
	gotRight := shrinkByStruts(right, 2000, 800, []*ewmh.WmStrutPartial{panel})

	assert.Equal(t, Monitor{ID: 0, X: 0, Y: 30, Width: 1000, Height: 770}, gotLeft)
	assert.Equal(t, right, gotRight)
}

func TestShrinkByStruts_FullEdgeStrut(t *testing.T) {
	monitor := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	strut := fullEdgeStrut(&ewmh.WmStrut{Bottom: 40, Left: 60}, 1920, 1080)

	got := shrinkByStruts(monitor, 1920, 1080, []*ewmh.WmStrutPartial{strut})

	assert.Equal(t, Monitor{X: 60, Y: 0, Width: 1860, Height: 1040}, got)
}

func TestShrinkByStruts_ClampsToMinimumSize(t *testing.T) {
	monitor := Monitor{Width: 100, Height: 100}
	strut := fullEdgeStrut(&ewmh.WmStrut{Left: 80, Right: 80}, 100, 100)

	got := shrinkByStruts(monitor, 100, 100, []*ewmh.WmStrutPartial{strut})

	assert.Equal(t, 1, got.Width)
	assert.Equal(t, 100, got.Height)
}
