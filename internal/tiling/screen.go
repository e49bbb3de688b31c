package tiling

import (
	"fmt"
	"sort"

	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/transition"
)

// Screen is a display in the engine's screen ring.
type Screen struct {
	index   int
	display platform.Display
}

var _ transition.Screen = (*Screen)(nil)

// ScreenID identifies the screen by its output name.
func (s *Screen) ScreenID() string {
	if s.display.Name != "" {
		return s.display.Name
	}
	return fmt.Sprintf("display-%d", s.display.ID)
}

// Index is the screen's position in the ring.
func (s *Screen) Index() int {
	return s.index
}

func (s *Screen) Display() platform.Display {
	return s.display
}

// tileArea is the usable area the layout is applied to.
func (s *Screen) tileArea() platform.Rect {
	if s.display.Usable.Width > 0 && s.display.Usable.Height > 0 {
		return s.display.Usable
	}
	return s.display.Bounds
}

// orderScreens builds the ring ordered left to right, then top to bottom.
func orderScreens(displays []platform.Display) []*Screen {
	sorted := make([]platform.Display, len(displays))
	copy(sorted, displays)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Bounds, sorted[j].Bounds
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	screens := make([]*Screen, len(sorted))
	for i, d := range sorted {
		screens[i] = &Screen{index: i, display: d}
	}
	return screens
}

// Window is a snapshot of a managed window handed to the coordinator.
type Window struct {
	info    platform.Window
	screen  *Screen
	backend platform.Backend
}

var _ transition.Window = (*Window)(nil)

func (w *Window) ID() transition.WindowID {
	return transition.WindowID(w.info.ID)
}

func (w *Window) Screen() (transition.Screen, bool) {
	if w.screen == nil {
		return nil, false
	}
	return w.screen, true
}

func (w *Window) Focus() error {
	return w.backend.Focus(w.info.ID)
}

// Info returns the window metadata captured at the last refresh.
func (w *Window) Info() platform.Window {
	return w.info
}
