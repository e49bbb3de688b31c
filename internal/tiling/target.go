package tiling

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/transition"
	"go.uber.org/zap"
)

// FocusedWindow returns the active window when it is on the current desktop.
func (e *Engine) FocusedWindow() (transition.Window, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, ok := e.windows[e.focused]
	if !ok {
		return nil, false
	}
	if info.Desktop != e.desktop && info.Desktop != platform.StickyDesktop {
		return nil, false
	}
	return e.windowLocked(e.spaceLocked(e.desktop), info), true
}

func (e *Engine) IsWindowFloating(w transition.Window) bool {
	if w == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	info, ok := e.windows[platform.WindowID(w.ID())]
	if !ok {
		return false
	}
	return e.floatingLocked(info)
}

func (e *Engine) CurrentLayout() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.config == nil || e.config.DefaultLayout == "" {
		return "", false
	}
	return e.config.DefaultLayout, true
}

func (e *Engine) Screen(index int) (transition.Screen, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.screens) {
		return nil, false
	}
	return e.screens[index], true
}

// ActiveWindows lists the tiled windows of screen on the current desktop.
func (e *Engine) ActiveWindows(screen transition.Screen) []transition.Window {
	if screen == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.screenByIDLocked(screen.ScreenID())
	if s == nil {
		return nil
	}
	ids := e.spaceLocked(e.desktop).lists[s.ScreenID()]
	windows := make([]transition.Window, 0, len(ids))
	for _, id := range ids {
		windows = append(windows, &Window{info: e.windows[id], screen: s, backend: e.backend})
	}
	return windows
}

func (e *Engine) NextScreenIndexClockwise(from transition.Screen) int {
	return e.neighborScreenIndex(from, 1)
}

func (e *Engine) NextScreenIndexCounterClockwise(from transition.Screen) int {
	return e.neighborScreenIndex(from, -1)
}

// neighborScreenIndex walks the screen ring. Unknown screens yield -1.
func (e *Engine) neighborScreenIndex(from transition.Screen, delta int) int {
	if from == nil {
		return -1
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.screens)
	for i, s := range e.screens {
		if s.ScreenID() == from.ScreenID() {
			return (i + delta + n) % n
		}
	}
	return -1
}

// LastMainWindowForCurrentSpace returns the previous main window of the
// focused window's screen. Desktops span every screen, so the record is
// kept per screen; another screen's record is never returned.
func (e *Engine) LastMainWindowForCurrentSpace() (transition.Window, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	focused, ok := e.windows[e.focused]
	if !ok {
		return nil, false
	}
	sp := e.spaceLocked(e.desktop)
	screen := e.windowLocked(sp, focused).screen
	if screen == nil {
		return nil, false
	}
	id, ok := sp.lastMainOf(screen.ScreenID())
	if !ok {
		return nil, false
	}
	info, ok := e.windows[id]
	if !ok {
		return nil, false
	}
	return e.windowLocked(sp, info), true
}

// CurrentFocusedSpace returns the current EWMH desktop.
func (e *Engine) CurrentFocusedSpace() (transition.SpaceID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.refreshed || e.desktopCount <= 0 {
		return 0, false
	}
	return transition.SpaceID(e.desktop), true
}

// SpacesForAllScreens lists every desktop. EWMH desktops span all screens,
// so the ordering is simply by desktop number.
func (e *Engine) SpacesForAllScreens() ([]transition.SpaceID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.refreshed || e.desktopCount <= 0 {
		return nil, false
	}
	spaces := make([]transition.SpaceID, e.desktopCount)
	for i := range spaces {
		spaces[i] = transition.SpaceID(i)
	}
	return spaces, true
}

// ExecuteTransition applies a coordinator decision.
func (e *Engine) ExecuteTransition(t transition.Transition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch t.Kind {
	case transition.KindSwitchWindows:
		return e.switchLocked(t.Window, t.Other)
	case transition.KindMoveWindowToScreen:
		return e.moveToScreenLocked(t.Window, t.Screen)
	case transition.KindMoveWindowToSpaceAtIndex:
		return e.moveToSpaceLocked(t.Window, t.SpaceIndex)
	case transition.KindResetFocus:
		return e.resetFocusLocked()
	default:
		return fmt.Errorf("unsupported transition %s", t)
	}
}

func (e *Engine) switchLocked(a, b transition.Window) error {
	if a == nil || b == nil {
		return fmt.Errorf("switch needs two windows")
	}
	sp := e.spaceLocked(e.desktop)

	screenA, slotA, ok := sp.locate(platform.WindowID(a.ID()))
	if !ok {
		return fmt.Errorf("window %d is not tiled", a.ID())
	}
	screenB, slotB, ok := sp.locate(platform.WindowID(b.ID()))
	if !ok {
		return fmt.Errorf("window %d is not tiled", b.ID())
	}

	listA, listB := sp.lists[screenA], sp.lists[screenB]
	listA[slotA], listB[slotB] = listB[slotB], listA[slotA]
	sp.trackMains(e.screenIDsLocked())

	return e.retileScreensLocked(sp, screenA, screenB)
}

func (e *Engine) moveToScreenLocked(w transition.Window, screen transition.Screen) error {
	if w == nil || screen == nil {
		return fmt.Errorf("move to screen needs a window and a screen")
	}
	target := e.screenByIDLocked(screen.ScreenID())
	if target == nil {
		return fmt.Errorf("unknown screen %q", screen.ScreenID())
	}
	id := platform.WindowID(w.ID())
	sp := e.spaceLocked(e.desktop)

	var errs []error
	if from, slot, ok := sp.locate(id); ok {
		sp.remove(from, slot)
		sp.push(target.ScreenID(), id)
		sp.trackMains(e.screenIDsLocked())
		errs = append(errs, e.retileScreensLocked(sp, from, target.ScreenID()))
	} else {
		info, ok := e.windows[id]
		if !ok {
			return fmt.Errorf("unknown window %d", id)
		}
		// Floating windows keep their size, centered on the new screen.
		bounds := centerIn(info.Bounds, target.tileArea())
		if err := e.backend.MoveResize(id, bounds); err != nil {
			errs = append(errs, fmt.Errorf("failed to move window %d: %w", id, err))
		} else {
			info.Bounds = bounds
			e.windows[id] = info
		}
	}

	if err := e.focusLocked(id); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) moveToSpaceLocked(w transition.Window, index int) error {
	if w == nil {
		return fmt.Errorf("move to space needs a window")
	}
	if index < 0 || index >= e.desktopCount {
		return fmt.Errorf("space index %d out of range (%d spaces)", index, e.desktopCount)
	}
	if index == e.desktop {
		return nil
	}

	id := platform.WindowID(w.ID())
	if err := e.backend.SetWindowDesktop(id, index); err != nil {
		return fmt.Errorf("failed to move window %d to space %d: %w", id, index, err)
	}
	if info, ok := e.windows[id]; ok {
		info.Desktop = index
		e.windows[id] = info
	}

	sp := e.spaceLocked(e.desktop)
	from, slot, ok := sp.locate(id)
	if !ok {
		return nil
	}
	sp.remove(from, slot)
	sp.trackMains(e.screenIDsLocked())

	dest := e.spaceLocked(index)
	dest.push(from, id)
	dest.dirty[from] = true

	e.logger.Debug("moved window to space",
		zap.Uint32("window", uint32(id)),
		zap.Int("space", index),
	)
	return e.retileScreensLocked(sp, from)
}

// resetFocusLocked focuses the main window of the active screen, falling
// back to the first tiled window anywhere.
func (e *Engine) resetFocusLocked() error {
	sp := e.spaceLocked(e.desktop)

	var active *Screen
	if info, ok := e.windows[e.focused]; ok {
		active = e.windowLocked(sp, info).screen
	}
	if active == nil && len(e.screens) > 0 {
		active = e.screens[0]
	}
	if active != nil {
		if ids := sp.lists[active.ScreenID()]; len(ids) > 0 {
			return e.focusLocked(ids[0])
		}
	}
	for _, s := range e.screens {
		if ids := sp.lists[s.ScreenID()]; len(ids) > 0 {
			return e.focusLocked(ids[0])
		}
	}
	return nil
}

func (e *Engine) focusLocked(id platform.WindowID) error {
	if err := e.backend.Focus(id); err != nil {
		return fmt.Errorf("failed to focus window %d: %w", id, err)
	}
	e.focused = id
	return nil
}

// centerIn centers r inside area, shrinking it to fit.
func centerIn(r, area platform.Rect) platform.Rect {
	w := min(r.Width, area.Width)
	h := min(r.Height, area.Height)
	return platform.Rect{
		X:      area.X + (area.Width-w)/2,
		Y:      area.Y + (area.Height-h)/2,
		Width:  w,
		Height: h,
	}
}
