package transition

import (
	"go.uber.org/zap"
)

// Coordinator turns a user intent into at most one Transition.
//
// It keeps no state between calls: every operation re-queries the Target and
// decides from that snapshot alone. The Target is borrowed, never owned; a
// detached Target makes every operation a no-op. Calls must be serialized by
// the caller.
type Coordinator struct {
	target Target
	spaces SpaceInfo
	logger *zap.Logger
}

// NewCoordinator creates a coordinator with no Target attached.
func NewCoordinator(spaces SpaceInfo, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		spaces: spaces,
		logger: logger,
	}
}

// Attach points the coordinator at target.
func (c *Coordinator) Attach(target Target) {
	c.target = target
}

// Detach drops the Target reference. Subsequent operations abort.
func (c *Coordinator) Detach() {
	c.target = nil
}

// focusedTiled resolves the focused window and checks it is tiled.
func (c *Coordinator) focusedTiled() (Window, SkipReason) {
	focused, ok := c.target.FocusedWindow()
	if !ok || focused == nil {
		return nil, SkipNoFocusedWindow
	}
	if c.target.IsWindowFloating(focused) {
		return nil, SkipFloating
	}
	return focused, SkipNone
}

// focusedPosition resolves the focused window's screen list and its index in it.
func (c *Coordinator) focusedPosition(focused Window) ([]Window, int, SkipReason) {
	screen, ok := focused.Screen()
	if !ok || screen == nil {
		return nil, 0, SkipNoScreen
	}

	windows := c.target.ActiveWindows(screen)
	for i, w := range windows {
		if SameWindow(w, focused) {
			return windows, i, SkipNone
		}
	}
	return nil, 0, SkipNotInWindowList
}

// SwapFocusedToMain swaps the focused window into the main slot. When it
// already holds the main slot, the window that held it before takes it back
// and receives focus.
func (c *Coordinator) SwapFocusedToMain() Outcome {
	const op = OpSwapToMain
	if c.target == nil {
		return c.skip(op, SkipNoTarget)
	}

	focused, reason := c.focusedTiled()
	if reason != SkipNone {
		return c.skip(op, reason)
	}

	windows, focusedIndex, reason := c.focusedPosition(focused)
	if reason != SkipNone {
		return c.skip(op, reason)
	}
	if len(windows) <= 1 {
		return c.skip(op, SkipTooFewWindows)
	}

	if focusedIndex == 0 {
		lastMain, ok := c.target.LastMainWindowForCurrentSpace()
		if !ok || lastMain == nil || SameWindow(lastMain, focused) {
			return c.skip(op, SkipNoLastMainWindow)
		}
		out := c.emit(op, SwitchWindows(focused, lastMain))
		c.focus(&out, lastMain)
		return out
	}

	return c.emit(op, SwitchWindows(focused, windows[0]))
}

// SwapFocusedCounterClockwise swaps the focused window with its predecessor
// in the screen's window list, wrapping from the main slot to the last.
func (c *Coordinator) SwapFocusedCounterClockwise() Outcome {
	return c.swapAdjacent(OpSwapCounterClockwise, func(i, n int) int {
		if i == 0 {
			return n - 1
		}
		return i - 1
	})
}

// SwapFocusedClockwise swaps the focused window with its successor in the
// screen's window list, wrapping from the last slot to the main slot.
func (c *Coordinator) SwapFocusedClockwise() Outcome {
	return c.swapAdjacent(OpSwapClockwise, func(i, n int) int {
		return (i + 1) % n
	})
}

func (c *Coordinator) swapAdjacent(op Op, neighbor func(i, n int) int) Outcome {
	if c.target == nil {
		return c.skip(op, SkipNoTarget)
	}

	focused, reason := c.focusedTiled()
	if reason != SkipNone {
		return c.resetFocus(op, reason)
	}

	windows, focusedIndex, reason := c.focusedPosition(focused)
	if reason != SkipNone {
		return c.skip(op, reason)
	}
	if len(windows) <= 1 {
		return c.skip(op, SkipTooFewWindows)
	}

	other := windows[neighbor(focusedIndex, len(windows))]
	return c.emit(op, SwitchWindows(focused, other))
}

// ThrowToScreenAtIndex moves the focused window to the screen at index.
func (c *Coordinator) ThrowToScreenAtIndex(index int) Outcome {
	const op = OpThrowToScreen
	if c.target == nil {
		return c.skip(op, SkipNoTarget)
	}

	screen, ok := c.target.Screen(index)
	if !ok || screen == nil {
		return c.skip(op, SkipUnknownScreen)
	}
	focused, ok := c.target.FocusedWindow()
	if !ok || focused == nil {
		return c.skip(op, SkipNoFocusedWindow)
	}

	current, ok := focused.Screen()
	if !ok || current == nil {
		return c.skip(op, SkipNoScreen)
	}
	if SameScreen(current, screen) {
		return c.skip(op, SkipAlreadyOnScreen)
	}

	return c.emit(op, MoveWindowToScreen(focused, screen))
}

// SwapFocusedWindowScreenClockwise moves the focused window to the next
// screen clockwise around the screen ring.
func (c *Coordinator) SwapFocusedWindowScreenClockwise() Outcome {
	return c.moveAroundRing(OpScreenClockwise, func(t Target, s Screen) int {
		return t.NextScreenIndexClockwise(s)
	})
}

// SwapFocusedWindowScreenCounterClockwise moves the focused window to the
// next screen counter-clockwise around the screen ring.
func (c *Coordinator) SwapFocusedWindowScreenCounterClockwise() Outcome {
	return c.moveAroundRing(OpScreenCounterClockwise, func(t Target, s Screen) int {
		return t.NextScreenIndexCounterClockwise(s)
	})
}

func (c *Coordinator) moveAroundRing(op Op, next func(Target, Screen) int) Outcome {
	if c.target == nil {
		return c.skip(op, SkipNoTarget)
	}

	focused, reason := c.focusedTiled()
	if reason != SkipNone {
		return c.resetFocus(op, reason)
	}

	screen, ok := focused.Screen()
	if !ok || screen == nil {
		return c.skip(op, SkipNoScreen)
	}

	nextScreen, ok := c.target.Screen(next(c.target, screen))
	if !ok || nextScreen == nil {
		return c.skip(op, SkipUnknownScreen)
	}
	// A one-screen ring points back at the current screen.
	if SameScreen(screen, nextScreen) {
		return c.skip(op, SkipAlreadyOnScreen)
	}

	return c.emit(op, MoveWindowToScreen(focused, nextScreen))
}

// PushFocusedWindowToSpace moves the focused window to the space at index
// of the global space ordering and keeps it focused.
func (c *Coordinator) PushFocusedWindowToSpace(index int) Outcome {
	return c.pushToSpace(OpPushToSpace, index)
}

func (c *Coordinator) pushToSpace(op Op, index int) Outcome {
	if c.target == nil {
		return c.skip(op, SkipNoTarget)
	}
	if index < 0 {
		return c.skip(op, SkipSpaceOutOfBounds)
	}

	focused, ok := c.target.FocusedWindow()
	if !ok || focused == nil {
		return c.skip(op, SkipNoFocusedWindow)
	}
	if screen, ok := focused.Screen(); !ok || screen == nil {
		return c.skip(op, SkipNoScreen)
	}

	out := c.emit(op, MoveWindowToSpaceAtIndex(focused, index))
	// Crossing spaces drops focus unless it is requested again.
	c.focus(&out, focused)
	return out
}

// PushFocusedWindowToSpaceLeft moves the focused window one space to the left.
func (c *Coordinator) PushFocusedWindowToSpaceLeft() Outcome {
	return c.pushToNeighborSpace(OpPushToSpaceLeft, -1)
}

// PushFocusedWindowToSpaceRight moves the focused window one space to the right.
func (c *Coordinator) PushFocusedWindowToSpaceRight() Outcome {
	return c.pushToNeighborSpace(OpPushToSpaceRight, 1)
}

func (c *Coordinator) pushToNeighborSpace(op Op, delta int) Outcome {
	if c.spaces == nil {
		return c.skip(op, SkipNoSpaceInfo)
	}

	current, ok := c.spaces.CurrentFocusedSpace()
	if !ok {
		return c.skip(op, SkipNoFocusedSpace)
	}
	spaces, ok := c.spaces.SpacesForAllScreens()
	if !ok {
		return c.skip(op, SkipNoFocusedSpace)
	}

	index := -1
	for i, space := range spaces {
		if space == current {
			index = i
			break
		}
	}
	if index < 0 {
		return c.skip(op, SkipNoFocusedSpace)
	}

	next := index + delta
	if next < 0 || next >= len(spaces) {
		return c.skip(op, SkipSpaceOutOfBounds)
	}

	return c.pushToSpace(op, next)
}

func (c *Coordinator) emit(op Op, t Transition) Outcome {
	out := Outcome{Op: op, Transition: &t}
	if err := c.target.ExecuteTransition(t); err != nil {
		out.Err = err
		c.logger.Warn("transition failed",
			zap.String("op", string(op)),
			zap.Stringer("transition", t),
			zap.Error(err))
		return out
	}
	layout, _ := c.target.CurrentLayout()
	c.logger.Debug("transition emitted",
		zap.String("op", string(op)),
		zap.Stringer("transition", t),
		zap.String("layout", layout))
	return out
}

func (c *Coordinator) resetFocus(op Op, reason SkipReason) Outcome {
	out := c.emit(op, ResetFocus())
	out.Skip = reason
	return out
}

func (c *Coordinator) focus(out *Outcome, w Window) {
	if err := w.Focus(); err != nil {
		c.logger.Warn("focus request failed",
			zap.String("op", string(out.Op)),
			zap.Uint32("window", uint32(w.ID())),
			zap.Error(err))
		if out.Err == nil {
			out.Err = err
		}
	}
}

func (c *Coordinator) skip(op Op, reason SkipReason) Outcome {
	c.logger.Debug("no transition",
		zap.String("op", string(op)),
		zap.String("reason", string(reason)))
	return skipped(op, reason)
}
