package transition

import "fmt"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// SpaceID identifies a virtual workspace.
type SpaceID uint64

// Screen is a display handle with a stable identity.
type Screen interface {
	ScreenID() string
}

// Window is a managed top-level window. Two windows are the same window
// when their IDs are equal.
type Window interface {
	ID() WindowID
	// Screen reports the screen the window is currently assigned to.
	Screen() (Screen, bool)
	Focus() error
}

// Kind enumerates the transitions the coordinator can emit.
type Kind int

const (
	KindSwitchWindows Kind = iota + 1
	KindMoveWindowToScreen
	KindMoveWindowToSpaceAtIndex
	KindResetFocus
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindSwitchWindows:
		return "switch_windows"
	case KindMoveWindowToScreen:
		return "move_window_to_screen"
	case KindMoveWindowToSpaceAtIndex:
		return "move_window_to_space_at_index"
	case KindResetFocus:
		return "reset_focus"
	default:
		return "unknown"
	}
}

// Transition is a one-shot command for the Target's executor. Which fields
// are set depends on Kind.
type Transition struct {
	Kind       Kind
	Window     Window
	Other      Window // KindSwitchWindows only
	Screen     Screen // KindMoveWindowToScreen only
	SpaceIndex int    // KindMoveWindowToSpaceAtIndex only
}

// SwitchWindows swaps the positions of two windows.
func SwitchWindows(a, b Window) Transition {
	return Transition{Kind: KindSwitchWindows, Window: a, Other: b}
}

// MoveWindowToScreen moves w onto screen.
func MoveWindowToScreen(w Window, screen Screen) Transition {
	return Transition{Kind: KindMoveWindowToScreen, Window: w, Screen: screen}
}

// MoveWindowToSpaceAtIndex moves w to the space at the given index of the
// global space ordering.
func MoveWindowToSpaceAtIndex(w Window, spaceIndex int) Transition {
	return Transition{Kind: KindMoveWindowToSpaceAtIndex, Window: w, SpaceIndex: spaceIndex}
}

// ResetFocus asks the Target to reassert focus on a sensible window.
func ResetFocus() Transition {
	return Transition{Kind: KindResetFocus}
}

func (t Transition) String() string {
	switch t.Kind {
	case KindSwitchWindows:
		return fmt.Sprintf("%s(%d, %d)", t.Kind, windowID(t.Window), windowID(t.Other))
	case KindMoveWindowToScreen:
		screenID := ""
		if t.Screen != nil {
			screenID = t.Screen.ScreenID()
		}
		return fmt.Sprintf("%s(%d, %s)", t.Kind, windowID(t.Window), screenID)
	case KindMoveWindowToSpaceAtIndex:
		return fmt.Sprintf("%s(%d, %d)", t.Kind, windowID(t.Window), t.SpaceIndex)
	default:
		return t.Kind.String()
	}
}

func windowID(w Window) WindowID {
	if w == nil {
		return 0
	}
	return w.ID()
}

// SameWindow reports whether a and b refer to the same window.
func SameWindow(a, b Window) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}

// SameScreen compares screens by identity.
func SameScreen(a, b Screen) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ScreenID() == b.ScreenID()
}
