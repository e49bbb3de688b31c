package transition

// Target owns the window arrangement. It answers the coordinator's queries
// and executes the transitions the coordinator decides on.
type Target interface {
	ExecuteTransition(t Transition) error

	// FocusedWindow is the window that currently holds input focus.
	FocusedWindow() (Window, bool)
	IsWindowFloating(w Window) bool
	// CurrentLayout names the active layout.
	CurrentLayout() (string, bool)
	Screen(index int) (Screen, bool)
	// ActiveWindows lists the tiled windows on screen; index 0 is the main slot.
	ActiveWindows(screen Screen) []Window
	NextScreenIndexClockwise(from Screen) int
	NextScreenIndexCounterClockwise(from Screen) int
	// LastMainWindowForCurrentSpace is the window that most recently held the
	// main slot on the focused space before its current occupant.
	LastMainWindowForCurrentSpace() (Window, bool)
}

// SpaceInfo exposes the global space ordering.
type SpaceInfo interface {
	CurrentFocusedSpace() (SpaceID, bool)
	// SpacesForAllScreens returns every space across all displays in the
	// order left/right navigation walks them.
	SpacesForAllScreens() ([]SpaceID, bool)
}
