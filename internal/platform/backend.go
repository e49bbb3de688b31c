package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// StickyDesktop marks windows shown on every desktop.
const StickyDesktop = -1

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	AppID   string
	Title   string
	Bounds  Rect
	Desktop int
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	// ListWindows returns tileable windows in mapping order.
	ListWindows() ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Focus(windowID WindowID) error
	CurrentDesktop() (int, error)
	DesktopCount() (int, error)
	SetWindowDesktop(windowID WindowID, desktop int) error
}
